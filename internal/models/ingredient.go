package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient - Malzeme kartı, maliyet hesabının yaprak seviyesi.
// PricePerUnit decimal tutulur; para hesabında float kullanılmaz.
type Ingredient struct {
	ID              uint            `gorm:"primaryKey"`
	WrinCode        string          `gorm:"size:20;index"` // Tedarikçi malzeme kodu (opsiyonel)
	Name            string          `gorm:"size:200;not null"`
	Category        string          `gorm:"size:50;index;not null"` // BASE, PROTEIN, CHEESE, VEGETABLE, SAUCE, OTHER
	PricePerUnit    decimal.Decimal `gorm:"type:decimal(15,7);not null;default:0"`
	UnitType        string          `gorm:"size:20;not null"` // kg, g, l, ml, pieces, slices, portions vs.
	TemperatureZone string          `gorm:"size:50"`          // FROZEN, CHILLED, AMBIENT, HOT (opsiyonel)
	IsActive        bool            `gorm:"not null;default:true"`
	CreatedBy       *uint           `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IngredientCategories - UI gruplama için kategori etiketleri
var IngredientCategories = map[string]string{
	"BASE":      "Base (Buns)",
	"PROTEIN":   "Proteins",
	"CHEESE":    "Cheeses",
	"VEGETABLE": "Vegetables",
	"SAUCE":     "Sauces",
	"OTHER":     "Other",
}

// TemperatureZones - Saklama sıcaklık bölgeleri
var TemperatureZones = map[string]string{
	"FROZEN":  "Frozen (-18°C)",
	"CHILLED": "Chilled (0-4°C)",
	"AMBIENT": "Ambient (room temp)",
	"HOT":     "Hot (>65°C)",
}

// ValidUnitTypes - Kabul edilen ölçü birimleri
var ValidUnitTypes = []string{"kg", "g", "hg", "dag", "dg", "l", "dl", "cl", "ml", "pieces", "slices", "portions"}
