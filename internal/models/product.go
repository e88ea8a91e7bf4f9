package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductType string

const (
	ProductTypeSandwich ProductType = "sandwich"
	ProductTypeMenu     ProductType = "menu"
)

// Product - Satılan ürün. İki tür var:
//   - sandwich: maliyeti malzeme satırlarından hesaplanır
//   - menu: maliyeti referans verdiği sandviçin maliyeti + sabit fiyatlı eklentilerden hesaplanır
//
// TotalCost her zaman hesaplanan son değerdir; malzeme fiyatı değişince
// recompute çağrılana kadar bayat (stale) kalır. Otomatik yeniden hesaplama yok.
type Product struct {
	ID          uint        `gorm:"primaryKey"`
	Name        string      `gorm:"size:200;not null"`
	ProductCode string      `gorm:"size:50;uniqueIndex;not null"`
	ProductType ProductType `gorm:"size:20;not null;default:sandwich"`

	// SellingPrice nil olabilir: sadece menü içinde kullanılan sandviçler
	// tek başına satılmaz. Bu durumda kâr alanları da nil kalır (0 değil).
	SellingPrice       *decimal.Decimal `gorm:"type:decimal(15,7)"`
	TotalCost          decimal.Decimal  `gorm:"type:decimal(15,7);not null;default:0"`
	GrossProfit        *decimal.Decimal `gorm:"type:decimal(15,7)"`
	GrossProfitPercent *decimal.Decimal `gorm:"type:decimal(8,4)"`

	IsActive  bool `gorm:"not null;default:true"`
	CreatedBy uint `gorm:"index;not null"`

	// Menü alanları
	SandwichID *uint  `gorm:"index"`   // Menünün baz sandviçi
	FriesSize  string `gorm:"size:10"` // small, medium, large
	DrinkSize  string `gorm:"size:10"` // small, medium, large

	CreatedAt time.Time
	UpdatedAt time.Time
}
