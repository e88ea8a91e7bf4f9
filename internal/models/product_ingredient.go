package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductIngredient - Ürün ile malzeme arasındaki miktar satırı.
// Bir üründe aynı malzeme yalnız bir kez yer alır (composite unique index).
type ProductIngredient struct {
	ID           uint            `gorm:"primaryKey"`
	ProductID    uint            `gorm:"uniqueIndex:idx_product_ingredient;not null"`
	IngredientID uint            `gorm:"uniqueIndex:idx_product_ingredient;not null"`
	Ingredient   Ingredient      `gorm:"foreignKey:IngredientID"`
	Quantity     decimal.Decimal `gorm:"type:decimal(15,7);not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
