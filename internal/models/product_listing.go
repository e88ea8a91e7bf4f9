package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductListing - Ürünün restoran bazlı fiyat listesi kaydı.
// Markup ve marj saklanmaz, ürünün hesaplanmış maliyetinden türetilir.
type ProductListing struct {
	ID            uint            `gorm:"primaryKey"`
	RestaurantID  uint            `gorm:"uniqueIndex:idx_restaurant_product;not null"`
	Restaurant    Restaurant      `gorm:"foreignKey:RestaurantID"`
	ProductID     uint            `gorm:"uniqueIndex:idx_restaurant_product;not null"`
	Product       Product         `gorm:"foreignKey:ProductID"`
	LocalPrice    decimal.Decimal `gorm:"type:decimal(15,7);not null"`
	DeliveryPrice decimal.Decimal `gorm:"type:decimal(15,7);not null"`
	IsAvailable   bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Markup - Paket servis fiyatı ile restoran fiyatı arasındaki fark
func (l *ProductListing) Markup() decimal.Decimal {
	return l.DeliveryPrice.Sub(l.LocalPrice)
}
