package models

import "time"

type Restaurant struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"size:200;not null"`
	RestaurantCode string `gorm:"size:50;uniqueIndex;not null"`
	Address        string `gorm:"size:255;not null"`
	City           string `gorm:"size:100;index;not null"`
	PostalCode     string `gorm:"size:20"`
	Phone          string `gorm:"size:50"` // Opsiyonel telefon
	Email          string `gorm:"size:100"`
	IsActive       bool   `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
