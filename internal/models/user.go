package models

import "time"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleUser    UserRole = "user"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Username     string   `gorm:"size:50;uniqueIndex;not null"`
	Email        string   `gorm:"size:100;uniqueIndex"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null;default:user"`
	IsActive     bool     `gorm:"not null;default:true"`
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsManager: manager ve admin rollerinin ikisi de yönetici yetkisine sahip
func (u *User) IsManager() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}
