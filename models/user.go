package models

import "time"

type User struct {
	ID        string `gorm:"primaryKey" json:"id"` // Firebase UID
	Email     string `gorm:"unique;not null" json:"email"`
	Name      string `json:"name"`
	Picture   string `json:"picture"`
	Provider  string `json:"provider"`
	Role      string `gorm:"type:VARCHAR(20);default:'customer'" json:"role"` // "admin" or "customer"
	Addresses []ShippingAddress `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	Orders    []Order           `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"orders,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
