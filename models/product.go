package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID             uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string   `gorm:"not null" json:"name"`
	Slug           string   `gorm:"uniqueIndex;not null" json:"slug"`
	Description    string   `json:"description"`
	Price          float64  `gorm:"not null" json:"price"`
	Images         []string `gorm:"serializer:json" json:"images"`
	Category       string   `gorm:"index" json:"category"`
	Stock          int      `json:"stock"`
	AvailableSizes []string `gorm:"serializer:json" json:"available_sizes"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
