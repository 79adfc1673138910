package models

import "time"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage" // discount = subtotal * value / 100
	DiscountFixed      DiscountType = "fixed"      // discount = value
)

type Coupon struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	Code          string       `gorm:"uniqueIndex;not null" json:"code"` // stored upper-case
	DiscountType  DiscountType `gorm:"type:VARCHAR(20);not null" json:"discount_type"`
	DiscountValue float64      `gorm:"not null" json:"discount_value"`
	ExpiresAt     time.Time    `json:"expires_at"`
	IsActive      bool         `json:"is_active"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Usable reports whether the coupon may be applied at the given instant.
func (c Coupon) Usable(now time.Time) bool {
	return c.IsActive && !now.After(c.ExpiresAt)
}
