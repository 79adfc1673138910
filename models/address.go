package models

import "time"

// Address is the plain value embedded into orders (shipping + billing).
type Address struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// Complete reports whether every address field is filled in.
func (a Address) Complete() bool {
	return a.Name != "" && a.Street != "" && a.City != "" &&
		a.State != "" && a.Zip != "" && a.Country != ""
}

// ShippingAddress is a saved, user-owned address. At most one address per
// user carries IsDefault=true; the switch is done in a single transaction.
type ShippingAddress struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index;not null" json:"user_id"`
	Address   Address   `gorm:"embedded" json:"address"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
