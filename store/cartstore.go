package store

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrStockExceeded means an add was rejected because the merged quantity
	// would pass the stock ceiling captured on the line. The cart is unchanged.
	ErrStockExceeded = errors.New("requested quantity exceeds available stock")
)

// ProductSnapshot captures the product attributes a cart line needs at
// add-time. Checkout uses the snapshot, not the live product row.
type ProductSnapshot struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
	Stock int     `json:"stock"`
}

// CartLine is one (product, size) entry in a session cart.
type CartLine struct {
	ID       string          `json:"id"` // "<productID>-<size>"
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
	Size     string          `json:"size"`
	AddedAt  time.Time       `json:"added_at"`
}

// LineID builds the composite line key for a product and size.
func LineID(productID uint, size string) string {
	return fmt.Sprintf("%d-%s", productID, size)
}

// CartStore holds one session's purchase intent. It is not shared between
// sessions, so it needs no locking; every mutation is persisted through the
// Backend before the call returns.
type CartStore struct {
	key     string
	lines   []CartLine
	backend Backend
}

// Load reads the session's cart from the backend. A missing or corrupt
// payload yields an empty cart, never an error to the caller's session.
func Load(key string, backend Backend) *CartStore {
	lines, err := backend.Load(key)
	if err != nil || lines == nil {
		lines = []CartLine{}
	}
	return &CartStore{key: key, lines: lines, backend: backend}
}

// AddLine merges the quantity into an existing (product, size) line or
// appends a new one. Exceeding the stock ceiling rejects the whole add and
// leaves the cart untouched.
func (s *CartStore) AddLine(p ProductSnapshot, quantity int, size string) error {
	if quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	if size == "" {
		size = "one-size"
	}
	id := LineID(p.ID, size)

	for i, line := range s.lines {
		if line.ID == id {
			if line.Quantity+quantity > line.Product.Stock {
				return ErrStockExceeded
			}
			s.lines[i].Quantity += quantity
			s.lines[i].AddedAt = time.Now()
			return s.save()
		}
	}

	if quantity > p.Stock {
		return ErrStockExceeded
	}
	s.lines = append(s.lines, CartLine{
		ID:       id,
		Product:  p,
		Quantity: quantity,
		Size:     size,
		AddedAt:  time.Now(),
	})
	return s.save()
}

// SetQuantity replaces a line's quantity. Zero or less removes the line.
// A quantity above the stock ceiling is clamped to it; clamped reports
// that so the caller can warn the user.
func (s *CartStore) SetQuantity(lineID string, quantity int) (clamped bool, err error) {
	for i, line := range s.lines {
		if line.ID != lineID {
			continue
		}
		if quantity <= 0 {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return false, s.save()
		}
		if quantity > line.Product.Stock {
			s.lines[i].Quantity = line.Product.Stock
			return true, s.save()
		}
		s.lines[i].Quantity = quantity
		return false, s.save()
	}
	return false, errors.New("cart line not found")
}

// RemoveLine deletes a line outright. Removing an unknown line is a no-op.
func (s *CartStore) RemoveLine(lineID string) error {
	for i, line := range s.lines {
		if line.ID == lineID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return s.save()
		}
	}
	return nil
}

// Clear empties the cart and deletes the persisted copy.
func (s *CartStore) Clear() error {
	s.lines = []CartLine{}
	return s.backend.Delete(s.key)
}

// Lines returns a copy of the current cart lines.
func (s *CartStore) Lines() []CartLine {
	out := make([]CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Totals derives the item count and subtotal from the lines. These are
// never stored, so they cannot drift from line state.
func (s *CartStore) Totals() (count int, subtotal float64) {
	for _, line := range s.lines {
		count += line.Quantity
		subtotal += line.Product.Price * float64(line.Quantity)
	}
	return count, subtotal
}

func (s *CartStore) save() error {
	return s.backend.Save(s.key, s.lines)
}
