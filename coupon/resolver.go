package coupon

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Athah222/Label-Athah/models"
)

var (
	ErrNotFound = errors.New("coupon code does not exist")
	ErrExpired  = errors.New("coupon is expired or inactive")
)

// Resolver validates a user-entered discount code and prices it against a
// subtotal. Percentage discounts are computed with decimal arithmetic and
// rounded half-up to two places; the original behaviour at the paisa level
// was unspecified.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Apply looks up the code (case-insensitive) and returns the coupon plus the
// discount amount for the given subtotal.
func (r *Resolver) Apply(ctx context.Context, code string, subtotal float64) (models.Coupon, float64, error) {
	var c models.Coupon
	err := r.db.WithContext(ctx).
		Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Coupon{}, 0, ErrNotFound
	}
	if err != nil {
		return models.Coupon{}, 0, err
	}
	discount, err := Discount(c, subtotal, time.Now())
	if err != nil {
		return models.Coupon{}, 0, err
	}
	return c, discount, nil
}

// Discount computes the discount a coupon yields on a subtotal at a given
// instant. Split out from Apply so the math is testable without a database.
func Discount(c models.Coupon, subtotal float64, now time.Time) (float64, error) {
	if !c.Usable(now) {
		return 0, ErrExpired
	}

	sub := decimal.NewFromFloat(subtotal)
	value := decimal.NewFromFloat(c.DiscountValue)

	var d decimal.Decimal
	switch c.DiscountType {
	case models.DiscountPercentage:
		d = sub.Mul(value).Div(decimal.NewFromInt(100)).Round(2)
	case models.DiscountFixed:
		d = value.Round(2)
	default:
		return 0, errors.New("unknown discount type")
	}

	// A discount never exceeds what is being discounted.
	if d.GreaterThan(sub) {
		d = sub
	}
	f, _ := d.Float64()
	return f, nil
}
