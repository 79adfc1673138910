package checkout

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Athah222/Label-Athah/models"
)

// GormOrderRepo writes orders to postgres. The stock decrement happens under
// row locks inside the same transaction as the order insert, so two
// simultaneous checkouts cannot both take the last unit.
type GormOrderRepo struct {
	db *gorm.DB
}

func NewGormOrderRepo(db *gorm.DB) *GormOrderRepo {
	return &GormOrderRepo{db: db}
}

// Persist writes the order exactly once per gateway payment id. A retried
// persistence finds the existing row and returns it unchanged.
func (r *GormOrderRepo) Persist(ctx context.Context, order models.Order) (models.Order, error) {
	var existing models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("gateway_payment_id = ?", order.GatewayPaymentID).
		First(&existing).Error
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", item.ProductID).Error; err != nil {
				return err
			}
			if product.Stock < item.Quantity {
				return fmt.Errorf("insufficient stock for product: %s", item.ProductName)
			}
			product.Stock -= item.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (r *GormOrderRepo) UserEmail(ctx context.Context, userID string) (string, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Select("email").First(&user, "id = ?", userID).Error; err != nil {
		return "", err
	}
	return user.Email, nil
}
