package models

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"    // legacy initial value, new orders start at Processing
	OrderStatusProcessing OrderStatus = "Processing" // paid, being prepared
	OrderStatusShipped    OrderStatus = "Shipped"    // handed to the carrier
	OrderStatusDelivered  OrderStatus = "Delivered"  // customer received the parcel
	OrderStatusCancelled  OrderStatus = "Cancelled"  // cancelled before delivery
)

// ParseOrderStatus maps a user-supplied string onto a known status.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch strings.ToLower(s) {
	case "pending":
		return OrderStatusPending, nil
	case "processing":
		return OrderStatusProcessing, nil
	case "shipped":
		return OrderStatusShipped, nil
	case "delivered":
		return OrderStatusDelivered, nil
	case "cancelled":
		return OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// CanTransition reports whether an admin may move an order from one status
// to another. Delivered and Cancelled are terminal.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	OrderRef         string      `gorm:"uniqueIndex" json:"order_ref"`
	UserID           string      `gorm:"index;not null" json:"user_id"`
	User             User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items            []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal         float64     `json:"subtotal"`
	ShippingCost     float64     `json:"shipping_cost"`
	Discount         float64     `json:"discount"`
	CouponCode       string      `json:"coupon_code,omitempty"`
	TotalAmount      float64     `json:"total_amount"`
	Status           OrderStatus `gorm:"type:VARCHAR(20);default:'Processing'" json:"status"`
	ShippingAddress  Address     `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	BillingAddress   Address     `gorm:"embedded;embeddedPrefix:billing_" json:"billing_address"`
	GatewayOrderID   string      `json:"gateway_order_id"`
	GatewayPaymentID string      `gorm:"uniqueIndex" json:"gateway_payment_id"` // idempotency key for order persistence
	CreatedAt        time.Time   `json:"created_at"`
}

// OrderItem snapshots the product at purchase time; later product edits
// must not rewrite order history.
type OrderItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OrderID      uint    `gorm:"index" json:"order_id"`
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductImage string  `json:"product_image"`
	Price        float64 `json:"price"`
	Size         string  `json:"size"`
	Quantity     int     `json:"quantity"`
}
