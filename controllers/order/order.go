package orderControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Athah222/Label-Athah/events"
	"github.com/Athah222/Label-Athah/live"
	"github.com/Athah222/Label-Athah/models"
	"github.com/Athah222/Label-Athah/notify"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func requireUserID(c *gin.Context) (string, bool) {
	userIDVal, _ := c.Get("user_id")
	userID, _ := userIDVal.(string)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// GET /user/orders
func GetUserOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}
		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /user/orders/:orderID
func GetUserOrderByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}

		var order models.Order
		err := db.
			Preload("Items").
			Where("user_id = ?", userID).
			Where("id::text = ? OR order_ref = ?", c.Param("orderID"), c.Param("orderID")).
			First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /admin/orders
func GetAllOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PUT /admin/orders/:orderID/status
// Validates the transition; moving to Shipped fires the best-effort shipping
// email and order.shipped event.
func UpdateOrderStatus(db *gorm.DB, mailer notify.Mailer, publisher events.Publisher, hub *live.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.Preload("Items").Preload("User").
			First(&order, "id::text = ? OR order_ref = ?", c.Param("orderID"), c.Param("orderID")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		if newStatus == order.Status {
			c.JSON(http.StatusOK, order)
			return
		}
		if !models.CanTransition(order.Status, newStatus) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Cannot move order from " + string(order.Status) + " to " + string(newStatus),
			})
			return
		}

		if err := db.Model(&order).Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
			return
		}
		order.Status = newStatus

		if newStatus == models.OrderStatusShipped {
			go notifyShipped(order, mailer, publisher)
		}
		if hub != nil {
			hub.BroadcastOrder(order)
		}

		c.JSON(http.StatusOK, order)
	}
}

func notifyShipped(order models.Order, mailer notify.Mailer, publisher events.Publisher) {
	if mailer != nil && order.User.Email != "" {
		if err := mailer.SendShippingNotification(order, order.User.Email); err != nil {
			log.Warn().Err(err).Str("order_ref", order.OrderRef).Msg("shipping email failed")
		}
	}
	if publisher != nil {
		if err := publisher.PublishOrderEvent(events.RouteOrderShipped, order); err != nil {
			log.Warn().Err(err).Str("order_ref", order.OrderRef).Msg("order.shipped publish failed")
		}
	}
}

// GET /admin/orders/ws
func OrderFeed(hub *live.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub.Serve(c.Writer, c.Request)
	}
}
