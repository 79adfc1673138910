package checkoutControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Athah222/Label-Athah/checkout"
	"github.com/Athah222/Label-Athah/coupon"
	"github.com/Athah222/Label-Athah/gateway"
	"github.com/Athah222/Label-Athah/models"
)

type BeginCheckoutInput struct {
	ShippingAddress models.Address `json:"shipping_address" binding:"required"`
	CouponCode      string         `json:"coupon_code"`
}

// POST /user/checkout
// Validates the address, prices the cart and creates the gateway order the
// client opens the payment UI with.
func BeginCheckout(pipeline *checkout.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, _ := c.Get("user_id")
		userID, _ := userIDVal.(string)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input BeginCheckoutInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		result, err := pipeline.Begin(c.Request.Context(), userID, input.ShippingAddress, input.CouponCode)
		switch {
		case err == nil:
			c.JSON(http.StatusCreated, result)
		case errors.Is(err, checkout.ErrInvalidAddress),
			errors.Is(err, checkout.ErrEmptyCart),
			errors.Is(err, coupon.ErrNotFound),
			errors.Is(err, coupon.ErrExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, gateway.ErrGateway):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Payment could not be initiated. Please try again."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		}
	}
}

// POST /user/checkout/:attempt_id/confirm
// Delivers the payment callback to the suspended attempt and reports the
// outcome. A signature mismatch leaves the cart intact so the user can retry.
func ConfirmPayment(pipeline *checkout.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		attemptID := c.Param("attempt_id")
		if attemptID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "attempt_id is required"})
			return
		}

		var cb checkout.PaymentCallback
		if err := c.ShouldBindJSON(&cb); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification data"})
			return
		}

		order, err := pipeline.Confirm(c.Request.Context(), attemptID, cb)
		switch {
		case err == nil:
			c.JSON(http.StatusCreated, gin.H{
				"message":   "Payment verified successfully",
				"order_id":  order.ID,
				"order_ref": order.OrderRef,
			})
		case errors.Is(err, checkout.ErrAttemptNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, checkout.ErrSignatureMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment verification failed. Signature mismatch."})
		case errors.Is(err, checkout.ErrPersistence):
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Your payment was received but the order could not be saved. Please contact support.",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment confirmation failed"})
		}
	}
}
