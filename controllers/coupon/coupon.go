package couponControllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Athah222/Label-Athah/coupon"
	"github.com/Athah222/Label-Athah/models"
)

type ApplyCouponInput struct {
	Code     string  `json:"code" binding:"required"`
	Subtotal float64 `json:"subtotal" binding:"required,gt=0"`
}

type CouponInput struct {
	Code          string  `json:"code" binding:"required"`
	DiscountType  string  `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue float64 `json:"discount_value" binding:"required,gt=0"`
	ExpiresAt     int64   `json:"expires_at" binding:"required"` // unix millis
	IsActive      *bool   `json:"is_active" binding:"required"`
}

// POST /user/coupons/apply
// Prices a code against a subtotal without committing anything. One coupon
// per checkout is enforced at the client, not here.
func ApplyCoupon(resolver *coupon.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ApplyCouponInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		applied, discount, err := resolver.Apply(c.Request.Context(), input.Code, input.Subtotal)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{
				"code":     applied.Code,
				"discount": discount,
			})
		case errors.Is(err, coupon.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "The coupon code you entered does not exist"})
		case errors.Is(err, coupon.ErrExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "This coupon is no longer valid"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not apply coupon"})
		}
	}
}

// GET /admin/coupons
func GetAllCoupons(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var coupons []models.Coupon
		if err := db.Order("created_at DESC").Find(&coupons).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coupons"})
			return
		}
		c.JSON(http.StatusOK, coupons)
	}
}

// POST /admin/coupons
func CreateCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CouponInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		newCoupon := models.Coupon{
			Code:          strings.ToUpper(strings.TrimSpace(input.Code)),
			DiscountType:  models.DiscountType(input.DiscountType),
			DiscountValue: input.DiscountValue,
			ExpiresAt:     time.UnixMilli(input.ExpiresAt),
			IsActive:      *input.IsActive,
		}
		if err := db.Create(&newCoupon).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Failed to create coupon (duplicate code?)"})
			return
		}
		c.JSON(http.StatusCreated, newCoupon)
	}
}

// PUT /admin/coupons/:id
func UpdateCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var existing models.Coupon
		if err := db.First(&existing, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coupon"})
			return
		}

		var input CouponInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		existing.Code = strings.ToUpper(strings.TrimSpace(input.Code))
		existing.DiscountType = models.DiscountType(input.DiscountType)
		existing.DiscountValue = input.DiscountValue
		existing.ExpiresAt = time.UnixMilli(input.ExpiresAt)
		existing.IsActive = *input.IsActive

		if err := db.Save(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update coupon"})
			return
		}
		c.JSON(http.StatusOK, existing)
	}
}

// DELETE /admin/coupons/:id
func DeleteCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Where("id = ?", c.Param("id")).Delete(&models.Coupon{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete coupon"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted"})
	}
}
