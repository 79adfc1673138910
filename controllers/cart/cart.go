package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Athah222/Label-Athah/models"
	"github.com/Athah222/Label-Athah/store"
)

type AddToCartInput struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Size      string `json:"size"`
}

type SetQuantityInput struct {
	Quantity int `json:"quantity"`
}

func sessionID(c *gin.Context) (string, bool) {
	userIDVal, _ := c.Get("user_id")
	userID, _ := userIDVal.(string)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

func cartResponse(cart *store.CartStore) gin.H {
	count, subtotal := cart.Totals()
	return gin.H{
		"items":    cart.Lines(),
		"count":    count,
		"subtotal": subtotal,
	}
}

// GET /user/cart
func GetCart(backend store.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := sessionID(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, cartResponse(store.Load(userID, backend)))
	}
}

// POST /user/cart
func AddToCart(db *gorm.DB, backend store.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := sessionID(c)
		if !ok {
			return
		}

		var input AddToCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		// Snapshot the product at add-time
		var product models.Product
		if err := db.First(&product, "id = ?", input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			return
		}

		size := input.Size
		if size == "" && len(product.AvailableSizes) > 0 {
			size = product.AvailableSizes[0]
		}

		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}

		cart := store.Load(userID, backend)
		err := cart.AddLine(store.ProductSnapshot{
			ID:    product.ID,
			Name:  product.Name,
			Price: product.Price,
			Image: image,
			Stock: product.Stock,
		}, input.Quantity, size)
		if errors.Is(err, store.ErrStockExceeded) {
			c.JSON(http.StatusConflict, gin.H{"error": "Stock limit exceeded"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
			return
		}

		c.JSON(http.StatusCreated, cartResponse(cart))
	}
}

// PUT /user/cart/:line_id
func SetQuantity(backend store.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := sessionID(c)
		if !ok {
			return
		}

		var input SetQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cart := store.Load(userID, backend)
		clamped, err := cart.SetQuantity(c.Param("line_id"), input.Quantity)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		resp := cartResponse(cart)
		if clamped {
			resp["warning"] = "Quantity clamped to available stock"
		}
		c.JSON(http.StatusOK, resp)
	}
}

// DELETE /user/cart/:line_id
func RemoveLine(backend store.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := sessionID(c)
		if !ok {
			return
		}
		cart := store.Load(userID, backend)
		if err := cart.RemoveLine(c.Param("line_id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

// DELETE /user/cart
func ClearCart(backend store.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := sessionID(c)
		if !ok {
			return
		}
		if err := store.Load(userID, backend).Clear(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /admin/user-cart/:user_id
func GetAdminUserCart(backend store.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}
		c.JSON(http.StatusOK, cartResponse(store.Load(userID, backend)))
	}
}
