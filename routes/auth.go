package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Athah222/Label-Athah/auth"
	productcontroller "github.com/Athah222/Label-Athah/controllers/product"
	reviewControllers "github.com/Athah222/Label-Athah/controllers/review"
)

// SetupAuthRoutes registers everything a visitor can hit without a token:
// login plus the product catalogue.
func SetupAuthRoutes(r *gin.Engine, deps Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/auth/login", auth.LoginHandler(deps.DB))

	products := r.Group("/products")
	{
		products.GET("", productcontroller.GetProducts(deps.DB))
		products.GET("/:slug", productcontroller.GetProductBySlug(deps.DB))
		products.GET("/:slug/reviews", reviewControllers.GetProductReviews(deps.DB))
	}
}
