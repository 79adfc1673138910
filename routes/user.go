package routes

import (
	"github.com/gin-gonic/gin"

	addressControllers "github.com/Athah222/Label-Athah/controllers/address"
	cartControllers "github.com/Athah222/Label-Athah/controllers/cart"
	checkoutControllers "github.com/Athah222/Label-Athah/controllers/checkout"
	couponControllers "github.com/Athah222/Label-Athah/controllers/coupon"
	orderControllers "github.com/Athah222/Label-Athah/controllers/order"
	reviewControllers "github.com/Athah222/Label-Athah/controllers/review"
	userControllers "github.com/Athah222/Label-Athah/controllers/user"
	"github.com/Athah222/Label-Athah/middleware"
)

// SetupUserRoutes registers the JWT-protected customer surface.
func SetupUserRoutes(r *gin.Engine, deps Deps) {
	user := r.Group("/user")
	user.Use(middleware.ValidateToken)
	{
		user.GET("/me", userControllers.GetUser(deps.DB))
		user.PUT("/me", userControllers.UpdateUser(deps.DB))

		user.GET("/cart", cartControllers.GetCart(deps.Carts))
		user.POST("/cart", cartControllers.AddToCart(deps.DB, deps.Carts))
		user.PUT("/cart/:line_id", cartControllers.SetQuantity(deps.Carts))
		user.DELETE("/cart/:line_id", cartControllers.RemoveLine(deps.Carts))
		user.DELETE("/cart", cartControllers.ClearCart(deps.Carts))

		user.POST("/coupons/apply", couponControllers.ApplyCoupon(deps.Coupons))

		user.POST("/checkout", checkoutControllers.BeginCheckout(deps.Pipeline))
		user.POST("/checkout/:attempt_id/confirm", checkoutControllers.ConfirmPayment(deps.Pipeline))

		user.GET("/orders", orderControllers.GetUserOrders(deps.DB))
		user.GET("/orders/:orderID", orderControllers.GetUserOrderByID(deps.DB))

		user.GET("/addresses", addressControllers.GetAddresses(deps.DB))
		user.POST("/addresses", addressControllers.CreateAddress(deps.DB))
		user.PUT("/addresses/:id", addressControllers.UpdateAddress(deps.DB))
		user.PUT("/addresses/:id/default", addressControllers.SetDefaultAddress(deps.DB))
		user.DELETE("/addresses/:id", addressControllers.DeleteAddress(deps.DB))

		user.POST("/products/:slug/reviews", reviewControllers.CreateReview(deps.DB))
	}
}
