package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/Athah222/Label-Athah/controllers/cart"
	couponControllers "github.com/Athah222/Label-Athah/controllers/coupon"
	orderControllers "github.com/Athah222/Label-Athah/controllers/order"
	productcontroller "github.com/Athah222/Label-Athah/controllers/product"
	userControllers "github.com/Athah222/Label-Athah/controllers/user"
	"github.com/Athah222/Label-Athah/middleware"
)

// SetupAdminRoutes registers the API-key protected back-office surface.
func SetupAdminRoutes(r *gin.Engine, deps Deps) {
	admin := r.Group("/admin")
	admin.Use(middleware.ValidateAPIKey)
	{
		admin.POST("/products", productcontroller.CreateProduct(deps.DB))
		admin.PUT("/products/:id", productcontroller.UpdateProduct(deps.DB))
		admin.DELETE("/products/:id", productcontroller.DeleteProduct(deps.DB))
		admin.GET("/products/export-excel", productcontroller.ExportProductsToExcel(deps.DB))

		admin.GET("/coupons", couponControllers.GetAllCoupons(deps.DB))
		admin.POST("/coupons", couponControllers.CreateCoupon(deps.DB))
		admin.PUT("/coupons/:id", couponControllers.UpdateCoupon(deps.DB))
		admin.DELETE("/coupons/:id", couponControllers.DeleteCoupon(deps.DB))

		admin.GET("/orders", orderControllers.GetAllOrders(deps.DB))
		admin.PUT("/orders/:orderID/status",
			orderControllers.UpdateOrderStatus(deps.DB, deps.Mailer, deps.Publisher, deps.Hub))
		admin.GET("/orders/export-excel", orderControllers.ExportOrdersToExcel(deps.DB))
		admin.GET("/orders/ws", orderControllers.OrderFeed(deps.Hub))

		admin.GET("/users", userControllers.GetAllUsers(deps.DB))
		admin.GET("/user-cart/:user_id", cartControllers.GetAdminUserCart(deps.Carts))
	}
}
