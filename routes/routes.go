package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Athah222/Label-Athah/checkout"
	"github.com/Athah222/Label-Athah/coupon"
	"github.com/Athah222/Label-Athah/events"
	"github.com/Athah222/Label-Athah/live"
	"github.com/Athah222/Label-Athah/notify"
	"github.com/Athah222/Label-Athah/store"
)

// Deps carries everything the route groups need. main builds one of these
// after all the clients are initialised.
type Deps struct {
	DB        *gorm.DB
	Carts     store.Backend
	Pipeline  *checkout.Pipeline
	Coupons   *coupon.Resolver
	Mailer    notify.Mailer
	Publisher events.Publisher
	Hub       *live.Hub
}

// SetupRoutes is the single entry-point that wires up the public, user and
// admin route groups.
func SetupRoutes(r *gin.Engine, deps Deps) {
	// Public routes (no middleware)
	SetupAuthRoutes(r, deps)

	// User routes (JWT-protected)
	SetupUserRoutes(r, deps)

	// Admin routes (API-Key-protected)
	SetupAdminRoutes(r, deps)
}
