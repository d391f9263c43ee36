package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/junaidrashid-git/storefront/controllers/order"
	"github.com/junaidrashid-git/storefront/middleware"
	"github.com/junaidrashid-git/storefront/ratelimit"
)

func SetupOrderRoutes(api *gin.RouterGroup, d Dependencies) {
	// Simulated payment; clears the cart on success
	api.POST("/checkout",
		middleware.RateLimit(d.Limiter, ratelimit.Strict),
		middleware.RequireAuth(),
		orderControllers.Checkout(d.Checkout),
	)
}
