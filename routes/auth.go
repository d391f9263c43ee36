package routes

import (
	"github.com/gin-gonic/gin"
	userControllers "github.com/junaidrashid-git/storefront/controllers/user"
	"github.com/junaidrashid-git/storefront/middleware"
	"github.com/junaidrashid-git/storefront/ratelimit"
)

// SetupAuthRoutes registers all “/api/auth/*” endpoints.
func SetupAuthRoutes(api *gin.RouterGroup, d Dependencies) {
	authGroup := api.Group("/auth")
	{
		limited := authGroup.Group("", middleware.RateLimit(d.Limiter, ratelimit.Auth))
		limited.POST("/register", userControllers.Register(d.Accounts))
		limited.POST("/login", userControllers.Login(d.Accounts))
		limited.POST("/google", userControllers.GoogleSignIn(d.Accounts))

		authGroup.GET("/me", middleware.RequireAuth(), userControllers.GetUser(d.Accounts))
	}
}
