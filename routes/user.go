package routes

import (
	"github.com/gin-gonic/gin"
	aiControllers "github.com/junaidrashid-git/storefront/controllers/ai"
	cartControllers "github.com/junaidrashid-git/storefront/controllers/cart"
	productcontroller "github.com/junaidrashid-git/storefront/controllers/product"
	reviewControllers "github.com/junaidrashid-git/storefront/controllers/review"
	"github.com/junaidrashid-git/storefront/middleware"
	"github.com/junaidrashid-git/storefront/ratelimit"
)

// SetupUserRoutes registers the shopper-facing endpoints.
func SetupUserRoutes(api *gin.RouterGroup, d Dependencies) {
	store := api.Group("", middleware.RateLimit(d.Limiter, ratelimit.API))
	{
		// ──────────────── Browse Products ────────────────
		store.GET("/products", productcontroller.GetProducts(d.Fetcher))
		store.GET("/products/:id", productcontroller.GetProductByID(d.Products))
		store.GET("/categories", productcontroller.GetCategories(d.Categories))

		// ──────────────── Reviews ────────────────
		store.GET("/reviews/:productId", reviewControllers.GetReviews(d.Reviews))
		store.POST("/reviews/:productId", middleware.RequireAuth(), reviewControllers.CreateReview(d.Reviews))
		store.DELETE("/reviews/:productId/:reviewId", middleware.RefreshRole(d.Users), middleware.RequireAuth(), reviewControllers.DeleteReview(d.Reviews))

		// ──────────────── Shopping Cart ────────────────
		cartGroup := store.Group("/cart", middleware.RequireAuth())
		{
			cartGroup.GET("", cartControllers.GetCart(d.Carts))
			cartGroup.POST("", cartControllers.AddToCart(d.Carts))
			cartGroup.PUT("", cartControllers.UpdateCartItem(d.Carts))
			cartGroup.DELETE("", cartControllers.RemoveCartItem(d.Carts))
		}
	}

	// ──────────────── Catalog change feed ────────────────
	api.GET("/ws/products", gin.WrapH(d.Hub))

	// ──────────────── AI review ────────────────
	api.POST("/ai/review", middleware.RateLimit(d.Limiter, ratelimit.Strict), aiControllers.GenerateReview(d.Reviewer))
}
