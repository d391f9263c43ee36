package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/auth"
	adminController "github.com/junaidrashid-git/storefront/controllers/admin"
	mediaControllers "github.com/junaidrashid-git/storefront/controllers/media"
	productcontroller "github.com/junaidrashid-git/storefront/controllers/product"
	"github.com/junaidrashid-git/storefront/middleware"
	"github.com/junaidrashid-git/storefront/ratelimit"
)

// SetupAdminRoutes registers the mutating catalog, media and account
// endpoints. Each one checks its own capability.
func SetupAdminRoutes(api *gin.RouterGroup, d Dependencies) {
	can := middleware.RequireCapability
	admin := api.Group("", middleware.RateLimit(d.Limiter, ratelimit.API), middleware.RefreshRole(d.Users))
	{
		// ─────────── Product Management ───────────
		admin.POST("/products", can(auth.CapProductsCreate), productcontroller.CreateProduct(d.Products))
		admin.PATCH("/products/:id", can(auth.CapProductsUpdate), productcontroller.UpdateProduct(d.Products))
		admin.DELETE("/products/:id", can(auth.CapProductsDelete), productcontroller.DeleteProduct(d.Products))
		admin.POST("/categories", can(auth.CapCategoriesManage), productcontroller.CreateCategory(d.Categories))

		// ─────────── Image Hosting ───────────
		admin.POST("/cloudinary-signature", can(auth.CapMediaManage), mediaControllers.Signature(d.Media))
		admin.POST("/cloudinary-delete", can(auth.CapMediaManage), mediaControllers.DeleteImages(d.Media))

		adminGroup := admin.Group("/admin")
		{
			// ─────────── User Management ───────────
			adminGroup.GET("/users", can(auth.CapUsersManage), adminController.ListUsers(d.Accounts))
			adminGroup.PATCH("/users/:id/role", can(auth.CapUsersManage), adminController.UpdateUserRole(d.Accounts))

			// ─────────── Spreadsheet import/export ───────────
			adminGroup.GET("/products/export", can(auth.CapCatalogImport), productcontroller.ExportProductsToExcel(d.Catalog))
			adminGroup.POST("/products/import", can(auth.CapCatalogImport), productcontroller.ImportProductsFromExcel(d.Catalog, d.Hub))
		}
	}
}
