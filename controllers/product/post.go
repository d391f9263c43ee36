package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/services"
)

// CreateProduct adds a product to the catalog. Images are uploaded to the
// image host by the client beforehand; the body carries their URLs.
func CreateProduct(products *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		product, err := products.Create(c.Request.Context(), input)
		if err != nil {
			apperr.Write(c, err, "Failed to create product")
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Product created successfully",
			"product": product,
		})
	}
}
