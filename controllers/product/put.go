package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/services"
)

// UpdateProduct applies a partial update to /products/:id.
func UpdateProduct(products *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		product, err := products.Update(c.Request.Context(), c.Param("id"), input)
		if err != nil {
			apperr.Write(c, err, "Failed to update product")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Product updated successfully",
			"product": product,
		})
	}
}
