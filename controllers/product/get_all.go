package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/catalog"
)

// GetProducts pages through the catalog.
// Query: category, sortBy, order, search, cursor, limit
func GetProducts(fetcher *catalog.Fetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params catalog.Params
		if err := c.ShouldBindQuery(&params); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
			return
		}

		page, err := fetcher.Fetch(c.Request.Context(), params)
		if err != nil {
			apperr.Write(c, err, "Failed to fetch products")
			return
		}
		c.JSON(http.StatusOK, page)
	}
}
