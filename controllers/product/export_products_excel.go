package productcontroller

import (
	"bytes"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/spreadsheet"
	"go.uber.org/zap"
)

// Catalog lists every product for export.
type Catalog interface {
	All(ctx context.Context) ([]models.Product, error)
}

func ExportProductsToExcel(products Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := products.All(c.Request.Context())
		if err != nil {
			zap.L().Error("load products for export", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		var buf bytes.Buffer
		if err := spreadsheet.Export(&buf, all); err != nil {
			zap.L().Error("build export workbook", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
			return
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")
		c.Data(http.StatusOK, spreadsheet.ContentType, buf.Bytes())
	}
}
