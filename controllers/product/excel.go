package productcontroller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/events"
	"github.com/junaidrashid-git/storefront/services"
	"github.com/junaidrashid-git/storefront/spreadsheet"
	"go.uber.org/zap"
)

// ImportProductsFromExcel upserts the uploaded workbook's rows by SKU.
// Form field: file
func ImportProductsFromExcel(store spreadsheet.Store, pub services.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		report, err := spreadsheet.Import(c.Request.Context(), file, excelFileHeader.Size, store)
		switch {
		case errors.Is(err, spreadsheet.ErrEmptyWorkbook):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		case errors.Is(err, spreadsheet.ErrUnreadable):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		case err != nil:
			zap.L().Error("catalog import failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import products"})
			return
		}

		if pub != nil && report.Created+report.Updated > 0 {
			pub.Publish(events.Event{Type: events.CatalogImported, At: time.Now().UTC()})
		}
		c.JSON(http.StatusOK, report)
	}
}
