package mediaControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/media"
)

// Signature lets the browser upload straight to the image host.
// POST /api/cloudinary-signature
func Signature(images *media.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sig, err := images.Sign()
		if err != nil {
			apperr.Write(c, err, "Failed to generate signature")
			return
		}
		c.JSON(http.StatusOK, sig)
	}
}

// DeleteImages removes hosted images by public id. Per-image failures are
// reported in the body, not as an error status.
// POST /api/cloudinary-delete
func DeleteImages(images *media.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PublicIDs []string `json:"publicIds"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || len(req.PublicIDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "publicIds array is required"})
			return
		}

		report, err := images.Delete(c.Request.Context(), req.PublicIDs)
		if err != nil {
			apperr.Write(c, err, "Failed to delete images")
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
