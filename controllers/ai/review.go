package aiControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/ai"
	"github.com/junaidrashid-git/storefront/apperr"
)

// GenerateReview writes an AI review of a catalog product.
// POST /api/ai/review  {"productId": "..."}
func GenerateReview(reviewer *ai.Reviewer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductID string `json:"productId"`
		}
		_ = c.ShouldBindJSON(&req)

		review, err := reviewer.Review(c.Request.Context(), req.ProductID)
		if err != nil {
			apperr.Write(c, err, "Failed to generate AI review. Please try again later.")
			return
		}
		c.JSON(http.StatusOK, review)
	}
}
