package reviewControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/middleware"
	"github.com/junaidrashid-git/storefront/services"
	"github.com/junaidrashid-git/storefront/validation"
)

// GET /api/reviews/:productId
func GetReviews(reviews *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := reviews.List(c.Request.Context(), c.Param("productId"))
		if err != nil {
			apperr.Write(c, err, "Failed to fetch reviews")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// POST /api/reviews/:productId
func CreateReview(reviews *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.CreateReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validation.InvalidInput})
			return
		}

		review, err := reviews.Create(c.Request.Context(), actor(c), c.Param("productId"), input)
		if err != nil {
			apperr.Write(c, err, "Failed to create review")
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

// DELETE /api/reviews/:productId/:reviewId
func DeleteReview(reviews *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := reviews.Delete(c.Request.Context(), actor(c), c.Param("productId"), c.Param("reviewId"))
		if err != nil {
			apperr.Write(c, err, "Failed to delete review")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review deleted successfully"})
	}
}

func actor(c *gin.Context) services.Actor {
	claims, _ := middleware.CurrentUser(c)
	return services.Actor{UserID: claims.UserID, Role: claims.Role}
}
