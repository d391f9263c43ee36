package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/checkout"
	"github.com/junaidrashid-git/storefront/middleware"
	"github.com/junaidrashid-git/storefront/services"
)

// Checkout validates the submitted card and places the order, which empties
// the caller's cart. No payment is taken.
// POST /api/checkout
func Checkout(orders *services.CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := middleware.CurrentUser(c)

		var card checkout.Card
		if err := c.ShouldBindJSON(&card); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": checkout.ValidationError})
			return
		}

		receipt, err := orders.Checkout(c.Request.Context(), claims.UserID, card)
		if err != nil {
			apperr.Write(c, err, "Checkout failed. Please try again.")
			return
		}
		c.JSON(http.StatusOK, receipt)
	}
}
