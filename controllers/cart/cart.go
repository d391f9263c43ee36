package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/middleware"
	"github.com/junaidrashid-git/storefront/services"
	"github.com/junaidrashid-git/storefront/validation"
)

func invalidInput(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": validation.InvalidInput})
}

// GET /api/cart
func GetCart(carts *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := middleware.CurrentUser(c)

		view, err := carts.Get(c.Request.Context(), claims.UserID)
		if err != nil {
			apperr.Write(c, err, "Internal Server Error")
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// POST /api/cart
func AddToCart(carts *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := middleware.CurrentUser(c)

		var input services.AddToCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			invalidInput(c)
			return
		}

		item, err := carts.Add(c.Request.Context(), claims.UserID, input)
		if err != nil {
			apperr.Write(c, err, "Internal Server Error")
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// PUT /api/cart
// A quantity of 0 removes the line.
func UpdateCartItem(carts *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := middleware.CurrentUser(c)

		var input services.UpdateCartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			invalidInput(c)
			return
		}

		item, err := carts.UpdateQuantity(c.Request.Context(), claims.UserID, input)
		if err != nil {
			apperr.Write(c, err, "Internal Server Error")
			return
		}
		if item == nil {
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /api/cart
// The line id comes from the body, or from ?cartItemId= when the body is absent.
func RemoveCartItem(carts *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := middleware.CurrentUser(c)

		var input struct {
			CartItemID string `json:"cartItemId"`
		}
		if c.Request.ContentLength != 0 {
			_ = c.ShouldBindJSON(&input)
		}
		if input.CartItemID == "" {
			input.CartItemID = c.Query("cartItemId")
		}

		if err := carts.Remove(c.Request.Context(), claims.UserID, input.CartItemID); err != nil {
			apperr.Write(c, err, "Internal Server Error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
