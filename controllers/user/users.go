package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/middleware"
	"github.com/junaidrashid-git/storefront/services"
	"github.com/junaidrashid-git/storefront/validation"
)

// POST /api/auth/register
func Register(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validation.InvalidInput})
			return
		}

		user, err := accounts.Register(c.Request.Context(), input)
		if err != nil {
			apperr.Write(c, err, "Failed to create user")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
	}
}

// POST /api/auth/login
func Login(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validation.InvalidInput})
			return
		}

		session, err := accounts.Login(c.Request.Context(), input)
		if err != nil {
			apperr.Write(c, err, "Failed to sign in")
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

// POST /api/auth/google
// Body: {"idToken": "<firebase id token>"}
func GoogleSignIn(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			IDToken string `json:"idToken"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validation.InvalidInput})
			return
		}

		session, err := accounts.GoogleSignIn(c.Request.Context(), req.IDToken)
		if err != nil {
			apperr.Write(c, err, "Failed to sign in with Google")
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

// GET /api/auth/me
func GetUser(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := middleware.CurrentUser(c)

		user, err := accounts.Me(c.Request.Context(), claims.UserID)
		if err != nil {
			apperr.Write(c, err, "Failed to fetch user")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
