package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/middleware"
	"github.com/junaidrashid-git/storefront/services"
	"github.com/junaidrashid-git/storefront/validation"
)

// ListUsers returns every account, newest first.
func ListUsers(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := accounts.ListUsers(c.Request.Context())
		if err != nil {
			apperr.Write(c, err, "Failed to fetch users")
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// UpdateUserRole promotes or demotes the user at /admin/users/:id/role.
func UpdateUserRole(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Role string `json:"role"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Role == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": validation.InvalidInput})
			return
		}

		claims, _ := middleware.CurrentUser(c)
		actor := services.Actor{UserID: claims.UserID, Role: claims.Role}

		user, err := accounts.UpdateRole(c.Request.Context(), actor, c.Param("id"), req.Role)
		if err != nil {
			apperr.Write(c, err, "Failed to update role")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Role updated", "user": user})
	}
}
