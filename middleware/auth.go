package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/auth"
	"github.com/junaidrashid-git/storefront/models"
	"github.com/junaidrashid-git/storefront/repository"
)

const claimsKey = "claims"

// Authenticate reads the bearer token when one is sent. An absent or
// invalid token leaves the request anonymous; RequireAuth decides whether
// that is acceptable.
func Authenticate(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			if claims, err := issuer.Parse(header); err == nil {
				c.Set(claimsKey, claims)
			}
		}
		c.Next()
	}
}

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// RefreshRole swaps the role carried by the token for the stored one, so a
// role change applies before the token expires. A token whose account is
// gone leaves the request anonymous.
func RefreshRole(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		if !ok {
			c.Next()
			return
		}

		u, err := users.FindByID(c.Request.Context(), claims.UserID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.Set(claimsKey, (*auth.Claims)(nil))
		case err != nil:
			apperr.Write(c, apperr.Internal("Failed to load account", err), "")
			c.Abort()
			return
		case u.Role != claims.Role:
			refreshed := *claims
			refreshed.Role = u.Role
			c.Set(claimsKey, &refreshed)
		}
		c.Next()
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			apperr.Write(c, apperr.Unauthorized(), "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireCapability rejects anonymous requests with 401 and callers whose
// role lacks capability with 403.
func RequireCapability(capability auth.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		if !ok {
			apperr.Write(c, apperr.Unauthorized(), "")
			c.Abort()
			return
		}
		if !auth.Can(claims.Role, capability) {
			apperr.Write(c, apperr.Forbidden(), "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the verified token claims of the caller, if any.
func CurrentUser(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok && claims != nil
}
