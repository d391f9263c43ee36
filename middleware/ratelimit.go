package middleware

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/apperr"
	"github.com/junaidrashid-git/storefront/ratelimit"
)

const rateLimitedMessage = "Too many requests, please try again later."

// RateLimit charges each request to rule, keyed by user when authenticated
// and by client IP otherwise.
func RateLimit(limiter ratelimit.Limiter, rule ratelimit.Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if claims, ok := CurrentUser(c); ok {
			key = "user:" + claims.UserID
		}

		res, err := limiter.Allow(c.Request.Context(), rule, key)
		if err != nil {
			apperr.Write(c, apperr.Upstream("Rate limiter unavailable", err), "")
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			apperr.Write(c, apperr.RateLimited(rateLimitedMessage), "")
			c.Abort()
			return
		}
		c.Next()
	}
}
