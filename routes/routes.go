package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/ai"
	"github.com/junaidrashid-git/storefront/auth"
	"github.com/junaidrashid-git/storefront/catalog"
	"github.com/junaidrashid-git/storefront/events"
	"github.com/junaidrashid-git/storefront/logger"
	"github.com/junaidrashid-git/storefront/media"
	"github.com/junaidrashid-git/storefront/middleware"
	"github.com/junaidrashid-git/storefront/ratelimit"
	"github.com/junaidrashid-git/storefront/repository"
	"github.com/junaidrashid-git/storefront/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies is everything the HTTP layer serves from.
type Dependencies struct {
	DB          *gorm.DB
	Log         *zap.Logger
	Issuer      *auth.Issuer
	Limiter     ratelimit.Limiter
	CORSOrigins []string

	Fetcher    *catalog.Fetcher
	Products   *services.ProductService
	Categories *services.CategoryService
	Reviews    *services.ReviewService
	Carts      *services.CartService
	Checkout   *services.CheckoutService
	Accounts   *services.AccountService
	Media      *media.Service
	Reviewer   *ai.Reviewer
	Hub        *events.Hub
	Catalog    *repository.Products
	Users      *repository.Users
}

// NewRouter builds the engine with the global middleware and every route.
func NewRouter(d Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(logger.GinRecovery(d.Log), logger.GinLogger(d.Log))
	r.Use(cors.New(corsConfig(d.CORSOrigins)))
	r.Use(middleware.Authenticate(d.Issuer))

	r.GET("/healthz", healthz(d.DB))

	SetupRoutes(r, d)
	return r
}

// SetupRoutes is the single entry-point that wires up every /api route group.
func SetupRoutes(r *gin.Engine, d Dependencies) {
	api := r.Group("/api")

	// 1️⃣ Sign-up, sign-in (auth limiter)
	SetupAuthRoutes(api, d)

	// 2️⃣ Catalog, reviews, cart (api limiter)
	SetupUserRoutes(api, d)

	// 3️⃣ Checkout
	SetupOrderRoutes(api, d)

	// 4️⃣ Catalog management, media, users (capability-gated)
	SetupAdminRoutes(api, d)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
