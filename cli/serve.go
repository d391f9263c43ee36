package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront/ai"
	"github.com/junaidrashid-git/storefront/auth"
	"github.com/junaidrashid-git/storefront/catalog"
	"github.com/junaidrashid-git/storefront/events"
	"github.com/junaidrashid-git/storefront/media"
	"github.com/junaidrashid-git/storefront/ratelimit"
	"github.com/junaidrashid-git/storefront/repository"
	"github.com/junaidrashid-git/storefront/routes"
	"github.com/junaidrashid-git/storefront/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (defaults to :$PORT)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e, err := setup(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer e.close()

	deps, cleanup, err := buildDependencies(ctx, e)
	if err != nil {
		return err
	}
	defer cleanup()

	if e.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	addr := opts.Addr
	if addr == "" {
		addr = ":" + e.cfg.Port
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		e.log.Info("🚀 server listening", zap.String("addr", addr), zap.String("env", e.cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		e.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		deps.Hub.Close()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// buildDependencies wires repositories, services and the optional
// integrations. Integrations without credentials are left disabled.
func buildDependencies(ctx context.Context, e *env) (routes.Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (routes.Dependencies, func(), error) {
		cleanup()
		return routes.Dependencies{}, nil, err
	}

	cfg := e.cfg
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter()
	if cfg.RateLimit.RedisURL != "" {
		rl, err := ratelimit.NewRedisLimiterFromURL(cfg.RateLimit.RedisURL)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { _ = rl.Close() })
		limiter = rl
	} else {
		e.log.Warn("REDIS_URL not set, rate limits are per process")
	}

	var google auth.GoogleVerifier
	if cfg.Firebase.Configured() {
		v, err := auth.NewFirebaseVerifier(ctx, cfg.Firebase)
		if err != nil {
			return fail(err)
		}
		google = v
	}

	images, err := media.New(cfg.Cloudinary, e.log)
	if err != nil {
		return fail(err)
	}

	searcher, err := catalog.NewSearcher(cfg.Database.SearchMode)
	if err != nil {
		return fail(err)
	}

	products := repository.NewProducts(e.db)
	categories := repository.NewCategories(e.db)
	reviews := repository.NewReviews(e.db)
	carts := repository.NewCarts(e.db)
	users := repository.NewUsers(e.db)

	var gen ai.Generator
	if cfg.AI.ReviewEnabled && cfg.AI.APIKey != "" {
		g, err := ai.NewGemini(ctx, cfg.AI)
		if err != nil {
			return fail(err)
		}
		gen = g
	}

	hub := events.NewHub(e.log)

	return routes.Dependencies{
		DB:          e.db,
		Log:         e.log,
		Issuer:      issuer,
		Limiter:     limiter,
		CORSOrigins: cfg.CORSOrigins,

		Fetcher:    catalog.NewFetcher(e.db, searcher),
		Products:   services.NewProductService(products, images, hub, e.log),
		Categories: services.NewCategoryService(categories),
		Reviews:    services.NewReviewService(reviews, products, users),
		Carts:      services.NewCartService(carts, products),
		Checkout:   services.NewCheckoutService(carts, time.Now),
		Accounts:   services.NewAccountService(users, issuer, google, e.log),
		Media:      images,
		Reviewer:   ai.NewReviewer(cfg.AI.ReviewEnabled, products, gen),
		Hub:        hub,
		Catalog:    products,
		Users:      users,
	}, cleanup, nil
}
