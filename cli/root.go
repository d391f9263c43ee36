// Package cli is the storefront command line: the HTTP server and the
// maintenance commands that share its configuration.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/junaidrashid-git/storefront/config"
	"github.com/junaidrashid-git/storefront/database"
	"github.com/junaidrashid-git/storefront/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the storefront root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront catalog, cart and checkout API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "development logging even in production")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

// env is what every command starts from.
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func setup(ctx context.Context, opts *RootOptions) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.IsProduction() && !opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	zap.ReplaceGlobals(log)

	db, err := database.Get(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db.WithContext(ctx), cfg.Database.SearchMode); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) close() {
	if err := database.Close(e.db); err != nil {
		e.log.Warn("close database", zap.Error(err))
	}
	_ = e.log.Sync()
}
