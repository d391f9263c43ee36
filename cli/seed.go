package cli

import (
	"fmt"
	"os"

	"github.com/junaidrashid-git/storefront/repository"
	"github.com/junaidrashid-git/storefront/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	File string
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load categories and demo products",
		Long: `Load categories and demo products into the database.

Records are matched by slug and SKU, so running it twice changes nothing.

Example:
  storefront seed --file ./catalog.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "catalog YAML (defaults to the built-in demo catalog)")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *SeedOptions) error {
	catalog, err := loadCatalog(opts.File)
	if err != nil {
		return err
	}

	e, err := setup(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer e.close()

	s := seed.New(repository.NewCategories(e.db), repository.NewProducts(e.db), e.log)
	res, err := s.Apply(cmd.Context(), catalog)
	if err != nil {
		return err
	}
	e.log.Info("🌱 seeded catalog", zap.Int("categories", res.Categories), zap.Int("products", res.Products))
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d categories and %d products\n", res.Categories, res.Products)
	return nil
}

func loadCatalog(path string) (*seed.Catalog, error) {
	if path == "" {
		return seed.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return seed.Parse(data)
}
