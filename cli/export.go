package cli

import (
	"fmt"
	"os"

	"github.com/junaidrashid-git/storefront/repository"
	"github.com/junaidrashid-git/storefront/spreadsheet"
	"github.com/spf13/cobra"
)

// ExportOptions holds flags for the export-products command.
type ExportOptions struct {
	*RootOptions
	Out string
}

func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export-products",
		Short: "Write every product to an .xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "products.xlsx", "output file")

	return cmd
}

func runExport(cmd *cobra.Command, opts *ExportOptions) error {
	e, err := setup(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer e.close()

	products, err := repository.NewProducts(e.db).All(cmd.Context())
	if err != nil {
		return err
	}

	f, err := os.Create(opts.Out)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.Out, err)
	}
	if err := spreadsheet.Export(f, products); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d products to %s\n", len(products), opts.Out)
	return nil
}
