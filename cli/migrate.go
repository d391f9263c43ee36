package cli

import (
	"github.com/spf13/cobra"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer e.close()
			e.log.Info("✅ schema up to date")
			return nil
		},
	}
}
