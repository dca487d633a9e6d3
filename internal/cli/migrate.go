package cli

import (
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <collection>...",
		Short: "Create the version tables of collections",
		Long: `Create the version table and the current version index of each collection.
Existing tables and indexes are left untouched.

Examples:
  versionstore migrate posts pages`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(rootOpts, cmd, args)
		},
	}
}

func runMigrate(opts *RootOptions, cmd *cobra.Command, collections []string) error {
	ctx := cmd.Context()

	runtime, err := opts.openStore(ctx)
	if err != nil {
		return err
	}
	defer runtime.Close()

	for _, collection := range collections {
		if createErr := runtime.store.CreateVersionTable(ctx, collection); createErr != nil {
			return createErr
		}
	}

	return nil
}
