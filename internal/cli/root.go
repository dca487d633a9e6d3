// Package cli implements the versionstore command: creating version tables, saving versions,
// querying current versions and reading the history of a document.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/versionstore-go/internal/config"
)

// RootOptions holds the global flags and the state every subcommand shares.
type RootOptions struct {
	ConfigFile string

	cfg    config.Config
	logger *slog.Logger
}

// NewRootCommand creates the root command of the versionstore CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "versionstore",
		Short: "Query the current versions of documents in an append-only version log",
		Long: `versionstore resolves the current version of every document stored as an append-only
log of versions in PostgreSQL, and saves new versions to that log.

Connection and store settings come from an optional config file and VERSIONSTORE_* environment
variables, e.g. VERSIONSTORE_DATABASE_DSN or VERSIONSTORE_STORE_FACET_COUNTING.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.initialize(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "path to a config file (yaml, json or toml)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

func (o *RootOptions) initialize(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigFile)
	if err != nil {
		return err
	}

	level, levelErr := cfg.Log.SlogLevel()
	if levelErr != nil {
		return levelErr
	}

	o.cfg = cfg
	o.logger = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	return nil
}

func requireCollection(args []string) (string, error) {
	if len(args) == 0 || args[0] == "" {
		return "", fmt.Errorf("a collection name is required")
	}

	return args[0], nil
}
