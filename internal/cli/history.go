package cli

import (
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history <collection> <document-id>",
		Short: "Print every version of a document, newest first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, cmd, args)
		},
	}
}

func runHistory(opts *RootOptions, cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	runtime, err := opts.openStore(ctx)
	if err != nil {
		return err
	}
	defer runtime.Close()

	history, err := runtime.store.FindVersions(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), toVersionViews(history))
}
