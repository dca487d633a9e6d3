package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/versionstore-go/versionstore"
)

const payloadFromStdin = "-"

// SaveOptions holds flags for the save command.
type SaveOptions struct {
	*RootOptions
	Payload string
	Parent  string
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "save <collection>",
		Short: "Append a version to the version log of a collection",
		Long: `Append a version to the version log of a collection and print the stored record.
Without --parent the version starts a new document. Otherwise it keeps the creation time of
its document.

Examples:
  versionstore save posts --payload '{"title":"Hello","status":"draft"}'
  versionstore save posts --parent 0190c6a4-... --payload '{"title":"Hello","status":"published"}'
  cat post.json | versionstore save posts --payload -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(opts, cmd, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Payload, "payload", "p", "", `version payload as a JSON object, "-" reads it from stdin (required)`)
	_ = cmd.MarkFlagRequired("payload")
	cmd.Flags().StringVar(&opts.Parent, "parent", "", "id of the document, or of any of its versions, the version belongs to")

	return cmd
}

func runSave(opts *SaveOptions, cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	collection, err := requireCollection(args)
	if err != nil {
		return err
	}

	record, err := opts.buildRecord(cmd.InOrStdin())
	if err != nil {
		return err
	}

	runtime, err := opts.openStore(ctx)
	if err != nil {
		return err
	}
	defer runtime.Close()

	saved, err := runtime.store.SaveVersion(ctx, collection, record)
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), toVersionView(saved))
}

// buildRecord reads the payload and builds the record. Timestamps are left to the store.
func (o *SaveOptions) buildRecord(stdin io.Reader) (versionstore.VersionRecord, error) {
	payload := []byte(o.Payload)

	if o.Payload == payloadFromStdin {
		var err error
		if payload, err = io.ReadAll(stdin); err != nil {
			return versionstore.VersionRecord{}, fmt.Errorf("reading the payload from stdin: %w", err)
		}
	}

	record, err := versionstore.BuildVersionRecord(o.Parent, payload, time.Time{}, time.Time{})
	if err != nil {
		return versionstore.VersionRecord{}, err
	}

	return record, nil
}
