package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/versionstore-go/versionstore"
	"github.com/AntonStoeckl/versionstore-go/versionstore/accesscontrol"
	"github.com/AntonStoeckl/versionstore-go/versionstore/postgresengine"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Where          string
	Sort           string
	Page           int
	Limit          int
	Actor          string
	Roles          []string
	Locale         string
	PolicyFile     string
	OverrideAccess bool
	Eventual       bool
	Watch          time.Duration
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <collection>",
		Short: "Query the current version of every document in a collection",
		Long: `Resolve the current version of every document in a collection and print them as flat
documents, each next to the id of its logical document ("parent"). Pass that id to save --parent
and history. Without --page, --limit and --sort all matching documents are printed, newest first.

Access is evaluated with the casbin policy of access.policy_file (or --policy) for --actor and
--roles. Without a policy, or with --override-access, all documents are readable.

Examples:
  versionstore query posts
  versionstore query posts --where '{"status":{"equals":"published"}}' --sort -meta.rating --limit 5
  versionstore query posts --actor alice --roles author --policy ./policy.csv
  versionstore query posts --watch 10s --eventual`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, cmd, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Where, "where", "w", "", "filter as a where JSON object")
	cmd.Flags().StringVarP(&opts.Sort, "sort", "s", "", `comma separated sort fields, "-" sorts descending`)
	cmd.Flags().IntVar(&opts.Page, "page", 0, "page number, starting at 1")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", 0, "page size")
	cmd.Flags().StringVar(&opts.Actor, "actor", "", "id of the user the query runs for")
	cmd.Flags().StringSliceVar(&opts.Roles, "roles", nil, "roles of the actor")
	cmd.Flags().StringVar(&opts.Locale, "locale", "", "locale of the request")
	cmd.Flags().StringVar(&opts.PolicyFile, "policy", "", "casbin policy file, overrides access.policy_file")
	cmd.Flags().BoolVar(&opts.OverrideAccess, "override-access", false, "skip access control")
	cmd.Flags().BoolVar(&opts.Eventual, "eventual", false, "allow reading from the replica")
	cmd.Flags().DurationVar(&opts.Watch, "watch", 0, "repeat the query at this interval until interrupted")

	return cmd
}

func runQuery(opts *QueryOptions, cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collection, err := requireCollection(args)
	if err != nil {
		return err
	}

	access := opts.cfg.Access
	if opts.PolicyFile != "" {
		access.PolicyFile = opts.PolicyFile
	}

	evaluator, err := loadEvaluator(access)
	if err != nil {
		return err
	}

	queryArgs, err := opts.buildQueryArgs(ctx, collection, evaluator)
	if err != nil {
		return err
	}

	if opts.Eventual {
		ctx = versionstore.WithEventualConsistency(ctx)
	}

	runtime, err := opts.openStore(ctx)
	if err != nil {
		return err
	}
	defer runtime.Close()

	if opts.Watch <= 0 {
		return queryOnce(ctx, cmd, runtime.store, queryArgs)
	}

	ticker := time.NewTicker(opts.Watch)
	defer ticker.Stop()

	for {
		if queryErr := queryOnce(ctx, cmd, runtime.store, queryArgs); queryErr != nil {
			opts.logger.ErrorContext(ctx, "query failed", "collection", collection, "error", queryErr.Error())
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func queryOnce(ctx context.Context, cmd *cobra.Command, store postgresengine.Store, args postgresengine.QueryArgs) error {
	result, err := store.QueryCurrentVersions(ctx, args)
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), toPageView(result))
}

// buildQueryArgs parses the filter and sort flags and evaluates the access decision of the actor.
func (o *QueryOptions) buildQueryArgs(
	ctx context.Context,
	collection string,
	evaluator accesscontrol.Evaluator,
) (postgresengine.QueryArgs, error) {

	where, err := versionstore.ParseWhereJSON([]byte(o.Where))
	if err != nil {
		return postgresengine.QueryArgs{}, err
	}

	request := versionstore.RequestContext{
		Actor:      o.Actor,
		Roles:      o.Roles,
		Locale:     o.Locale,
		Collection: collection,
	}

	access, err := accesscontrol.Resolve(ctx, evaluator, request, o.OverrideAccess)
	if err != nil {
		return postgresengine.QueryArgs{}, err
	}

	args := postgresengine.QueryArgs{
		Collection:     collection,
		Access:         access,
		Where:          where,
		Request:        request,
		OverrideAccess: o.OverrideAccess,
	}

	if o.Page != 0 || o.Limit != 0 || o.Sort != "" {
		args.Pagination = &versionstore.PaginateOptions{
			Page:  o.Page,
			Limit: o.Limit,
			Sort:  versionstore.ParseSort(o.Sort),
		}
	}

	return args, nil
}
