package rewrite

import (
	"fmt"

	"github.com/felixgeelhaar/nightshift/adapter/cli"
	"github.com/felixgeelhaar/nightshift/internal/hobby/application/queries"
	"github.com/spf13/cobra"
)

var (
	historyBranch string
	historyLimit  int
)

// HistoryCmd lists recorded rewrites and their backup branches.
var HistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded rewrites",
	Long: `List the rewrites recorded in the local ledger, newest first, with the
backup branch each one left behind.

Examples:
  nightshift history
  nightshift history --branch main --limit 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListRewriteRunsHandler == nil {
			return errNotInitialized
		}

		runs, err := app.ListRewriteRunsHandler.Handle(cmd.Context(), queries.ListRewriteRunsQuery{
			Branch: historyBranch,
			Limit:  historyLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to list rewrites: %w", err)
		}

		RenderRuns(cmd.OutOrStdout(), runs)
		return nil
	},
}

func init() {
	HistoryCmd.Flags().StringVarP(&historyBranch, "branch", "b", "", "only show rewrites of this branch")
	HistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", queries.DefaultRunLimit, "maximum number of rewrites to show")
}
