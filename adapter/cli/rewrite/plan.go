package rewrite

import (
	"errors"
	"fmt"
	"io"

	"github.com/felixgeelhaar/nightshift/adapter/cli"
	"github.com/felixgeelhaar/nightshift/internal/hobby/application/commands"
	"github.com/felixgeelhaar/nightshift/internal/hobby/domain"
	"github.com/spf13/cobra"
)

var planFlags hoursFlags

// PlanCmd shows the proposed rewrite without touching the repository.
var PlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show how a branch would be moved into hobby hours",
	Long: `Compute and validate new timestamps for every commit on a branch and
print a summary. Nothing in the repository changes.

Examples:
  nightshift plan --branch main
  nightshift plan --branch feature-x --start-hour 21 --end-hour 2
  nightshift plan --branch main --min-rate 50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.PlanRewriteHandler == nil {
			return errNotInitialized
		}

		plan, err := buildPlan(cmd, app, planFlags.branch, planFlags.hours(cmd, app.DefaultHours))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if plan.Dirty {
			warnDirty(out)
		}
		RenderSummary(out, plan.Branch, "", plan.Summary, true)
		return nil
	},
}

var errNotInitialized = errors.New("nightshift is not initialized")

func init() {
	planFlags.register(PlanCmd)
}

// buildPlan runs the planner and explains merge and validation failures on
// stderr before returning them.
func buildPlan(cmd *cobra.Command, app *cli.App, branch string, hours domain.HobbyHours) (*commands.PlanRewriteResult, error) {
	plan, err := app.PlanRewriteHandler.Handle(cmd.Context(), commands.PlanRewriteCommand{
		Branch: branch,
		Hours:  hours,
	})
	if err == nil {
		return plan, nil
	}

	errOut := cmd.ErrOrStderr()
	var nonLinear *domain.NonLinearHistoryError
	var invalid *domain.ValidationError
	switch {
	case errors.As(err, &nonLinear):
		RenderMerges(errOut, branch, nonLinear.Merges)
	case errors.As(err, &invalid):
		RenderViolations(errOut, invalid.Violations)
		fmt.Fprintln(errOut, "\nValidation failed. Aborting.")
	case errors.Is(err, domain.ErrBranchNotFound):
		return nil, fmt.Errorf("branch '%s' does not exist", branch)
	}
	return nil, err
}

func warnDirty(out io.Writer) {
	fmt.Fprintln(out, "WARNING: Repository has uncommitted changes.")
	fmt.Fprintln(out, "Uncommitted changes will not affect the history rewrite,")
	fmt.Fprintln(out, "but you may want to commit or stash them first.")
}
