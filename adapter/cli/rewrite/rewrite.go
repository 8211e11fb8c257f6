package rewrite

import (
	"bufio"
	"fmt"
	"time"

	"github.com/felixgeelhaar/nightshift/adapter/cli"
	"github.com/felixgeelhaar/nightshift/internal/hobby/application/commands"
	"github.com/felixgeelhaar/nightshift/pkg/observability"
	"github.com/spf13/cobra"
)

var (
	rewriteFlags  hoursFlags
	backupBranch  string
	newEmail      string
	assumeYes     bool
	rewriteDryRun bool
)

// RewriteCmd moves the history of a branch into hobby hours.
var RewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Rewrite a branch so every commit lands in hobby hours",
	Long: `Plan new timestamps, show the summary, ask for confirmation, back up
the branch and rewrite it with git filter-branch.

Examples:
  nightshift rewrite --branch main --dry-run
  nightshift rewrite --branch feature-x --start-hour 21 --end-hour 2
  nightshift rewrite --branch main --backup-branch main-before --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.PlanRewriteHandler == nil || app.ApplyRewriteHandler == nil {
			return errNotInitialized
		}

		out := cmd.OutOrStdout()
		in := bufio.NewReader(cmd.InOrStdin())

		plan, err := buildPlan(cmd, app, rewriteFlags.branch, rewriteFlags.hours(cmd, app.DefaultHours))
		if err != nil {
			return err
		}

		if plan.Dirty && !rewriteDryRun {
			warnDirty(out)
			if !assumeYes && !confirm(in, out, "Continue anyway?") {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		RenderSummary(out, plan.Branch, newEmail, plan.Summary, rewriteDryRun)
		if rewriteDryRun {
			return nil
		}

		if !assumeYes {
			fmt.Fprintln(out, "\n"+rule)
			if !confirm(in, out, "\nProceed with history rewrite?") {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		backup := backupBranch
		if backup == "" {
			backup = commands.DefaultBackupBranch(time.Now())
		}
		fmt.Fprintf(out, "\nCreating backup branch '%s'...\n", backup)
		fmt.Fprintf(out, "Rewriting history on branch '%s'...\n", plan.Branch)

		started := time.Now()
		result, err := app.ApplyRewriteHandler.Handle(cmd.Context(), commands.ApplyRewriteCommand{
			Plan:         plan,
			BackupBranch: backup,
			NewEmail:     newEmail,
		})
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "\nERROR during history rewrite: %v\n", err)
			fmt.Fprintf(cmd.ErrOrStderr(), "Your original branch is safe at '%s'\n", backup)
			return err
		}
		observability.LogDuration(cmd.Context(), cli.Logger(), "rewrite", started)

		fmt.Fprintln(out, "\n✓ History rewritten successfully!")
		fmt.Fprintf(out, "  Original branch backed up as '%s'\n", result.BackupBranch)
		fmt.Fprintf(out, "  Modified branch: '%s'\n", plan.Branch)
		fmt.Fprintln(out, "\nNOTE: If you need to push this branch, use:")
		fmt.Fprintf(out, "  git push --force origin %s\n", plan.Branch)
		return nil
	},
}

func init() {
	rewriteFlags.register(RewriteCmd)
	RewriteCmd.Flags().StringVar(&backupBranch, "backup-branch", "", "name for the backup branch (default: backup-TIMESTAMP)")
	RewriteCmd.Flags().StringVar(&newEmail, "new-email", "", "replace author and committer email with this address")
	RewriteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	RewriteCmd.Flags().BoolVar(&rewriteDryRun, "dry-run", false, "show proposed changes without applying them")
}
