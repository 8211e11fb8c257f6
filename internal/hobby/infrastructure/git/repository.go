package git

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/nightshift/internal/hobby/domain"
)

// logFormat yields hash|author date|committer date|parents|subject.
const logFormat = "%H|%aI|%cI|%P|%s"

// State describes the working tree of the repository being rewritten.
type State struct {
	Dirty bool
}

// Repository reads and rewrites branch history with the git CLI.
type Repository struct {
	runner Runner
	logger *slog.Logger
}

// NewRepository creates a repository on top of a runner.
func NewRepository(runner Runner, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{runner: runner, logger: logger}
}

// CheckState verifies that the working directory is a repository holding
// branch and reports uncommitted changes.
func (r *Repository) CheckState(ctx context.Context, branch string) (State, error) {
	if _, err := r.runner.Run(ctx, "rev-parse", "--git-dir"); err != nil {
		return State{}, fmt.Errorf("%w: %v", domain.ErrNotARepository, err)
	}

	branches, err := r.runner.Run(ctx, "branch", "--list", branch)
	if err != nil {
		return State{}, fmt.Errorf("failed to list branches: %w", err)
	}
	if branches == "" {
		return State{}, fmt.Errorf("%w: %s", domain.ErrBranchNotFound, branch)
	}

	status, err := r.runner.Run(ctx, "status", "--porcelain")
	if err != nil {
		return State{}, fmt.Errorf("failed to read status: %w", err)
	}
	return State{Dirty: status != ""}, nil
}

// LoadCommits returns the commits of branch, oldest first.
func (r *Repository) LoadCommits(ctx context.Context, branch string) ([]domain.Commit, error) {
	out, err := r.runner.Run(ctx, "log", branch, "--format="+logFormat, "--reverse")
	if err != nil {
		return nil, fmt.Errorf("failed to read log of %s: %w", branch, err)
	}

	var commits []domain.Commit
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		commit, err := ParseLogLine(line)
		if err != nil {
			return nil, err
		}

		stat, err := r.runner.Run(ctx, "show", "--numstat", "--format=", commit.Hash)
		if err != nil {
			return nil, fmt.Errorf("failed to read stats of %s: %w", commit.ShortHash(), err)
		}
		commit.LinesAdded, commit.LinesDeleted = ParseNumstat(stat)

		r.logger.Debug("loaded commit",
			"hash", commit.ShortHash(),
			"lines", commit.WorkSize(),
			"parents", commit.ParentCount,
		)
		commits = append(commits, commit)
	}
	return commits, nil
}

// CreateBackup points a new branch at the current tip of branch.
func (r *Repository) CreateBackup(ctx context.Context, backupBranch, branch string) error {
	if _, err := r.runner.Run(ctx, "branch", backupBranch, branch); err != nil {
		return fmt.Errorf("failed to create backup branch %s: %w", backupBranch, err)
	}
	return nil
}

// Rewrite applies the schedule to branch with filter-branch. When newEmail
// is set, author and committer emails are replaced too.
func (r *Repository) Rewrite(ctx context.Context, branch string, schedule *domain.Schedule, newEmail string) error {
	script := BuildEnvFilter(schedule, newEmail)
	if _, err := r.runner.Run(ctx, "filter-branch", "--force", "--env-filter", script, "--", branch); err != nil {
		return fmt.Errorf("failed to rewrite %s: %w", branch, err)
	}
	return nil
}

// ParseLogLine parses one line of logFormat output.
func ParseLogLine(line string) (domain.Commit, error) {
	parts := strings.SplitN(line, "|", 5)
	if len(parts) < 4 {
		return domain.Commit{}, fmt.Errorf("malformed log line: %q", line)
	}

	authorDate, err := time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return domain.Commit{}, fmt.Errorf("invalid author date %q: %w", parts[1], err)
	}
	committerDate, err := time.Parse(time.RFC3339, parts[2])
	if err != nil {
		return domain.Commit{}, fmt.Errorf("invalid committer date %q: %w", parts[2], err)
	}

	commit := domain.Commit{
		Hash:          parts[0],
		AuthorDate:    authorDate,
		CommitterDate: committerDate,
		ParentCount:   len(strings.Fields(parts[3])),
	}
	if len(parts) > 4 {
		commit.Subject = parts[4]
	}
	return commit, nil
}

// ParseNumstat sums added and deleted lines. Binary files ("-") count as zero.
func ParseNumstat(out string) (added, deleted int) {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if n, err := strconv.Atoi(fields[0]); err == nil {
			added += n
		}
		if n, err := strconv.Atoi(fields[1]); err == nil {
			deleted += n
		}
	}
	return added, deleted
}

// BuildEnvFilter renders the filter-branch env filter that stamps each
// scheduled commit with its new dates.
func BuildEnvFilter(schedule *domain.Schedule, newEmail string) string {
	var b strings.Builder
	b.WriteString("case $GIT_COMMIT in\n")
	for _, entry := range schedule.Entries() {
		fmt.Fprintf(&b, "    %s)\n", entry.Hash())
		fmt.Fprintf(&b, "        export GIT_AUTHOR_DATE=%s\n", shellQuote(gitDate(entry.NewAuthorDate())))
		fmt.Fprintf(&b, "        export GIT_COMMITTER_DATE=%s\n", shellQuote(gitDate(entry.NewCommitterDate())))
		if newEmail != "" {
			fmt.Fprintf(&b, "        export GIT_AUTHOR_EMAIL=%s\n", shellQuote(newEmail))
			fmt.Fprintf(&b, "        export GIT_COMMITTER_EMAIL=%s\n", shellQuote(newEmail))
		}
		b.WriteString("        ;;\n")
	}
	b.WriteString("esac")
	return b.String()
}

// gitDate formats t as git's internal "<unix> <+hhmm>" date.
func gitDate(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Unix(), t.Format("-0700"))
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
