package git

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/nightshift/internal/hobby/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner answers git invocations from a table keyed by the joined args.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   [][]string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{outputs: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeRunner) Run(ctx context.Context, args ...string) (string, error) {
	f.calls = append(f.calls, args)
	key := strings.Join(args, " ")
	if err, ok := f.errs[key]; ok {
		return "", err
	}
	return f.outputs[key], nil
}

const (
	hashA = "1111111111111111111111111111111111111111"
	hashB = "2222222222222222222222222222222222222222"
)

func TestParseLogLine(t *testing.T) {
	commit, err := ParseLogLine(hashB + "|2024-01-17T10:15:00+02:00|2024-01-17T10:20:00+02:00|" + hashA + "|Fix parser | again")

	require.NoError(t, err)
	assert.Equal(t, hashB, commit.Hash)
	assert.Equal(t, 1, commit.ParentCount)
	assert.Equal(t, "Fix parser | again", commit.Subject)
	assert.Equal(t, 10, commit.AuthorDate.Hour())
	_, offset := commit.AuthorDate.Zone()
	assert.Equal(t, 2*3600, offset)
	assert.Equal(t, 20, commit.CommitterDate.Minute())
}

func TestParseLogLine_RootAndMerge(t *testing.T) {
	root, err := ParseLogLine(hashA + "|2024-01-17T10:15:00Z|2024-01-17T10:15:00Z||Initial commit")
	require.NoError(t, err)
	assert.Equal(t, 0, root.ParentCount)

	merge, err := ParseLogLine(hashB + "|2024-01-17T10:15:00Z|2024-01-17T10:15:00Z|" + hashA + " " + hashA + "|Merge")
	require.NoError(t, err)
	assert.True(t, merge.IsMerge())
}

func TestParseLogLine_Malformed(t *testing.T) {
	_, err := ParseLogLine("garbage")
	assert.Error(t, err)

	_, err = ParseLogLine(hashA + "|yesterday|2024-01-17T10:15:00Z||x")
	assert.Error(t, err)
}

func TestParseNumstat(t *testing.T) {
	added, deleted := ParseNumstat("10\t2\tmain.go\n-\t-\tlogo.png\n3\t0\tREADME.md")
	assert.Equal(t, 13, added)
	assert.Equal(t, 2, deleted)

	added, deleted = ParseNumstat("")
	assert.Zero(t, added)
	assert.Zero(t, deleted)
}

func TestRepository_CheckState(t *testing.T) {
	ctx := context.Background()

	t.Run("clean repository", func(t *testing.T) {
		runner := newFakeRunner()
		runner.outputs["rev-parse --git-dir"] = ".git"
		runner.outputs["branch --list main"] = "* main"

		state, err := NewRepository(runner, nil).CheckState(ctx, "main")
		require.NoError(t, err)
		assert.False(t, state.Dirty)
	})

	t.Run("dirty working tree", func(t *testing.T) {
		runner := newFakeRunner()
		runner.outputs["rev-parse --git-dir"] = ".git"
		runner.outputs["branch --list main"] = "* main"
		runner.outputs["status --porcelain"] = " M main.go"

		state, err := NewRepository(runner, nil).CheckState(ctx, "main")
		require.NoError(t, err)
		assert.True(t, state.Dirty)
	})

	t.Run("not a repository", func(t *testing.T) {
		runner := newFakeRunner()
		runner.errs["rev-parse --git-dir"] = errors.New("fatal: not a git repository")

		_, err := NewRepository(runner, nil).CheckState(ctx, "main")
		assert.ErrorIs(t, err, domain.ErrNotARepository)
	})

	t.Run("missing branch", func(t *testing.T) {
		runner := newFakeRunner()
		runner.outputs["rev-parse --git-dir"] = ".git"

		_, err := NewRepository(runner, nil).CheckState(ctx, "feature")
		assert.ErrorIs(t, err, domain.ErrBranchNotFound)
		assert.Contains(t, err.Error(), "feature")
	})
}

func TestRepository_LoadCommits(t *testing.T) {
	runner := newFakeRunner()
	runner.outputs["log main --format="+logFormat+" --reverse"] = strings.Join([]string{
		hashA + "|2024-01-15T09:00:00+01:00|2024-01-15T09:00:00+01:00||Initial",
		hashB + "|2024-01-15T11:00:00+01:00|2024-01-15T11:05:00+01:00|" + hashA + "|Add feature",
	}, "\n")
	runner.outputs["show --numstat --format= "+hashA] = "5\t0\tgo.mod"
	runner.outputs["show --numstat --format= "+hashB] = "40\t10\tfeature.go\n-\t-\ticon.png"

	commits, err := NewRepository(runner, nil).LoadCommits(context.Background(), "main")

	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, hashA, commits[0].Hash)
	assert.Equal(t, 5, commits[0].WorkSize())
	assert.Equal(t, 0, commits[0].ParentCount)
	assert.Equal(t, 50, commits[1].WorkSize())
	assert.Equal(t, "Add feature", commits[1].Subject)
}

func TestRepository_LoadCommits_StatFailure(t *testing.T) {
	runner := newFakeRunner()
	runner.outputs["log main --format="+logFormat+" --reverse"] = hashA + "|2024-01-15T09:00:00Z|2024-01-15T09:00:00Z||Initial"
	runner.errs["show --numstat --format= "+hashA] = errors.New("bad object")

	_, err := NewRepository(runner, nil).LoadCommits(context.Background(), "main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1111111")
}

func testSchedule() *domain.Schedule {
	zone := time.FixedZone("", 2*3600)
	first := domain.Commit{Hash: hashA, AuthorDate: time.Date(2024, time.January, 17, 9, 0, 0, 0, zone)}
	second := domain.Commit{Hash: hashB, AuthorDate: time.Date(2024, time.January, 17, 11, 0, 0, 0, zone), ParentCount: 1}
	return domain.NewSchedule([]domain.ScheduledCommit{
		domain.NewScheduledCommit(first, time.Date(2024, time.January, 17, 20, 0, 0, 0, time.UTC), zone),
		domain.NewScheduledCommit(second, time.Date(2024, time.January, 17, 21, 0, 0, 0, time.UTC), zone),
	})
}

func TestBuildEnvFilter(t *testing.T) {
	script := BuildEnvFilter(testSchedule(), "")

	// 2024-01-17 20:00 at +02:00 is 18:00 UTC.
	expected := time.Date(2024, time.January, 17, 18, 0, 0, 0, time.UTC).Unix()
	assert.True(t, strings.HasPrefix(script, "case $GIT_COMMIT in\n"))
	assert.True(t, strings.HasSuffix(script, "esac"))
	assert.Contains(t, script, "    "+hashA+")\n")
	assert.Contains(t, script, "export GIT_AUTHOR_DATE='"+strconvInt(expected)+" +0200'")
	assert.Contains(t, script, "export GIT_COMMITTER_DATE='"+strconvInt(expected)+" +0200'")
	assert.NotContains(t, script, "GIT_AUTHOR_EMAIL")
	assert.Equal(t, 2, strings.Count(script, ";;"))
}

func TestBuildEnvFilter_MixedZoneHistory(t *testing.T) {
	// Original commits straddle the 2024-03-31 CET to CEST change.
	commits := []domain.Commit{
		{Hash: hashA, AuthorDate: time.Date(2024, time.March, 31, 1, 50, 0, 0, time.FixedZone("CET", 3600))},
		{Hash: hashB, AuthorDate: time.Date(2024, time.March, 31, 3, 10, 0, 0, time.FixedZone("CEST", 2*3600)), ParentCount: 1},
	}
	zone := domain.ScheduleZone(commits)
	schedule := domain.NewSchedule([]domain.ScheduledCommit{
		domain.NewScheduledCommit(commits[0], time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC), zone),
		domain.NewScheduledCommit(commits[1], time.Date(2024, time.March, 31, 0, 10, 0, 0, time.UTC), zone),
	})

	script := BuildEnvFilter(schedule, "")

	first := time.Date(2024, time.March, 30, 23, 0, 0, 0, time.UTC).Unix()
	assert.Contains(t, script, "export GIT_AUTHOR_DATE='"+strconvInt(first)+" +0100'")
	assert.Contains(t, script, "export GIT_AUTHOR_DATE='"+strconvInt(first+600)+" +0100'")
	assert.NotContains(t, script, "+0200")
}

func TestBuildEnvFilter_WithEmail(t *testing.T) {
	script := BuildEnvFilter(testSchedule(), "night'owl@example.com")

	assert.Contains(t, script, `export GIT_AUTHOR_EMAIL='night'\''owl@example.com'`)
	assert.Contains(t, script, `export GIT_COMMITTER_EMAIL='night'\''owl@example.com'`)
}

func TestRepository_BackupAndRewrite(t *testing.T) {
	runner := newFakeRunner()
	repo := NewRepository(runner, nil)
	ctx := context.Background()

	require.NoError(t, repo.CreateBackup(ctx, "backup-1", "main"))
	require.NoError(t, repo.Rewrite(ctx, "main", testSchedule(), ""))

	require.Len(t, runner.calls, 2)
	assert.Equal(t, []string{"branch", "backup-1", "main"}, runner.calls[0])
	rewrite := runner.calls[1]
	assert.Equal(t, []string{"filter-branch", "--force", "--env-filter"}, rewrite[:3])
	assert.Equal(t, []string{"--", "main"}, rewrite[4:])
}

func TestRepository_RewriteFailure(t *testing.T) {
	runner := newFakeRunner()
	repo := NewRepository(runner, nil)
	script := BuildEnvFilter(testSchedule(), "")
	runner.errs[strings.Join([]string{"filter-branch", "--force", "--env-filter", script, "--", "main"}, " ")] = errors.New("boom")

	err := repo.Rewrite(context.Background(), "main", testSchedule(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func strconvInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
