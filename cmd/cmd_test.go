package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiagokokada/gitrev/internal/git"
)

const (
	hashA   = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	hashB   = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	logArgs = "log --no-merges --date-order --no-color --format=medium --date=default"
)

var twoCommits = []string{
	"commit " + hashB,
	"Author: Bob <bob@example.com>",
	"Date:   Tue Jan 2 09:30:00 2024 +0000",
	"",
	"    Second",
	"",
	"commit " + hashA,
	"Author: Alice <alice@example.com>",
	"Date:   Mon Jan 1 08:00:00 2024 +0000",
	"",
	"    First",
}

type response struct {
	lines []string
	code  int
}

type harness struct {
	t         *testing.T
	dir       string
	responses map[string]response
	calls     []string
	stdout    bytes.Buffer
	stderr    bytes.Buffer
	env       *environment
}

func newHarness(t *testing.T, responses map[string]response) *harness {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := &harness{t: t, dir: t.TempDir(), responses: responses}
	if _, ok := h.responses["--version"]; !ok {
		h.responses["--version"] = response{lines: []string{"git version 2.43.0"}}
	}
	runner := git.ExecutorFunc(func(_ string, args []string) ([]string, int, error) {
		key := strings.Join(args, " ")
		h.calls = append(h.calls, key)
		if resp, ok := h.responses[key]; ok {
			return resp.lines, resp.code, nil
		}
		return []string{"fatal: unexpected " + key}, 128, nil
	})
	h.env = &environment{
		getenv: func(string) string { return "" },
		open: func(path string) (*git.Repository, error) {
			return git.OpenWithExecutor(path, runner)
		},
		watch: func(context.Context, string, time.Duration, func()) error {
			return errors.New("watch not configured")
		},
		stdout: &h.stdout,
		stderr: &h.stderr,
	}
	return h
}

func (h *harness) run(args ...string) error {
	h.t.Helper()
	return run(context.Background(), h.env, append([]string{"-C", h.dir, "--color", "never"}, args...))
}

func TestRootHelp(t *testing.T) {
	h := newHarness(t, map[string]response{})
	require.NoError(t, h.run("--help"))
	for _, sub := range []string{"log", "diff", "branch", "status", "checkout", "watch", "version"} {
		assert.Contains(t, h.stdout.String(), sub)
	}
}

func TestLog_Text(t *testing.T) {
	h := newHarness(t, map[string]response{logArgs: {lines: twoCommits}})
	require.NoError(t, h.run("log"))

	out := h.stdout.String()
	assert.Contains(t, out, "commit "+hashB+"\nAuthor: Bob <bob@example.com>\n")
	assert.Less(t, strings.Index(out, hashB), strings.Index(out, hashA))
	assert.Contains(t, h.calls, "--version")
}

func TestLog_JSONAscendingLimit(t *testing.T) {
	ascending := append(append([]string{}, twoCommits[6:]...), append([]string{""}, twoCommits[:5]...)...)
	h := newHarness(t, map[string]response{logArgs + " --reverse": {lines: ascending}})
	require.NoError(t, h.run("log", "--order", "asc", "-n", "1", "--format", "json"))

	var got []map[string]string
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, hashA, got[0]["hash"])
	assert.Equal(t, "First", got[0]["message"])
}

func TestLog_DescendingLimitUsesMaxCount(t *testing.T) {
	h := newHarness(t, map[string]response{logArgs + " --max-count=1": {lines: twoCommits[:5]}})
	require.NoError(t, h.run("log", "-n", "1", "--format", "yaml"))
	assert.Contains(t, h.stdout.String(), "hash: "+hashB)
}

func TestLog_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "order", args: []string{"log", "--order", "sideways"}},
		{name: "negative_limit", args: []string{"log", "--max-count=-1"}},
		{name: "format", args: []string{"log", "--format", "xml"}},
		{name: "color", args: []string{"log", "--color", "rainbow"}},
		{name: "mode", args: []string{"log", "--mode", "sepia"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, map[string]response{logArgs: {lines: twoCommits}})
			err := h.run(tt.args...)
			require.Error(t, err)
			assert.Equal(t, 1, ExitCode(err))
		})
	}
}

func TestLog_EmptyRepository(t *testing.T) {
	h := newHarness(t, map[string]response{
		logArgs:                      {lines: []string{"fatal: your current branch 'main' does not have any commits yet"}, code: 128},
		"rev-parse -q --verify HEAD": {code: 1},
	})
	require.NoError(t, h.run("log", "--format", "json"))
	assert.Equal(t, "[]\n", h.stdout.String())
}

func TestDiff(t *testing.T) {
	diff := []string{"diff --git a/a.txt b/a.txt", "--- a/a.txt", "+++ b/a.txt", "@@ -1 +1 @@", "-old", "+new"}
	h := newHarness(t, map[string]response{"diff --no-ext-diff " + hashA + " " + hashB: {lines: diff}})
	require.NoError(t, h.run("diff", hashA, hashB))
	assert.Equal(t, strings.Join(diff, "\n")+"\n", h.stdout.String())

	h = newHarness(t, map[string]response{})
	assert.Error(t, h.run("diff", hashA))
}

func TestBranch(t *testing.T) {
	h := newHarness(t, map[string]response{"symbolic-ref --short -q HEAD": {lines: []string{"main"}}})
	require.NoError(t, h.run("branch"))
	assert.Equal(t, "main\n", h.stdout.String())
}

func TestBranch_DetachedExitCode(t *testing.T) {
	h := newHarness(t, map[string]response{"symbolic-ref --short -q HEAD": {code: 1}})
	err := h.run("branch")
	assert.ErrorIs(t, err, git.ErrCommandFailed)
	assert.Equal(t, 1, ExitCode(err))
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		args     []string
		wantOut  string
		wantCode int
	}{
		{name: "clean", lines: []string{"On branch main", "nothing to commit, working tree clean"}, args: []string{"status"}, wantOut: "clean\n"},
		{name: "dirty", lines: []string{"On branch main", "Changes not staged for commit:"}, args: []string{"status"}, wantOut: "dirty\n"},
		{name: "dirty_exit_code", lines: []string{"Changes not staged for commit:"}, args: []string{"status", "--exit-code"}, wantOut: "dirty\n", wantCode: 1},
		{name: "clean_exit_code", lines: []string{"nothing to commit, working directory clean"}, args: []string{"status", "--exit-code"}, wantOut: "clean\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, map[string]response{"status": {lines: tt.lines}})
			err := h.run(tt.args...)
			assert.Equal(t, tt.wantCode, ExitCode(err))
			if err != nil {
				assert.Empty(t, err.Error())
			}
			assert.Equal(t, tt.wantOut, h.stdout.String())
		})
	}
}

func TestCheckout(t *testing.T) {
	h := newHarness(t, map[string]response{"checkout -f -q " + hashA: {}})
	require.NoError(t, h.run("checkout", hashA))
	assert.Contains(t, h.calls, "checkout -f -q "+hashA)
	assert.Empty(t, h.stdout.String())
}

func TestCheckout_GitFailureExitCode(t *testing.T) {
	h := newHarness(t, map[string]response{
		"checkout -f -q nope": {lines: []string{"error: pathspec 'nope' did not match"}, code: 1},
	})
	err := h.run("checkout", "nope")
	var cmdErr *git.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Contains(t, err.Error(), "did not match")
	assert.Equal(t, 1, ExitCode(err))
}

func TestMissingRepository(t *testing.T) {
	h := newHarness(t, map[string]response{})
	err := run(context.Background(), h.env, []string{"-C", filepath.Join(h.dir, "missing"), "branch"})
	assert.ErrorIs(t, err, git.ErrNotFound)
	assert.Equal(t, exitNotFound, ExitCode(err))
	assert.Empty(t, h.calls)
}

func TestRepoFromEnvironment(t *testing.T) {
	h := newHarness(t, map[string]response{"symbolic-ref --short -q HEAD": {lines: []string{"env-branch"}}})
	h.env.getenv = func(key string) string {
		if key == envRepo {
			return h.dir
		}
		return ""
	}
	require.NoError(t, run(context.Background(), h.env, []string{"branch"}))
	assert.Equal(t, "env-branch\n", h.stdout.String())
}

func TestGitTooOld(t *testing.T) {
	h := newHarness(t, map[string]response{"--version": {lines: []string{"git version 1.8.4"}}})
	err := h.run("branch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too old")
	assert.NotContains(t, h.calls, "symbolic-ref --short -q HEAD")
}

func TestVersion(t *testing.T) {
	h := newHarness(t, map[string]response{})
	require.NoError(t, h.run("version"))
	out := h.stdout.String()
	assert.Contains(t, out, "gitrev ")
	assert.Contains(t, out, "git version 2.43.0 (minimum 1.8.5)")
}

func TestWatch_PrintsChanges(t *testing.T) {
	h := newHarness(t, map[string]response{
		logArgs:               {lines: twoCommits[6:]},
		"rev-parse --git-dir": {lines: []string{".git"}},
	})
	h.env.watch = func(_ context.Context, gitDir string, _ time.Duration, onChange func()) error {
		want, err := filepath.EvalSymlinks(h.dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(want, ".git"), gitDir)
		h.responses[logArgs] = response{lines: twoCommits}
		onChange()
		onChange()
		return nil
	}
	require.NoError(t, h.run("watch", "--changes"))

	out := h.stdout.String()
	assert.True(t, strings.HasPrefix(out, "commit "+hashA+"\n"), "first listing printed in full")
	assert.Contains(t, out, "--- previous")
	assert.Contains(t, out, "+++ current")
	assert.Contains(t, out, "+commit "+hashB)
	assert.Equal(t, 1, strings.Count(out, "+++ current"), "unchanged refresh prints nothing")
}

func TestWatch_FullListing(t *testing.T) {
	h := newHarness(t, map[string]response{
		logArgs:               {lines: twoCommits[6:]},
		"rev-parse --git-dir": {lines: []string{".git"}},
	})
	h.env.watch = func(_ context.Context, _ string, _ time.Duration, onChange func()) error {
		h.responses[logArgs] = response{lines: twoCommits}
		onChange()
		return nil
	}
	require.NoError(t, h.run("watch"))

	out := h.stdout.String()
	assert.Equal(t, 2, strings.Count(out, "commit "+hashA))
	assert.Equal(t, 1, strings.Count(out, "commit "+hashB))
}

func TestWatch_FromSubdirectoryWatchesMetadataDir(t *testing.T) {
	h := newHarness(t, map[string]response{
		logArgs:               {lines: twoCommits},
		"rev-parse --git-dir": {lines: []string{"../../.git"}},
	})
	sub := filepath.Join(h.dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	root, err := filepath.EvalSymlinks(h.dir)
	require.NoError(t, err)

	var watched string
	h.env.watch = func(_ context.Context, gitDir string, _ time.Duration, _ func()) error {
		watched = gitDir
		return nil
	}
	require.NoError(t, run(context.Background(), h.env, []string{"-C", sub, "--color", "never", "watch"}))
	assert.Equal(t, filepath.Join(root, ".git"), watched)
}

func TestWatch_NotARepository(t *testing.T) {
	h := newHarness(t, map[string]response{
		logArgs:               {lines: twoCommits},
		"rev-parse --git-dir": {lines: []string{"fatal: not a git repository"}, code: 128},
	})
	h.env.watch = func(context.Context, string, time.Duration, func()) error {
		t.Fatal("watch must not start without a metadata directory")
		return nil
	}
	err := h.run("watch")
	assert.ErrorIs(t, err, git.ErrCommandFailed)
	assert.Equal(t, 128, ExitCode(err))
}

func TestLogFileClosedAfterFailure(t *testing.T) {
	h := newHarness(t, map[string]response{
		logArgs:                      {lines: []string{"fatal: bad object HEAD"}, code: 128},
		"rev-parse -q --verify HEAD": {lines: []string{hashA}},
	})
	logFile := filepath.Join(t.TempDir(), "gitrev.log")
	a := &app{env: h.env}

	err := a.execute(context.Background(), []string{"-C", h.dir, "--log-file", logFile, "log"})
	require.ErrorIs(t, err, git.ErrCommandFailed)
	assert.Nil(t, a.logCloser, "log file must be closed when the command fails")

	data, readErr := os.ReadFile(logFile)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "Revisions")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", want: 0},
		{name: "plain", err: errors.New("boom"), want: 1},
		{name: "explicit", err: &exitError{code: 3}, want: 3},
		{name: "not_found", err: &git.NotFoundError{Path: "/nope"}, want: exitNotFound},
		{name: "command", err: &git.CommandError{Args: []string{"log"}, ExitCode: 128}, want: 128},
		{name: "command_spawn", err: &git.CommandError{Args: []string{"log"}, ExitCode: -1, Err: errors.New("exec")}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
