package git

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeExecutor answers git invocations from canned responses keyed by the
// space-joined argument list.
type fakeExecutor struct {
	responses map[string]fakeResponse
	runFunc   func(args []string) ([]string, int, error)

	dirs  []string
	calls [][]string
}

type fakeResponse struct {
	lines []string
	code  int
	err   error
}

func (f *fakeExecutor) Run(dir string, args []string) ([]string, int, error) {
	f.dirs = append(f.dirs, dir)
	f.calls = append(f.calls, slices.Clone(args))
	if f.runFunc != nil {
		return f.runFunc(args)
	}
	if resp, ok := f.responses[strings.Join(args, " ")]; ok {
		return slices.Clone(resp.lines), resp.code, resp.err
	}
	return []string{"fatal: unexpected command " + strings.Join(args, " ")}, 128, nil
}

func newFakeRepo(t *testing.T, f *fakeExecutor) *Repository {
	t.Helper()
	repo, err := OpenWithExecutor(t.TempDir(), f)
	require.NoError(t, err)
	return repo
}
