// Package git is a thin wrapper around the git executable. It runs git as a
// subprocess, captures the rendered text and parses the few formats it needs
// (medium log entries, diff text, branch names and long status output).
package git

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Repository is a handle to a working copy. The path is fixed at Open and the
// handle holds no other mutable state, so it can be shared between goroutines.
// Concurrent mutating commands (Checkout) against the same working copy must
// still be serialized by the caller.
type Repository struct {
	path string
	exec Executor

	versionOnce sync.Once
	version     gitVersionInfo
}

// Open returns a Repository for path using the git executable found on PATH.
// The directory is not checked for being a git working copy; that surfaces as
// a CommandError on the first command that needs one.
func Open(path string) (*Repository, error) {
	return OpenWithExecutor(path, NewCLIExecutor("git"))
}

// OpenWithExecutor is like Open but runs every command through exec.
func OpenWithExecutor(path string, exec Executor) (*Repository, error) {
	if exec == nil {
		return nil, fmt.Errorf("executor not specified")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}
	if !info.IsDir() {
		return nil, &NotFoundError{Path: path}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}
	return &Repository{path: canonical, exec: exec}, nil
}

func (r *Repository) Path() string {
	return r.path
}

// Execute runs git with args inside the working copy and returns the merged
// output lines. A non-zero exit status yields a *CommandError.
func (r *Repository) Execute(args ...string) ([]string, error) {
	lines, code, err := r.run(args...)
	if err != nil {
		return nil, &CommandError{Args: args, ExitCode: code, Err: err}
	}
	if code != 0 {
		return nil, &CommandError{Args: args, ExitCode: code, Output: joinLines(lines)}
	}
	return lines, nil
}

func (r *Repository) run(args ...string) ([]string, int, error) {
	return r.exec.Run(r.path, args)
}
