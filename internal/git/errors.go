package git

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound matches *NotFoundError.
	ErrNotFound = errors.New("not found")

	// ErrCommandFailed matches *CommandError.
	ErrCommandFailed = errors.New("git command failed")
)

// NotFoundError is returned by Open when the path is not an existing directory.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("repository path %s not found: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("repository path %s not found: not a directory", e.Path)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// CommandError reports a git invocation that exited with a non-zero status,
// could not be started at all, or was refused before running because an
// argument was unsafe. Output holds the merged stdout/stderr text.
type CommandError struct {
	Args     []string
	ExitCode int
	Output   string
	Err      error
}

func (e *CommandError) Error() string {
	var b strings.Builder
	b.WriteString("git")
	if len(e.Args) > 0 {
		b.WriteByte(' ')
		b.WriteString(strings.Join(e.Args, " "))
	}
	switch {
	case e.Err != nil:
		fmt.Fprintf(&b, ": %v", e.Err)
	default:
		fmt.Fprintf(&b, ": exit status %d", e.ExitCode)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		fmt.Fprintf(&b, ": %s", out)
	}
	return b.String()
}

func (e *CommandError) Is(target error) bool {
	return target == ErrCommandFailed
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
