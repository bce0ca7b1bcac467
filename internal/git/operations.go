package git

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Checkout force-checks out revision, discarding local modifications.
func (r *Repository) Checkout(revision string) error {
	revision = strings.TrimSpace(revision)
	args := []string{"checkout", "-f", "-q", revision}
	if err := checkRevision(args, revision); err != nil {
		return err
	}
	_, err := r.Execute(args...)
	return err
}

// CurrentBranch returns the short name of the branch HEAD points to. A
// detached HEAD is reported as a *CommandError.
func (r *Repository) CurrentBranch() (string, error) {
	args := []string{"symbolic-ref", "--short", "-q", "HEAD"}
	lines, err := r.Execute(args...)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return "", &CommandError{Args: args, Output: "empty branch name"}
	}
	return strings.TrimSpace(lines[0]), nil
}

// Diff returns the textual difference between two references, or "" when
// there is none. External diff drivers are disabled.
func (r *Repository) Diff(from, to string) (string, error) {
	args := []string{"diff", "--no-ext-diff", from, to}
	for _, rev := range []string{from, to} {
		if err := checkRevision(args, rev); err != nil {
			return "", err
		}
	}
	lines, err := r.Execute(args...)
	if err != nil {
		return "", err
	}
	return joinLines(lines), nil
}

// GitDir returns the absolute path of the repository's metadata directory,
// which is not necessarily <Path>/.git when the handle points at a
// subdirectory or a linked worktree.
func (r *Repository) GitDir() (string, error) {
	args := []string{"rev-parse", "--git-dir"}
	lines, err := r.Execute(args...)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return "", &CommandError{Args: args, Output: "empty git dir"}
	}
	dir := strings.TrimSpace(lines[0])
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(r.path, dir)
	}
	return filepath.Clean(dir), nil
}

// checkRevision refuses revisions git would parse as options. The refusal is
// reported as a *CommandError for args without running git.
func checkRevision(args []string, revision string) error {
	switch {
	case revision == "":
		return &CommandError{Args: args, ExitCode: -1, Err: fmt.Errorf("revision not specified")}
	case strings.HasPrefix(revision, "-"):
		return &CommandError{Args: args, ExitCode: -1, Err: fmt.Errorf("invalid revision %q", revision)}
	}
	return nil
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
