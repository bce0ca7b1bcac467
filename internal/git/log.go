package git

import (
	"fmt"
	"log/slog"
)

// Revisions lists non-merge commits reachable from HEAD in date order. A
// limit <= 0 returns the whole history. An empty repository yields an empty
// slice and no error.
//
// Descending limits are handed to git as --max-count. git applies --reverse
// after --max-count, so an ascending limit would return the newest commits;
// instead the whole history is read oldest-first and the parser stops after
// limit records.
func (r *Repository) Revisions(order Order, limit int) ([]Commit, error) {
	args, parserLimit := revisionArgs(order, limit)
	slog.Debug("Revisions",
		slog.String("order", order.String()),
		slog.Int("limit", limit),
	)
	lines, err := r.Execute(args...)
	if err != nil {
		empty, probeErr := r.isUnborn()
		if probeErr == nil && empty {
			return []Commit{}, nil
		}
		return nil, err
	}
	return parseLog(lines, parserLimit), nil
}

func revisionArgs(order Order, limit int) ([]string, int) {
	// --date=default overrides any log.date setting so dates match DateLayout.
	args := []string{"log", "--no-merges", "--date-order", "--no-color", "--format=medium", "--date=default"}
	if limit < 0 {
		limit = 0
	}
	switch order {
	case OrderAscending:
		return append(args, "--reverse"), limit
	default:
		if limit > 0 {
			args = append(args, fmt.Sprintf("--max-count=%d", limit))
		}
		return args, 0
	}
}

// isUnborn reports whether HEAD does not resolve to a commit yet.
func (r *Repository) isUnborn() (bool, error) {
	args := []string{"rev-parse", "-q", "--verify", "HEAD"}
	lines, code, err := r.run(args...)
	if err != nil {
		return false, &CommandError{Args: args, ExitCode: code, Err: err}
	}
	switch code {
	case 0:
		return false, nil
	case 1:
		return len(lines) == 0, nil
	default:
		return false, &CommandError{Args: args, ExitCode: code, Output: joinLines(lines)}
	}
}
