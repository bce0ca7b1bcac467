package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/thiagokokada/gitrev/internal/git"
	"github.com/thiagokokada/gitrev/internal/render"
	"github.com/thiagokokada/gitrev/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		opts    logOptions
		changes bool
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the log again whenever the repository changes",
		Long: "watch prints the commit log, then waits for changes under the repository's .git directory " +
			"and prints it again after each burst of changes, until interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			order, format, err := opts.parse()
			if err != nil {
				return err
			}
			repo, err := a.repository()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			p, err := a.printer(out)
			if err != nil {
				return err
			}
			lw := &logWatcher{
				repo:    repo,
				order:   order,
				limit:   opts.limit,
				format:  format,
				printer: p,
				out:     out,
				changes: changes,
			}
			gitDir, err := repo.GitDir()
			if err != nil {
				return err
			}
			if err := lw.refresh(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.env.watch(ctx, gitDir, watchDelay, func() {
				if err := lw.refresh(); err != nil {
					slog.Error("refresh log", slog.Any("error", err))
				}
			})
		},
	}
	opts.bind(cmd)
	cmd.Flags().BoolVar(&changes, "changes", false, "after the first listing, print only a unified diff against the previous listing")
	return cmd
}

var watchDelay = watch.DefaultDelay

// logWatcher re-renders the revision list and prints it, or its delta from
// the previous rendering.
type logWatcher struct {
	repo    *git.Repository
	order   git.Order
	limit   int
	format  render.Format
	printer *render.Printer
	out     io.Writer
	changes bool

	mu       sync.Mutex
	previous string
	rendered bool
}

func (w *logWatcher) refresh() error {
	commits, err := w.repo.Revisions(w.order, w.limit)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	// Rendered plain so consecutive listings can be compared line by line.
	if err := render.NewPrinter(&buf, false, render.Palette{}).WriteCommits(commits, w.format); err != nil {
		return err
	}
	current := buf.String()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.rendered && current == w.previous {
		slog.Debug("log unchanged")
		return nil
	}
	first := !w.rendered
	previous := w.previous
	w.previous, w.rendered = current, true

	if first || !w.changes {
		if !first {
			if _, err := fmt.Fprintln(w.out); err != nil {
				return err
			}
		}
		return w.printer.WriteCommits(commits, w.format)
	}
	delta, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(previous),
		B:        difflib.SplitLines(current),
		FromFile: "previous",
		ToFile:   "current",
		Context:  1,
	})
	if err != nil {
		return err
	}
	return w.printer.Diff(strings.TrimSuffix(delta, "\n"))
}
