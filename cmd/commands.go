package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/gitrev/internal/buildinfo"
	"github.com/thiagokokada/gitrev/internal/git"
	"github.com/thiagokokada/gitrev/internal/render"
)

type logOptions struct {
	order  string
	limit  int
	format string
}

func (o *logOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.order, "order", git.OrderDescending.String(), "commit order: desc (newest first) or asc (oldest first)")
	cmd.Flags().IntVarP(&o.limit, "max-count", "n", 0, "maximum number of commits, 0 for all")
	cmd.Flags().StringVar(&o.format, "format", string(render.FormatText), "output format: text, json, or yaml")
}

func (o *logOptions) parse() (git.Order, render.Format, error) {
	order, ok := git.ParseOrder(o.order)
	if !ok {
		return 0, "", fmt.Errorf("invalid --order %q (want asc or desc)", o.order)
	}
	if o.limit < 0 {
		return 0, "", fmt.Errorf("invalid --max-count %d (must not be negative)", o.limit)
	}
	format, err := render.ParseFormat(o.format)
	if err != nil {
		return 0, "", err
	}
	return order, format, nil
}

func newLogCmd(a *app) *cobra.Command {
	var opts logOptions
	cmd := &cobra.Command{
		Use:   "log",
		Short: "List non-merge commits reachable from HEAD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			order, format, err := opts.parse()
			if err != nil {
				return err
			}
			repo, err := a.repository()
			if err != nil {
				return err
			}
			p, err := a.printer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			commits, err := repo.Revisions(order, opts.limit)
			if err != nil {
				return err
			}
			slog.Debug("revisions loaded", slog.Int("count", len(commits)), slog.String("order", order.String()))
			return p.WriteCommits(commits, format)
		},
	}
	opts.bind(cmd)
	return cmd
}

func newDiffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff FROM TO",
		Short: "Show the textual diff between two revisions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := a.repository()
			if err != nil {
				return err
			}
			p, err := a.printer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			diff, err := repo.Diff(args[0], args[1])
			if err != nil {
				return err
			}
			return p.Diff(diff)
		},
	}
}

func newBranchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "branch",
		Short: "Print the checked-out branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := a.repository()
			if err != nil {
				return err
			}
			branch, err := repo.CurrentBranch()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), branch)
			return err
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	var exitCode bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether the working copy is clean",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := a.repository()
			if err != nil {
				return err
			}
			p, err := a.printer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			clean, err := repo.IsWorkingCopyClean()
			if err != nil {
				return err
			}
			if err := p.Status(clean); err != nil {
				return err
			}
			if exitCode && !clean {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "exit with status 1 when the working copy is dirty")
	return cmd
}

func newCheckoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout REVISION",
		Short: "Force-checkout a revision, discarding local changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			repo, err := a.repository()
			if err != nil {
				return err
			}
			if err := repo.Checkout(args[0]); err != nil {
				return err
			}
			slog.Info("checked out", slog.String("revision", args[0]))
			return nil
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print gitrev and git versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "gitrev %s\n", buildinfo.Read())
			gitVersion := "git unavailable"
			if repo, err := a.env.open(a.opts.repo); err == nil {
				if v, err := repo.GitVersion(); err == nil {
					gitVersion = v
				} else {
					slog.Debug("git version", slog.Any("error", err))
				}
			}
			fmt.Fprintf(out, "%s (minimum %s)\n", gitVersion, git.MinGitVersion())
			return nil
		},
	}
}
