// Package cmd implements the gitrev command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/gitrev/internal/git"
	"github.com/thiagokokada/gitrev/internal/logging"
	"github.com/thiagokokada/gitrev/internal/render"
	"github.com/thiagokokada/gitrev/internal/watch"
)

const (
	envRepo    = "GITREV_REPO"
	envLogFile = "GITREV_LOG_FILE"
)

// exitNotFound is used when the repository path does not exist.
const exitNotFound = 2

// environment holds the process dependencies that tests replace.
type environment struct {
	getenv func(string) string
	open   func(path string) (*git.Repository, error)
	watch  func(ctx context.Context, root string, delay time.Duration, onChange func()) error
	stdout io.Writer
	stderr io.Writer
}

func defaultEnvironment() *environment {
	return &environment{
		getenv: os.Getenv,
		open:   git.Open,
		watch:  watch.Run,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

type globalOptions struct {
	repo    string
	verbose bool
	logFile string
	color   string
	mode    string
}

type app struct {
	env       *environment
	opts      globalOptions
	logCloser io.Closer
}

func Run() error {
	return run(context.Background(), defaultEnvironment(), os.Args[1:])
}

func run(ctx context.Context, env *environment, args []string) error {
	return (&app{env: env}).execute(ctx, args)
}

// execute runs the command line and closes the log file even when the
// command fails, since cobra skips post-run hooks after an error.
func (a *app) execute(ctx context.Context, args []string) (err error) {
	root := newRootCmd(a)
	root.SetArgs(args)
	defer func() {
		if closeErr := a.closeLogging(); err == nil {
			err = closeErr
		}
	}()
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	env := a.env
	root := &cobra.Command{
		Use:           "gitrev",
		Short:         "Query and drive a git working copy",
		Long:          "gitrev reads revision history, diffs, branch and status from a git working copy by running the git command line tool.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setupLogging()
		},
	}
	root.SetOut(env.stdout)
	root.SetErr(env.stderr)

	repoDefault := env.getenv(envRepo)
	if repoDefault == "" {
		repoDefault = "."
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&a.opts.repo, "repo", "C", repoDefault, "path to the git working copy (env "+envRepo+")")
	flags.BoolVarP(&a.opts.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&a.opts.logFile, "log-file", env.getenv(envLogFile), "also write debug logs to this rotating file (env "+envLogFile+")")
	flags.StringVar(&a.opts.color, "color", render.ColorAuto.String(), "colorize output: auto, always, or never")
	flags.StringVar(&a.opts.mode, "mode", render.ThemeAuto.String(), "color theme: auto, light, or dark")

	root.AddCommand(
		newLogCmd(a),
		newDiffCmd(a),
		newBranchCmd(a),
		newStatusCmd(a),
		newCheckoutCmd(a),
		newWatchCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) setupLogging() error {
	closer, err := logging.Setup(logging.Options{
		Verbose: a.opts.verbose,
		File:    a.opts.logFile,
		Stderr:  a.env.stderr,
	})
	if err != nil {
		return err
	}
	a.logCloser = closer
	return nil
}

func (a *app) closeLogging() error {
	if a.logCloser == nil {
		return nil
	}
	err := a.logCloser.Close()
	a.logCloser = nil
	return err
}

// repository opens the configured working copy and checks the git version.
func (a *app) repository() (*git.Repository, error) {
	repo, err := a.env.open(a.opts.repo)
	if err != nil {
		return nil, err
	}
	if err := repo.EnsureMinGitVersion(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (a *app) printer(w io.Writer) (*render.Printer, error) {
	mode, ok := render.ParseColorMode(a.opts.color)
	if !ok {
		return nil, fmt.Errorf("invalid --color %q (want auto, always, or never)", a.opts.color)
	}
	pref, ok := render.ParseThemePreference(a.opts.mode)
	if !ok {
		return nil, fmt.Errorf("invalid --mode %q (want auto, light, or dark)", a.opts.mode)
	}
	color := render.ColorEnabled(mode, w)
	palette := render.PaletteFor(render.ThemeLight)
	if color {
		palette = render.PaletteFor(pref)
	}
	return render.NewPrinter(w, color, palette), nil
}

// exitError carries an explicit exit status. An empty message prints nothing.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func (e *exitError) ExitCode() int { return e.code }

// ExitCode maps an error returned by Run to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if errors.Is(err, git.ErrNotFound) {
		return exitNotFound
	}
	var cmdErr *git.CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 {
		return cmdErr.ExitCode
	}
	return 1
}
