package git

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Executor runs one git invocation in dir and returns its merged
// stdout/stderr split into lines together with the exit status. A non-nil
// error means the process could not be run at all.
type Executor interface {
	Run(dir string, args []string) (lines []string, exitCode int, err error)
}

// ExecutorFunc adapts an ordinary function to the Executor interface.
type ExecutorFunc func(dir string, args []string) ([]string, int, error)

func (f ExecutorFunc) Run(dir string, args []string) ([]string, int, error) {
	return f(dir, args)
}

// utf8Locale is forced on the child so dates and status messages render the
// same regardless of the host configuration.
const utf8Locale = "C.UTF-8"

type cliExecutor struct {
	binary string
}

// NewCLIExecutor returns an Executor that shells out to binary (usually "git").
func NewCLIExecutor(binary string) Executor {
	if binary == "" {
		binary = "git"
	}
	return cliExecutor{binary: binary}
}

func (c cliExecutor) Run(dir string, args []string) ([]string, int, error) {
	cmdArgs := append([]string{"-C", dir}, args...)
	cmd := exec.Command(c.binary, cmdArgs...)
	if runtime.GOOS != "windows" {
		cmd.Env = localeEnv(os.Environ())
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	slog.Debug("git exec", slog.String("dir", dir), slog.Any("args", args))
	err := cmd.Run()
	lines := splitLines(out.String())
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return lines, exitErr.ExitCode(), nil
		}
		return lines, -1, err
	}
	return lines, 0, nil
}

func localeEnv(environ []string) []string {
	env := make([]string, 0, len(environ)+2)
	for _, kv := range environ {
		if strings.HasPrefix(kv, "LC_ALL=") || strings.HasPrefix(kv, "LANG=") {
			continue
		}
		env = append(env, kv)
	}
	return append(env, "LC_ALL="+utf8Locale, "LANG="+utf8Locale)
}

func splitLines(out string) []string {
	out = strings.TrimSuffix(out, "\n")
	if out == "" {
		return nil
	}
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
