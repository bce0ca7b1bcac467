// Package watch reports changes to a repository's metadata directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thiagokokada/gitrev/internal/debounce"
)

// DefaultDelay coalesces the burst of writes a single git command produces.
const DefaultDelay = 350 * time.Millisecond

type Watcher struct {
	fs       *fsnotify.Watcher
	debounce *debounce.Debouncer
	done     chan struct{}
	closeMu  sync.Mutex
	closed   bool
}

// Start watches the repository metadata directory gitDir and calls onChange
// once per burst of relevant events, after delay has passed without another
// one.
func Start(gitDir string, delay time.Duration, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	paths := watchPaths(gitDir)
	if len(paths) == 0 {
		return nil, errors.Join(fmt.Errorf("no metadata directory to watch at %q", gitDir), fsw.Close())
	}
	for _, path := range paths {
		slog.Debug("adding path to FS watcher", slog.String("path", path))
		if err := fsw.Add(path); err != nil {
			return nil, fmt.Errorf("watch %s: %w", path, errors.Join(err, fsw.Close()))
		}
	}
	w := &Watcher{
		fs:       fsw,
		debounce: debounce.New(delay, onChange),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Run watches gitDir until ctx is cancelled.
func Run(ctx context.Context, gitDir string, delay time.Duration, onChange func()) error {
	w, err := Start(gitDir, delay, onChange)
	if err != nil {
		return err
	}
	<-ctx.Done()
	return w.Close()
}

func (w *Watcher) Close() error {
	w.closeMu.Lock()
	defer w.closeMu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	err := w.fs.Close()
	<-w.done
	w.debounce.Stop()
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			slog.Debug("fsnotify event",
				slog.String("op", ev.Op.String()),
				slog.String("path", ev.Name),
			)
			w.debounce.Trigger()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.Error("fsnotify error", slog.Any("error", err))
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return !shouldIgnorePath(ev.Name)
}

// watchPaths returns gitDir and the local branch refs directory. A linked
// worktree keeps its refs in the shared directory named by its commondir
// file, so that directory is watched too.
func watchPaths(gitDir string) []string {
	if !isDir(gitDir) {
		return nil
	}
	paths := []string{gitDir}
	refsDir := gitDir
	if raw, err := os.ReadFile(filepath.Join(gitDir, "commondir")); err == nil {
		common := strings.TrimSpace(string(raw))
		if !filepath.IsAbs(common) {
			common = filepath.Join(gitDir, common)
		}
		common = filepath.Clean(common)
		if isDir(common) && common != gitDir {
			paths = append(paths, common)
			refsDir = common
		}
	}
	if heads := filepath.Join(refsDir, "refs", "heads"); isDir(heads) {
		paths = append(paths, heads)
	}
	return paths
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Lock files come and go around every write git makes.
func shouldIgnorePath(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".lock", ".ipc":
		return true
	default:
		return false
	}
}
