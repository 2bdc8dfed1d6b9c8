// Package watch reruns a task whenever files under a directory change. It
// backs the -watch flag, turning any recipe into a rudimentary
// edit-rerun loop.
package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dvoss/devrig/internal/ctxlog"
)

// DefaultDebounce batches the write bursts editors and code generators
// produce into a single rerun.
const DefaultDebounce = 300 * time.Millisecond

// Watcher observes a directory tree and invokes a callback after changes
// settle.
type Watcher struct {
	Root     string
	Debounce time.Duration
}

// New creates a watcher over root with the default debounce interval.
func New(root string) *Watcher {
	return &Watcher{Root: root, Debounce: DefaultDebounce}
}

// Run blocks, invoking onChange after each settled burst of filesystem
// events, until the context is cancelled. The callback runs on the
// watcher's goroutine; a slow callback delays the next rerun, it does not
// lose it.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context) error) error {
	logger := ctxlog.FromContext(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := addRecursive(fsw, w.Root); err != nil {
		return err
	}
	logger.Info("👀 Watching for changes.", "root", w.Root)

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if skipEvent(event) {
				continue
			}
			logger.Debug("Filesystem event.", "op", event.Op.String(), "path", event.Name)

			// New directories need their own watches.
			if event.Op.Has(fsnotify.Create) {
				_ = addRecursive(fsw, event.Name)
			}

			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					<-timerC
				}
				timer.Reset(debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error.", "error", err)

		case <-timerC:
			timer = nil
			timerC = nil
			logger.Info("🔁 Change detected, rerunning.")
			if err := onChange(ctx); err != nil {
				// A failing rerun is reported and the loop keeps watching,
				// mirroring how a dev server behaves on a broken edit.
				logger.Error("Rerun failed.", "error", err)
			}
		}
	}
}

// addRecursive registers a directory and everything below it. Non-directory
// and vanished paths are ignored.
func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

// skipEvent filters events that should not trigger a rerun.
func skipEvent(event fsnotify.Event) bool {
	if event.Op.Has(fsnotify.Chmod) {
		return true
	}
	base := filepath.Base(event.Name)
	// Editor swap and backup files churn constantly.
	return strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, ".swx")
}
