package host

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docimages/internal/foundation/errors"
	"git.home.luguber.info/inful/docimages/internal/logfields"
)

// DefaultDebounce is the quiet period after the last change before a rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// RebuildFunc performs one build. Errors are logged and watching continues.
type RebuildFunc func(ctx context.Context) error

// Watch calls rebuild whenever files below dir change until ctx is done.
// Directories starting with "_" or "." are not watched, so downloaded images
// in the cache directory do not retrigger builds.
func Watch(ctx context.Context, dir string, debounce time.Duration, logger *slog.Logger, rebuild RebuildFunc) error {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create file watcher").Build()
	}
	defer func() {
		_ = watcher.Close()
	}()
	addDirsRecursive(watcher, dir, logger)
	logger.Info("Watching for changes", logfields.Path(dir))

	rebuildReq, trigger := newDebouncer(debounce)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ignoreEvent(dir, ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					addDirsRecursive(watcher, ev.Name, logger)
				}
			}
			logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", logfields.Error(err))
		case <-rebuildReq:
			logger.Info("Change detected; rebuilding")
			if err := rebuild(ctx); err != nil {
				logger.Warn("Rebuild failed", logfields.Error(err))
			}
		}
	}
}

// newDebouncer returns a channel that receives once per burst of trigger calls.
func newDebouncer(d time.Duration) (<-chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	return req, trigger
}

func addDirsRecursive(w *fsnotify.Watcher, root string, logger *slog.Logger) {
	_ = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if p != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.Add(p); err != nil {
			logger.Warn("Watch add failed", logfields.Path(p), logfields.Error(err))
		}
		return nil
	})
}

// ignoreEvent filters hidden, underscore and editor temporary files.
func ignoreEvent(root, name string) bool {
	rel, err := filepath.Rel(root, name)
	if err != nil {
		rel = name
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part != ".." && skipDir(part) {
			return true
		}
	}
	base := filepath.Base(name)
	return strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")
}
