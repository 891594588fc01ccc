// Package watch feeds files dropped into a directory to the upload
// wizard, the headless counterpart of the drop zone.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Extensions the watcher considers receipt files. Validation proper
// still happens in the wizard; this only filters editor temp files and
// the like out of the event stream.
var watchedExts = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Config holds watcher configuration
type Config struct {
	Dir      string
	Debounce time.Duration
}

// Watcher observes a drop directory and reports settled files
type Watcher struct {
	cfg    Config
	logger *zap.Logger
}

// New creates a watcher for the configured drop directory
func New(cfg Config, logger *zap.Logger) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}
	return &Watcher{cfg: cfg, logger: logger}
}

// Run blocks until the context is cancelled, invoking handle for every
// file that has stopped changing. Writes are debounced per path so a
// slow copy triggers a single upload. Settled paths are funnelled back
// into the event loop, so handle calls never overlap: uploads stay one
// at a time even when several drops settle together.
func (w *Watcher) Run(ctx context.Context, handle func(path string)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(w.cfg.Dir); err != nil {
		return err
	}
	w.logger.Info("Watching for dropped receipts", zap.String("dir", w.cfg.Dir))

	var mu sync.Mutex
	pending := make(map[string]*time.Timer)
	settled := make(chan string, 16)

	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if timer, ok := pending[path]; ok {
			timer.Stop()
		}
		pending[path] = time.AfterFunc(w.cfg.Debounce, func() {
			mu.Lock()
			delete(pending, path)
			mu.Unlock()
			select {
			case settled <- path:
			case <-ctx.Done():
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			for _, timer := range pending {
				timer.Stop()
			}
			mu.Unlock()
			return ctx.Err()

		case path := <-settled:
			handle(path)

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !watchedExts[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}
			schedule(event.Name)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", zap.Error(err))
		}
	}
}
