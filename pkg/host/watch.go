package host

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	pkgio "github.com/matzehuels/flowtower/pkg/io"
)

// WatchDebounce is the quiet period after the last file event before a
// document is reloaded.
const WatchDebounce = 100 * time.Millisecond

// Watch calls fn with the document at path every time the file settles after
// a change. It blocks until ctx is done. Documents that fail to load are
// logged and skipped, so a half-saved file never reaches fn.
//
// The parent directory is watched rather than the file itself, which keeps
// working across editors that save by renaming over the original.
func Watch(ctx context.Context, path string, logger *log.Logger, fn func(*pkgio.Document)) error {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	debounce := time.NewTimer(WatchDebounce)
	debounce.Stop()
	defer debounce.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			pending = true
			debounce.Reset(WatchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			doc, err := pkgio.Import(abs)
			if err != nil {
				logger.Warn("reload failed", "path", path, "err", err)
				continue
			}
			logger.Info("reloaded", "path", path, "nodes", len(doc.Nodes), "edges", len(doc.Edges))
			fn(doc)
		}
	}
}
