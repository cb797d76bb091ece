package overlay

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// DefaultDebounce is how long to wait for more writes before reloading
	DefaultDebounce = 250 * time.Millisecond

	reloadChannelBuffer = 16
)

// ReloadEvent reports one reload of a watched edit set
type ReloadEvent struct {
	Path  string
	Edits *MapEdits
	Err   error
}

// Watcher reloads a persisted edit set into an overlay when the file changes
type Watcher struct {
	path     string
	overlay  *Overlay
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	pendingMu sync.Mutex
	pending   bool

	events chan ReloadEvent
}

// NewWatcher creates a watcher for the edit set at path. The overlay may be
// nil, in which case reloads are only reported.
func NewWatcher(path string, overlay *Overlay, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     filepath.Clean(path),
		overlay:  overlay,
		debounce: debounce,
		watcher:  fsw,
		logger:   logger,
		events:   make(chan ReloadEvent, reloadChannelBuffer),
	}, nil
}

// Events returns the channel of reloads. It is closed when the watcher stops.
func (w *Watcher) Events() <-chan ReloadEvent {
	return w.events
}

// Start watches the directory holding the edit set. Editors often replace
// files rather than write them in place, so the file itself is not watched.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	go w.processEvents(ctx)

	w.logger.Info("Edits watcher started",
		"path", w.path,
		"debounce", w.debounce)
	return nil
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	w.pendingMu.Lock()
	w.pending = true
	w.pendingMu.Unlock()

	w.logger.Debug("Edits change detected", "path", w.path, "op", event.Op.String())
}

func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if !w.pending {
		w.pendingMu.Unlock()
		return
	}
	w.pending = false
	w.pendingMu.Unlock()

	event := ReloadEvent{Path: w.path}
	edits, err := Load(w.path)
	if err != nil {
		w.logger.Warn("Failed to reload edits", "path", w.path, "error", err)
		event.Err = err
	} else {
		event.Edits = edits
		if w.overlay != nil {
			w.overlay.ReplaceEdits(edits)
		}
		w.logger.Info("Edits reloaded", "path", w.path, "summary", edits.Describe())
	}

	select {
	case w.events <- event:
	case <-ctx.Done():
	default:
		w.logger.Warn("Reload event dropped", "path", w.path)
	}
}
