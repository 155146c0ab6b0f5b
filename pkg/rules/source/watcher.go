package source

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig contains configuration for the group file watcher.
type WatcherConfig struct {
	// DebounceInterval is how long to wait after the last filesystem event
	// before reloading, to absorb editor write bursts.
	// Default: 100ms.
	DebounceInterval time.Duration

	// Extensions lists the file extensions that trigger a reload.
	// Default: .yaml, .yml.
	Extensions []string
}

// DefaultWatcherConfig returns the default watcher configuration.
func DefaultWatcherConfig() *WatcherConfig {
	return &WatcherConfig{
		DebounceInterval: 100 * time.Millisecond,
		Extensions:       []string{".yaml", ".yml"},
	}
}

// Watcher reloads a FileSource when its files change on disk.
type Watcher struct {
	source  *FileSource
	config  *WatcherConfig
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

// NewWatcher creates a watcher over the given file source.
func NewWatcher(source *FileSource, config *WatcherConfig) (*Watcher, error) {
	if config == nil {
		config = DefaultWatcherConfig()
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = 100 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Watcher{
		source:  source,
		config:  config,
		watcher: fsw,
		logger:  slog.Default().With("component", "rules.source.watcher"),
	}, nil
}

// Watch blocks until the context is cancelled, reloading the source after
// each debounced burst of filesystem events.
func (w *Watcher) Watch(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.watcher.Add(w.source.path); err != nil {
		return fmt.Errorf("watch %q: %w", w.source.path, err)
	}

	w.logger.Info("rule file watcher started",
		"path", w.source.path,
		"debounce_ms", w.config.DebounceInterval.Milliseconds(),
	)

	var debounce *time.Timer
	var reloadCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("rule file watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("rule file changed",
				"path", event.Name,
				"op", event.Op.String(),
			)
			if debounce == nil {
				debounce = time.NewTimer(w.config.DebounceInterval)
				reloadCh = debounce.C
			} else {
				debounce.Reset(w.config.DebounceInterval)
			}

		case <-reloadCh:
			debounce = nil
			reloadCh = nil
			if err := w.source.Reload(); err != nil {
				w.logger.Error("rule group reload failed", "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("rule file watcher error", "error", err)
		}
	}
}

// relevant filters events down to writes of watched extensions.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	for _, allowed := range w.config.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
