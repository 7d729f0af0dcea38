package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces rapid successive writes (editors often emit
// several events per save) into a single reload.
const reloadDebounce = 500 * time.Millisecond

// Manager holds a hot-reloadable configuration. Readers call Current and
// always see a complete, validated snapshot.
type Manager struct {
	path    string
	current atomic.Pointer[Config]
	logger  *slog.Logger

	watcher *fsnotify.Watcher
	done    chan struct{}

	mu       sync.Mutex
	onChange []func(*Config)
	pending  *time.Timer
	closed   bool
}

// NewManager loads the configuration at path and starts watching it for
// changes.
func NewManager(path string, logger *slog.Logger) (*Manager, error) {
	cfg, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory rather than the file: editors that replace the
	// file on save (rename + create) would otherwise drop the watch.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch config dir: %w", err)
	}

	m := &Manager{
		path:    path,
		logger:  logger,
		watcher: watcher,
		done:    make(chan struct{}),
	}
	m.current.Store(cfg)

	go m.watch()
	return m, nil
}

// Current returns the active configuration snapshot.
func (m *Manager) Current() *Config {
	return m.current.Load()
}

// OnChange registers a callback invoked after each successful reload.
func (m *Manager) OnChange(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}

// Close stops the file watcher.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	if m.pending != nil {
		m.pending.Stop()
	}
	m.mu.Unlock()

	close(m.done)
	return m.watcher.Close()
}

func (m *Manager) watch() {
	target := filepath.Clean(m.path)
	for {
		select {
		case <-m.done:
			return
		case ev, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			m.scheduleReload()
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.logger.Warn("config watcher error", "error", err)
		}
	}
}

func (m *Manager) scheduleReload() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	if m.pending != nil {
		m.pending.Stop()
	}
	m.pending = time.AfterFunc(reloadDebounce, m.reload)
}

func (m *Manager) reload() {
	cfg, err := LoadFromFile(m.path)
	if err != nil {
		// Keep the previous snapshot when the new file is invalid.
		m.logger.Error("config reload failed", "path", m.path, "error", err)
		return
	}

	m.current.Store(cfg)
	m.logger.Info("config reloaded", "path", m.path)

	m.mu.Lock()
	callbacks := make([]func(*Config), len(m.onChange))
	copy(callbacks, m.onChange)
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}
}
