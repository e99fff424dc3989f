package storage

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"studyowl/internal/core/model"
)

const reloadDebounce = 500 * time.Millisecond

// SettingsWatcher reloads the settings file when it changes on disk and
// hands the result to an on-change callback. Editors replace files with
// rename/create sequences, so the watch is on the directory and events
// are debounced.
type SettingsWatcher struct {
	store    *SettingsStore
	onChange func(model.Config)
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	pending *time.Timer
}

// NewSettingsWatcher creates a watcher for the store's settings file.
func NewSettingsWatcher(store *SettingsStore, onChange func(model.Config)) (*SettingsWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create settings watcher: %w", err)
	}
	return &SettingsWatcher{
		store:    store,
		onChange: onChange,
		watcher:  fsWatcher,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. The settings directory must already exist.
func (watcher *SettingsWatcher) Start() error {
	if err := watcher.watcher.Add(filepath.Dir(watcher.store.Path())); err != nil {
		return fmt.Errorf("watch settings directory: %w", err)
	}
	go watcher.run()
	return nil
}

// Stop ends the watch and releases the underlying watcher.
func (watcher *SettingsWatcher) Stop() {
	watcher.stopOnce.Do(func() {
		close(watcher.stopCh)
		_ = watcher.watcher.Close()

		watcher.mu.Lock()
		if watcher.pending != nil {
			watcher.pending.Stop()
			watcher.pending = nil
		}
		watcher.mu.Unlock()
	})
}

func (watcher *SettingsWatcher) run() {
	target := filepath.Clean(watcher.store.Path())
	for {
		select {
		case <-watcher.stopCh:
			return
		case event, ok := <-watcher.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			watcher.scheduleReload()
		case err, ok := <-watcher.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("settings watcher: %v", err)
		}
	}
}

// scheduleReload coalesces bursts of file events into one reload.
func (watcher *SettingsWatcher) scheduleReload() {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()

	if watcher.pending != nil {
		watcher.pending.Stop()
	}
	watcher.pending = time.AfterFunc(reloadDebounce, watcher.reload)
}

func (watcher *SettingsWatcher) reload() {
	select {
	case <-watcher.stopCh:
		return
	default:
	}

	config, err := watcher.store.Load()
	if err != nil {
		log.Printf("settings watcher: reload: %v", err)
		return
	}
	if watcher.onChange != nil {
		watcher.onChange(config)
	}
}
