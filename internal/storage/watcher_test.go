package storage

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyowl/internal/core/model"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	store := settingsFixture(t)
	_, err := store.Load() // creates the file and its directory
	require.NoError(t, err)

	reloaded := make(chan model.Config, 1)
	watcher, err := NewSettingsWatcher(store, func(config model.Config) {
		select {
		case reloaded <- config:
		default:
		}
	})
	require.NoError(t, err)
	require.NoError(t, watcher.Start())
	defer watcher.Stop()

	updated := model.Default()
	updated.StudyMin = 7 * time.Minute
	updated.StudyMax = 9 * time.Minute
	require.NoError(t, store.Save(updated))

	select {
	case config := <-reloaded:
		assert.Equal(t, 7*time.Minute, config.StudyMin)
		assert.Equal(t, 9*time.Minute, config.StudyMax)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the settings change")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	store := settingsFixture(t)
	_, err := store.Load()
	require.NoError(t, err)

	reloaded := make(chan model.Config, 1)
	watcher, err := NewSettingsWatcher(store, func(config model.Config) {
		select {
		case reloaded <- config:
		default:
		}
	})
	require.NoError(t, err)
	require.NoError(t, watcher.Start())
	defer watcher.Stop()

	other := store.Path() + ".bak"
	require.NoError(t, os.WriteFile(other, []byte("unrelated"), 0o644))

	select {
	case <-reloaded:
		t.Fatal("unrelated file triggered a reload")
	case <-time.After(time.Second):
	}
}
