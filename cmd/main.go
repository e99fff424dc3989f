package main

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"studyowl/internal/core/cycle"
	"studyowl/internal/core/model"
	"studyowl/internal/hotkeys"
	"studyowl/internal/platform"
	"studyowl/internal/sound"
	"studyowl/internal/storage"
	"studyowl/internal/ui/overlay"
	"studyowl/internal/ui/preferences"
	"studyowl/internal/ui/tray"
)

const appName = "StudyOwl"

func main() {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	settingsPath, err := storage.DefaultSettingsPath(appName)
	if err != nil {
		log.Printf("settings: %v", err)
		return
	}
	store := storage.NewSettingsStore(settingsPath)
	config, err := store.Load()
	if err != nil {
		log.Printf("settings: %v", err)
	}
	if err := config.Validate(); err != nil {
		log.Printf("settings: %v; using defaults", err)
		total := config.TotalStudy
		config = model.Default()
		if total > 0 {
			config.TotalStudy = total
		}
	}

	fyneApp := app.NewWithID("io.studyowl.app")
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		log.Printf("system tray unsupported on this platform")
		return
	}

	logPath, err := storage.DefaultStudyLogPath(appName)
	if err != nil {
		log.Printf("study log: %v", err)
		return
	}
	studyLog := storage.NewStudyLog(logPath)

	player, err := sound.NewPlayer(filepath.Dir(settingsPath), config)
	if err != nil {
		log.Printf("audio resources: %v", err)
		showFatalError(fyneApp, fmt.Sprintf("%v", err))
		return
	}

	engine, err := cycle.New(config, player, studyLog, cycle.Options{})
	if err != nil {
		log.Printf("engine: %v", err)
		return
	}

	// The engine keeps its own copy; this one feeds presentation-side
	// projections and the shutdown save, and follows settings reloads.
	var configMu sync.Mutex
	currentConfig := config
	setCurrentConfig := func(updated model.Config) {
		configMu.Lock()
		currentConfig = updated
		configMu.Unlock()
	}
	getCurrentConfig := func() model.Config {
		configMu.Lock()
		defer configMu.Unlock()
		return currentConfig
	}

	overlayWindow := overlay.New(fyneApp, overlay.Config{})

	var prefsWindow *preferences.Window
	var watcher *storage.SettingsWatcher
	var dispatcher *hotkeys.Dispatcher
	quitCh := make(chan struct{})

	var shutdownOnce sync.Once
	shutdown := func() {
		shutdownOnce.Do(func() {
			close(quitCh)
			if dispatcher != nil {
				dispatcher.Stop()
			}
			if watcher != nil {
				watcher.Stop()
			}
			final := getCurrentConfig()
			final.TotalStudy = engine.Snapshot().Total
			if err := store.Save(final); err != nil {
				log.Printf("settings: save: %v", err)
			}
			engine.Stop()
			player.Close()
			fyneApp.Quit()
		})
	}

	trayManager := tray.New(desktopApp, config.Hotkeys, tray.Callbacks{
		OnStartResume: engine.StartOrResume,
		OnPause:       engine.Pause,
		OnResetCycle:  engine.ResetCycle,
		OnResetAll: func() {
			log.Printf("clearing all accumulated study time (log file kept)")
			engine.ResetAll()
		},
		OnPreferences: func() {
			if prefsWindow != nil {
				prefsWindow.Show()
			}
		},
		OnOpenLogs: func() {
			if err := platform.OpenFolder(filepath.Dir(logPath)); err != nil {
				log.Printf("open log folder: %v", err)
			}
		},
		OnQuit: shutdown,
	})

	prefsWindow = preferences.New(fyneApp, config, func(updated model.Config) {
		if err := engine.UpdateConfig(updated); err != nil {
			log.Printf("preferences: %v", err)
			return
		}
		setCurrentConfig(updated)
		updated.TotalStudy = engine.Snapshot().Total
		if err := store.Save(updated); err != nil {
			log.Printf("preferences: save: %v", err)
		}
	})

	dispatcher = hotkeys.New(config.Hotkeys, hotkeys.Actions{
		OnStartResume: engine.StartOrResume,
		OnPause:       engine.Pause,
		OnResetCycle:  engine.ResetCycle,
	})
	dispatcher.Start()

	watcher, err = storage.NewSettingsWatcher(store, func(updated model.Config) {
		if err := engine.UpdateConfig(updated); err != nil {
			log.Printf("settings reload: %v", err)
			return
		}
		setCurrentConfig(updated)
		fyne.Do(func() {
			prefsWindow.UpdateConfig(updated)
		})
		log.Printf("settings reloaded from %s", settingsPath)
	})
	if err != nil {
		log.Printf("settings watcher: %v", err)
	} else if err := watcher.Start(); err != nil {
		log.Printf("settings watcher: %v", err)
		watcher = nil
	}

	events := engine.Subscribe(8)
	go func() {
		for event := range events {
			event := event
			switch event.Type {
			case cycle.EventStatus:
				fyne.Do(func() {
					overlayWindow.SetStatus(event.Label)
					trayManager.SetStatus(firstLine(event.Label))
				})
			case cycle.EventTotal:
				fyne.Do(func() {
					overlayWindow.SetTotal(event.Total)
				})
			case cycle.EventNotify:
				fyneApp.SendNotification(fyne.NewNotification(event.Title, event.Body))
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-quitCh:
				return
			case <-ticker.C:
				status := engine.Snapshot()
				threshold := getCurrentConfig().LongBreakThreshold
				fyne.Do(func() {
					active := status.Paused || status.Remaining > 0
					overlayWindow.SetRemaining(status.Remaining, active)
					overlayWindow.SetTotal(status.Total)
					trayManager.SetProjection(projectionText(status, threshold))
					trayManager.SetActivity(active, status.Paused)
				})
			}
		}
	}()

	engine.Start()
	overlayWindow.Show()
	fyneApp.Run()
}

// projectionText mirrors the tray's "time until long break" hint: while
// studying, the current interval's remaining time is counted as study
// time still to come.
func projectionText(status cycle.Status, threshold time.Duration) string {
	if status.State == cycle.StateStopped {
		return ""
	}
	if status.Total >= threshold {
		return "Long break is ready"
	}
	until := threshold - status.Total
	if status.State == cycle.StateStudying {
		until -= status.Remaining
	}
	if until < 0 {
		until = 0
	}
	return fmt.Sprintf("Long break in about %d min", int(until.Minutes()))
}

func firstLine(text string) string {
	if index := strings.IndexByte(text, '\n'); index >= 0 {
		return text[:index]
	}
	return text
}

// showFatalError tells the user why startup is refused; missing audio
// cues are fatal rather than a silent degradation.
func showFatalError(fyneApp fyne.App, message string) {
	window := fyneApp.NewWindow(appName + " - resource error")
	window.SetContent(container.NewVBox(
		widget.NewLabel(message),
		widget.NewLabel("Check the sound files referenced by settings.yaml, then restart."),
		widget.NewButton("Quit", func() {
			fyneApp.Quit()
		}),
	))
	window.Show()
	fyneApp.Run()
}
