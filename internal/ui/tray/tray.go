package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"studyowl/internal/core/model"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStartResume func()
	OnPause       func()
	OnResetCycle  func()
	OnResetAll    func()
	OnPreferences func()
	OnOpenLogs    func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	callbacks  Callbacks
	hotkeyHint map[model.Action]string

	statusItem     *fyne.MenuItem
	projectionItem *fyne.MenuItem
	startItem      *fyne.MenuItem
	pauseItem      *fyne.MenuItem

	statusLabel string
}

// New creates a tray manager with the provided callbacks. Hotkey hints
// are appended to the matching menu items.
func New(app desktop.App, hints map[model.Action]string, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:        app,
		callbacks:  callbacks,
		hotkeyHint: hints,
	}

	manager.statusItem = fyne.NewMenuItem("Status: stopped", nil)
	manager.statusItem.Disabled = true

	manager.projectionItem = fyne.NewMenuItem("", nil)
	manager.projectionItem.Disabled = true

	manager.startItem = fyne.NewMenuItem(manager.withHint("Start / Resume", model.ActionStartResume), func() {
		if manager.callbacks.OnStartResume != nil {
			manager.callbacks.OnStartResume()
		}
	})
	manager.pauseItem = fyne.NewMenuItem(manager.withHint("Pause", model.ActionPause), func() {
		if manager.callbacks.OnPause != nil {
			manager.callbacks.OnPause()
		}
	})
	manager.pauseItem.Disabled = true

	manager.refreshMenu()
	return manager
}

// SetStatus updates the status line.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

// SetProjection updates the time-until-long-break line; empty hides it.
func (manager *Manager) SetProjection(text string) {
	if manager.projectionItem.Label == text {
		return
	}
	manager.projectionItem.Label = text
	manager.refreshMenu()
}

// SetActivity toggles start/pause availability from the engine status.
func (manager *Manager) SetActivity(running, paused bool) {
	startDisabled := running && !paused
	pauseDisabled := !running || paused
	if manager.startItem.Disabled == startDisabled && manager.pauseItem.Disabled == pauseDisabled {
		return
	}
	manager.startItem.Disabled = startDisabled
	manager.pauseItem.Disabled = pauseDisabled
	manager.refreshMenu()
}

func (manager *Manager) withHint(label string, action model.Action) string {
	if hint := manager.hotkeyHint[action]; hint != "" {
		return fmt.Sprintf("%s  (%s)", label, hint)
	}
	return label
}

func (manager *Manager) refreshMenu() {
	resetItem := fyne.NewMenuItem(manager.withHint("Reset current cycle", model.ActionResetCycle), func() {
		if manager.callbacks.OnResetCycle != nil {
			manager.callbacks.OnResetCycle()
		}
	})
	clearItem := fyne.NewMenuItem("Clear all records", func() {
		if manager.callbacks.OnResetAll != nil {
			manager.callbacks.OnResetAll()
		}
	})

	items := []*fyne.MenuItem{
		manager.statusItem,
	}
	if manager.projectionItem.Label != "" {
		items = append(items, manager.projectionItem)
	}
	items = append(items,
		fyne.NewMenuItemSeparator(),
		manager.startItem,
		manager.pauseItem,
		resetItem,
		clearItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItem("Open log folder", func() {
			if manager.callbacks.OnOpenLogs != nil {
				manager.callbacks.OnOpenLogs()
			}
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	)
	manager.app.SetSystemTrayMenu(fyne.NewMenu("StudyOwl", items...))
}
