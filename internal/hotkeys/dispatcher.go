package hotkeys

import (
	"log"
	"strings"
	"sync"

	"golang.design/x/hotkey"

	"studyowl/internal/core/model"
)

// Actions holds the handlers the dispatcher forwards trigger events to.
// Handlers run on the listener context and must only hand off opaque
// signals (the engine methods enqueue onto its own loop).
type Actions struct {
	OnStartResume func()
	OnPause       func()
	OnResetCycle  func()
}

type binding struct {
	action model.Action
	hk     *hotkey.Hotkey
	handle func()
}

// Dispatcher registers global hotkeys for the configured actions.
// Registration is all-or-nothing: if any configured combination fails to
// parse or register, every already-registered hotkey is released and the
// dispatcher stays inactive.
type Dispatcher struct {
	combos  map[model.Action]string
	actions Actions

	mu       sync.Mutex
	bindings []*binding
	stopCh   chan struct{}
	active   bool
}

// New creates a dispatcher for the given action→combination mapping.
func New(combos map[model.Action]string, actions Actions) *Dispatcher {
	return &Dispatcher{combos: combos, actions: actions}
}

// Start registers every action with a non-empty combination. Actions
// without a combination are skipped silently.
func (dispatcher *Dispatcher) Start() {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()

	if dispatcher.active {
		return
	}

	wanted := []struct {
		action model.Action
		handle func()
	}{
		{model.ActionStartResume, dispatcher.actions.OnStartResume},
		{model.ActionPause, dispatcher.actions.OnPause},
		{model.ActionResetCycle, dispatcher.actions.OnResetCycle},
	}

	var bindings []*binding
	for _, entry := range wanted {
		combo := strings.TrimSpace(dispatcher.combos[entry.action])
		if combo == "" || entry.handle == nil {
			continue
		}
		modifiers, key, err := ParseCombo(combo)
		if err != nil {
			log.Printf("hotkeys: %s %q: %v; hotkeys disabled", entry.action, combo, err)
			releaseAll(bindings)
			return
		}
		hk := hotkey.New(modifiers, key)
		if err := hk.Register(); err != nil {
			log.Printf("hotkeys: register %s %q: %v; hotkeys disabled", entry.action, combo, err)
			releaseAll(bindings)
			return
		}
		bindings = append(bindings, &binding{action: entry.action, hk: hk, handle: entry.handle})
	}

	if len(bindings) == 0 {
		log.Printf("hotkeys: no combinations configured")
		return
	}

	dispatcher.bindings = bindings
	dispatcher.stopCh = make(chan struct{})
	dispatcher.active = true
	for _, bound := range bindings {
		go dispatcher.listen(bound)
	}
	log.Printf("hotkeys: %d registered", len(bindings))
}

// Stop releases all registrations.
func (dispatcher *Dispatcher) Stop() {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()

	if !dispatcher.active {
		return
	}
	close(dispatcher.stopCh)
	releaseAll(dispatcher.bindings)
	dispatcher.bindings = nil
	dispatcher.active = false
}

func (dispatcher *Dispatcher) listen(bound *binding) {
	for {
		select {
		case <-dispatcher.stopCh:
			return
		case _, ok := <-bound.hk.Keydown():
			if !ok {
				return
			}
			bound.handle()
		}
	}
}

func releaseAll(bindings []*binding) {
	for _, bound := range bindings {
		bound.hk.Unregister()
	}
}
