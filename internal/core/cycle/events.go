package cycle

import "time"

// State represents the current cycle mode.
type State string

const (
	StateStopped           State = "stopped"
	StateStudying          State = "studying"
	StateShortBreaking     State = "short_breaking"
	StateLongBreaking      State = "long_breaking"
	StateLongBreakFinished State = "long_break_finished"
)

// EventType defines the type of engine event.
type EventType string

const (
	// EventStatus carries a human-readable status label and the state tag.
	EventStatus EventType = "status"
	// EventTotal carries the accumulated study total.
	EventTotal EventType = "total"
	// EventNotify requests a user-facing notification.
	EventNotify EventType = "notification"
)

// Event represents an engine update for observers.
type Event struct {
	Type  EventType
	State State
	Label string
	Total time.Duration
	Title string
	Body  string
	At    time.Time
}

// Status is a point-in-time view of the engine for presentation layers.
// Remaining is the time left on the pending countdown, or the captured
// remaining time while paused.
type Status struct {
	State     State
	Paused    bool
	Remaining time.Duration
	Total     time.Duration
	Cycle     int
}
