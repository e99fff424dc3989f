package schedule

import (
	"sync"
	"time"
)

// Countdown is a cancelable single-shot timer. At most one countdown is
// pending at a time; starting a new one replaces the previous.
type Countdown interface {
	// Start schedules fire after duration, replacing any pending countdown.
	Start(duration time.Duration, fire func())
	// Stop cancels the pending countdown and returns the time that was
	// still remaining, or zero if nothing was pending.
	Stop() time.Duration
	// Remaining reports the time left on the pending countdown.
	Remaining() time.Duration
	// Active reports whether a countdown is pending.
	Active() bool
}

// timerCountdown implements Countdown on a time.Timer.
type timerCountdown struct {
	mu       sync.Mutex
	timer    *time.Timer
	deadline time.Time
	active   bool
}

// NewCountdown returns a Countdown backed by the wall clock.
func NewCountdown() Countdown {
	return &timerCountdown{}
}

func (countdown *timerCountdown) Start(duration time.Duration, fire func()) {
	if duration < 0 {
		duration = 0
	}

	countdown.mu.Lock()
	defer countdown.mu.Unlock()

	countdown.stopLocked()
	countdown.deadline = time.Now().Add(duration)
	countdown.active = true
	countdown.timer = time.AfterFunc(duration, func() {
		countdown.mu.Lock()
		countdown.active = false
		countdown.mu.Unlock()
		fire()
	})
}

func (countdown *timerCountdown) Stop() time.Duration {
	countdown.mu.Lock()
	defer countdown.mu.Unlock()

	if !countdown.active {
		return 0
	}
	remaining := time.Until(countdown.deadline)
	if remaining < 0 {
		remaining = 0
	}
	countdown.stopLocked()
	return remaining
}

func (countdown *timerCountdown) Remaining() time.Duration {
	countdown.mu.Lock()
	defer countdown.mu.Unlock()

	if !countdown.active {
		return 0
	}
	remaining := time.Until(countdown.deadline)
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

func (countdown *timerCountdown) Active() bool {
	countdown.mu.Lock()
	defer countdown.mu.Unlock()
	return countdown.active
}

func (countdown *timerCountdown) stopLocked() {
	if countdown.timer != nil {
		countdown.timer.Stop()
		countdown.timer = nil
	}
	countdown.active = false
}
