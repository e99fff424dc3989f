package cycle

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"studyowl/internal/core/model"
	"studyowl/internal/core/schedule"
)

// CuePlayer plays a named audio cue. Playback is fire-and-forget; the
// player reports its own failures.
type CuePlayer interface {
	Play(key model.CueKey)
}

// SessionRecorder persists one completed study session. It is invoked
// at most once per completed study interval and must not fail the engine.
type SessionRecorder interface {
	Record(start, end time.Time, net time.Duration)
}

// Options contains injectable collaborators, mainly for tests.
type Options struct {
	Countdown schedule.Countdown
	Now       func() time.Time
	RandIntN  func(n int) int
}

// session tracks an in-progress study interval. It exists only while
// studying and is never partially logged.
type session struct {
	start   time.Time
	planned time.Duration
}

type commandKind int

const (
	cmdStartResume commandKind = iota
	cmdPause
	cmdResetCycle
	cmdResetAll
	cmdTimeout
	cmdUpdateConfig
	cmdSnapshot
)

type command struct {
	kind       commandKind
	generation uint64
	config     model.Config
	reply      chan Status
}

// Engine drives the study/break cycle. All state lives on a single
// run-loop goroutine; public methods enqueue commands onto that loop,
// so callers (UI, hotkey listener, countdown expiry) never touch engine
// state from their own context.
type Engine struct {
	cues      CuePlayer
	recorder  SessionRecorder
	countdown schedule.Countdown
	now       func() time.Time
	randIntN  func(n int) int

	commands chan command
	stopCh   chan struct{}
	stopOnce sync.Once

	mu          sync.Mutex
	subscribers []chan Event
	running     bool

	// Owned by the run loop.
	config          model.Config
	state           State
	paused          bool
	pausedRemaining time.Duration
	cycleCount      int
	total           time.Duration
	active          session
	generation      uint64
}

// New creates an Engine with the provided configuration and collaborators.
func New(config model.Config, cues CuePlayer, recorder SessionRecorder, options Options) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("cycle config: %w", err)
	}
	if cues == nil {
		return nil, fmt.Errorf("cycle: cue player is required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("cycle: session recorder is required")
	}

	if options.Countdown == nil {
		options.Countdown = schedule.NewCountdown()
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.RandIntN == nil {
		random := rand.New(rand.NewSource(time.Now().UnixNano()))
		options.RandIntN = random.Intn
	}

	return &Engine{
		cues:      cues,
		recorder:  recorder,
		countdown: options.Countdown,
		now:       options.Now,
		randIntN:  options.RandIntN,
		commands:  make(chan command, 16),
		stopCh:    make(chan struct{}),
		config:    config,
		state:     StateStopped,
		total:     config.TotalStudy,
	}, nil
}

// Subscribe registers a new observer channel.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	engine.subscribers = append(engine.subscribers, ch)
	engine.mu.Unlock()
	return ch
}

// Start launches the run loop and publishes the initial stopped status.
func (engine *Engine) Start() {
	engine.mu.Lock()
	if engine.running {
		engine.mu.Unlock()
		return
	}
	engine.running = true
	engine.mu.Unlock()

	go engine.run()
	engine.enqueue(command{kind: cmdResetCycle})
}

// Stop terminates the run loop, cancels any countdown and closes observers.
func (engine *Engine) Stop() {
	engine.stopOnce.Do(func() {
		engine.countdown.Stop()
		close(engine.stopCh)

		engine.mu.Lock()
		engine.running = false
		subscribers := engine.subscribers
		engine.subscribers = nil
		engine.mu.Unlock()

		for _, ch := range subscribers {
			close(ch)
		}
	})
}

// StartOrResume starts a new cycle from Stopped or LongBreakFinished,
// or resumes a paused countdown with its captured remaining time.
func (engine *Engine) StartOrResume() {
	engine.enqueue(command{kind: cmdStartResume})
}

// Pause captures the remaining countdown time and freezes the cycle.
func (engine *Engine) Pause() {
	engine.enqueue(command{kind: cmdPause})
}

// ResetCycle discards any in-progress session and returns to Stopped.
func (engine *Engine) ResetCycle() {
	engine.enqueue(command{kind: cmdResetCycle})
}

// ResetAll zeroes the accumulated study total, then resets the cycle.
func (engine *Engine) ResetAll() {
	engine.enqueue(command{kind: cmdResetAll})
}

// UpdateConfig swaps the runtime configuration. The accumulated total is
// kept; interval changes take effect from the next scheduled interval.
func (engine *Engine) UpdateConfig(config model.Config) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("cycle config: %w", err)
	}
	engine.enqueue(command{kind: cmdUpdateConfig, config: config})
	return nil
}

// Snapshot returns the engine status as seen by the run loop. It returns
// a zero Status after Stop.
func (engine *Engine) Snapshot() Status {
	reply := make(chan Status, 1)
	select {
	case engine.commands <- command{kind: cmdSnapshot, reply: reply}:
	case <-engine.stopCh:
		return Status{}
	}
	select {
	case status := <-reply:
		return status
	case <-engine.stopCh:
		return Status{}
	}
}

func (engine *Engine) enqueue(cmd command) {
	select {
	case engine.commands <- cmd:
	case <-engine.stopCh:
	}
}

func (engine *Engine) run() {
	for {
		select {
		case <-engine.stopCh:
			return
		case cmd := <-engine.commands:
			engine.handle(cmd)
		}
	}
}

func (engine *Engine) handle(cmd command) {
	switch cmd.kind {
	case cmdStartResume:
		engine.startOrResume()
	case cmdPause:
		engine.pause()
	case cmdResetCycle:
		engine.resetCycle()
	case cmdResetAll:
		engine.total = 0
		engine.resetCycle()
	case cmdTimeout:
		// A countdown superseded by pause, reset or reconfigure must not
		// fire against the current state.
		if cmd.generation == engine.generation && !engine.paused {
			engine.timeout()
		}
	case cmdUpdateConfig:
		cmd.config.TotalStudy = engine.total
		engine.config = cmd.config
	case cmdSnapshot:
		cmd.reply <- engine.status()
	}
}

func (engine *Engine) startOrResume() {
	if engine.paused {
		engine.resume()
		return
	}
	if engine.state != StateStopped && engine.state != StateLongBreakFinished {
		return
	}
	if engine.state == StateLongBreakFinished {
		engine.resetCycle()
	}
	if engine.total >= engine.config.LongBreakThreshold {
		engine.beginLongBreak()
	} else {
		engine.beginStudy()
	}
}

func (engine *Engine) resume() {
	engine.paused = false
	engine.schedule(engine.pausedRemaining)
	engine.pausedRemaining = 0
	engine.emitStatus()
}

func (engine *Engine) pause() {
	if engine.paused || !engine.countdown.Active() {
		return
	}
	engine.pausedRemaining = engine.countdown.Stop()
	engine.generation++
	engine.paused = true
	engine.emit(Event{Type: EventStatus, State: engine.state, Label: "Paused", At: engine.now()})
}

func (engine *Engine) resetCycle() {
	engine.generation++
	engine.countdown.Stop()
	engine.cycleCount = 0
	engine.state = StateStopped
	engine.paused = false
	engine.pausedRemaining = 0
	engine.active = session{}
	engine.emitStatus()
	engine.emitTotal()
}

func (engine *Engine) timeout() {
	switch engine.state {
	case StateStudying:
		planned := engine.active.planned
		if !engine.active.start.IsZero() && planned > 0 {
			engine.recorder.Record(engine.active.start, engine.now(), planned)
		}
		engine.active = session{}
		engine.total += planned
		engine.beginShortBreak()

	case StateShortBreaking:
		if engine.total >= engine.config.LongBreakThreshold {
			engine.beginLongBreak()
		} else {
			engine.beginStudy()
		}

	case StateLongBreaking:
		engine.cues.Play(model.CueEndLongBreak)
		engine.state = StateLongBreakFinished
		engine.emitStatus()
		engine.emit(Event{
			Type:  EventNotify,
			State: engine.state,
			Title: "Long break over",
			Body:  "Recharged. Ready for the next study round.",
			At:    engine.now(),
		})
	}
}

func (engine *Engine) beginStudy() {
	engine.cycleCount++
	engine.state = StateStudying
	duration := engine.pickStudyDuration()
	engine.active = session{start: engine.now(), planned: duration}
	engine.emitStatus()
	engine.cues.Play(model.CueStartStudy)
	engine.schedule(duration)
}

func (engine *Engine) beginShortBreak() {
	engine.state = StateShortBreaking
	engine.emitStatus()
	engine.emitTotal()
	engine.cues.Play(model.CueStartShortBreak)
	engine.schedule(engine.config.ShortBreakDuration)
}

func (engine *Engine) beginLongBreak() {
	engine.state = StateLongBreaking
	engine.emitStatus()
	engine.emitTotal()
	engine.cues.Play(model.CueStartLongBreak)
	engine.schedule(engine.config.LongBreakDuration)
}

// pickStudyDuration draws a whole-second duration uniformly from the
// configured [lower, upper] bounds, inclusive.
func (engine *Engine) pickStudyDuration() time.Duration {
	lower := int(engine.config.StudyMin / time.Second)
	upper := int(engine.config.StudyMax / time.Second)
	span := upper - lower + 1
	if span < 1 {
		span = 1
	}
	return time.Duration(lower+engine.randIntN(span)) * time.Second
}

func (engine *Engine) schedule(duration time.Duration) {
	engine.generation++
	generation := engine.generation
	engine.countdown.Start(duration, func() {
		engine.enqueue(command{kind: cmdTimeout, generation: generation})
	})
}

func (engine *Engine) status() Status {
	remaining := engine.pausedRemaining
	if !engine.paused {
		remaining = engine.countdown.Remaining()
	}
	return Status{
		State:     engine.state,
		Paused:    engine.paused,
		Remaining: remaining,
		Total:     engine.total,
		Cycle:     engine.cycleCount,
	}
}

func (engine *Engine) emitStatus() {
	engine.emit(Event{
		Type:  EventStatus,
		State: engine.state,
		Label: statusLabel(engine.state, engine.cycleCount),
		At:    engine.now(),
	})
}

func (engine *Engine) emitTotal() {
	engine.emit(Event{Type: EventTotal, State: engine.state, Total: engine.total, At: engine.now()})
}

func (engine *Engine) emit(event Event) {
	engine.mu.Lock()
	subscribers := append([]chan Event(nil), engine.subscribers...)
	engine.mu.Unlock()
	for _, ch := range subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

func statusLabel(state State, cycleCount int) string {
	switch state {
	case StateStudying:
		return fmt.Sprintf("Studying...\n(round %d)", cycleCount)
	case StateShortBreaking:
		return "Short break..."
	case StateLongBreaking:
		return "Long break..."
	case StateLongBreakFinished:
		return "Long break over\nStart a fresh round"
	default:
		return "Immersive study\nUse the tray menu to begin"
	}
}
