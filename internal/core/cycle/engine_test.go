package cycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyowl/internal/core/model"
)

// fakeCountdown stands in for the timer so tests control expiry.
type fakeCountdown struct {
	activeFlag bool
	scheduled  time.Duration
	remaining  time.Duration
	fire       func()
}

func (countdown *fakeCountdown) Start(duration time.Duration, fire func()) {
	countdown.activeFlag = true
	countdown.scheduled = duration
	countdown.remaining = duration
	countdown.fire = fire
}

func (countdown *fakeCountdown) Stop() time.Duration {
	if !countdown.activeFlag {
		return 0
	}
	countdown.activeFlag = false
	return countdown.remaining
}

func (countdown *fakeCountdown) Remaining() time.Duration {
	if !countdown.activeFlag {
		return 0
	}
	return countdown.remaining
}

func (countdown *fakeCountdown) Active() bool {
	return countdown.activeFlag
}

type cueRecorder struct {
	played []model.CueKey
}

func (cues *cueRecorder) Play(key model.CueKey) {
	cues.played = append(cues.played, key)
}

type loggedSession struct {
	start time.Time
	end   time.Time
	net   time.Duration
}

type logRecorder struct {
	entries []loggedSession
}

func (recorder *logRecorder) Record(start, end time.Time, net time.Duration) {
	recorder.entries = append(recorder.entries, loggedSession{start: start, end: end, net: net})
}

// harness drives the engine synchronously: public methods enqueue
// commands and pump() processes them in place of the run loop.
type harness struct {
	t         *testing.T
	engine    *Engine
	countdown *fakeCountdown
	cues      *cueRecorder
	recorder  *logRecorder
	now       time.Time
}

func newHarness(t *testing.T, config model.Config) *harness {
	t.Helper()
	testHarness := &harness{
		t:         t,
		countdown: &fakeCountdown{},
		cues:      &cueRecorder{},
		recorder:  &logRecorder{},
		now:       time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	engine, err := New(config, testHarness.cues, testHarness.recorder, Options{
		Countdown: testHarness.countdown,
		Now:       func() time.Time { return testHarness.now },
		RandIntN:  func(n int) int { return 0 },
	})
	require.NoError(t, err)
	testHarness.engine = engine
	return testHarness
}

func (testHarness *harness) pump() {
	for {
		select {
		case cmd := <-testHarness.engine.commands:
			testHarness.engine.handle(cmd)
		default:
			return
		}
	}
}

// expire simulates the countdown reaching zero.
func (testHarness *harness) expire() {
	require.True(testHarness.t, testHarness.countdown.activeFlag, "no countdown pending")
	testHarness.now = testHarness.now.Add(testHarness.countdown.remaining)
	testHarness.countdown.activeFlag = false
	testHarness.countdown.fire()
	testHarness.pump()
}

func testConfig() model.Config {
	config := model.Default()
	config.StudyMin = 500 * time.Second
	config.StudyMax = 500 * time.Second
	config.ShortBreakDuration = 10 * time.Second
	config.LongBreakThreshold = 5400 * time.Second
	config.LongBreakDuration = 30 * time.Second
	config.TotalStudy = 0
	return config
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	config := testConfig()
	config.StudyMin = 10 * time.Minute
	config.StudyMax = 5 * time.Minute

	_, err := New(config, &cueRecorder{}, &logRecorder{}, Options{})
	require.Error(t, err)
}

func TestStudyDurationStaysWithinBounds(t *testing.T) {
	config := testConfig()
	config.StudyMin = 60 * time.Second
	config.StudyMax = 120 * time.Second

	countdown := &fakeCountdown{}
	engine, err := New(config, &cueRecorder{}, &logRecorder{}, Options{Countdown: countdown})
	require.NoError(t, err)

	for i := 0; i < 500; i++ {
		duration := engine.pickStudyDuration()
		assert.GreaterOrEqual(t, duration, config.StudyMin)
		assert.LessOrEqual(t, duration, config.StudyMax)
		assert.Zero(t, duration%time.Second)
	}
}

func TestCompletedStudyIntervalLogsAndAccumulates(t *testing.T) {
	testHarness := newHarness(t, testConfig())
	start := testHarness.now

	testHarness.engine.StartOrResume()
	testHarness.pump()

	assert.Equal(t, StateStudying, testHarness.engine.state)
	assert.Equal(t, 1, testHarness.engine.cycleCount)
	assert.Equal(t, 500*time.Second, testHarness.countdown.scheduled)
	assert.Equal(t, []model.CueKey{model.CueStartStudy}, testHarness.cues.played)

	testHarness.expire()

	assert.Equal(t, StateShortBreaking, testHarness.engine.state)
	assert.Equal(t, 500*time.Second, testHarness.engine.total)
	assert.Equal(t, 10*time.Second, testHarness.countdown.scheduled)
	require.Len(t, testHarness.recorder.entries, 1)
	entry := testHarness.recorder.entries[0]
	assert.Equal(t, start, entry.start)
	assert.Equal(t, start.Add(500*time.Second), entry.end)
	assert.Equal(t, 500*time.Second, entry.net)
}

func TestPauseResumeKeepsPlannedDuration(t *testing.T) {
	testHarness := newHarness(t, testConfig())

	testHarness.engine.StartOrResume()
	testHarness.pump()

	// Partway through the interval.
	testHarness.countdown.remaining = 200 * time.Second
	testHarness.engine.Pause()
	testHarness.pump()

	assert.True(t, testHarness.engine.paused)
	assert.False(t, testHarness.countdown.Active())
	assert.Equal(t, 200*time.Second, testHarness.engine.pausedRemaining)

	testHarness.engine.StartOrResume()
	testHarness.pump()

	assert.False(t, testHarness.engine.paused)
	assert.Equal(t, 200*time.Second, testHarness.countdown.scheduled)

	testHarness.expire()

	// One entry, for the originally planned duration.
	require.Len(t, testHarness.recorder.entries, 1)
	assert.Equal(t, 500*time.Second, testHarness.recorder.entries[0].net)
	assert.Equal(t, 500*time.Second, testHarness.engine.total)
}

func TestPauseWithoutCountdownIsNoop(t *testing.T) {
	testHarness := newHarness(t, testConfig())

	testHarness.engine.Pause()
	testHarness.pump()

	assert.False(t, testHarness.engine.paused)
	assert.Equal(t, StateStopped, testHarness.engine.state)
}

func TestResetCycleDiscardsSession(t *testing.T) {
	testHarness := newHarness(t, testConfig())

	testHarness.engine.StartOrResume()
	testHarness.pump()
	staleFire := testHarness.countdown.fire

	testHarness.engine.ResetCycle()
	testHarness.pump()

	assert.Equal(t, StateStopped, testHarness.engine.state)
	assert.False(t, testHarness.countdown.Active())
	assert.Empty(t, testHarness.recorder.entries)
	assert.Zero(t, testHarness.engine.total)

	// A countdown cancelled by the reset must not fire late.
	staleFire()
	testHarness.pump()

	assert.Equal(t, StateStopped, testHarness.engine.state)
	assert.Empty(t, testHarness.recorder.entries)
}

func TestResetAllZeroesTotal(t *testing.T) {
	config := testConfig()
	config.TotalStudy = 3000 * time.Second
	testHarness := newHarness(t, config)

	testHarness.engine.ResetAll()
	testHarness.pump()

	assert.Zero(t, testHarness.engine.total)
	assert.Equal(t, StateStopped, testHarness.engine.state)
}

func TestThresholdRoutesThroughLongBreak(t *testing.T) {
	config := testConfig()
	config.TotalStudy = 5000 * time.Second
	testHarness := newHarness(t, config)
	events := testHarness.engine.Subscribe(64)

	testHarness.engine.StartOrResume()
	testHarness.pump()
	assert.Equal(t, StateStudying, testHarness.engine.state)

	// 5000 + 500 crosses the 5400 threshold.
	testHarness.expire()
	assert.Equal(t, StateShortBreaking, testHarness.engine.state)
	assert.Equal(t, 5500*time.Second, testHarness.engine.total)

	testHarness.expire()
	assert.Equal(t, StateLongBreaking, testHarness.engine.state)
	assert.Equal(t, 30*time.Second, testHarness.countdown.scheduled)
	assert.Contains(t, testHarness.cues.played, model.CueStartLongBreak)

	testHarness.expire()
	assert.Equal(t, StateLongBreakFinished, testHarness.engine.state)
	assert.False(t, testHarness.countdown.Active())
	assert.Contains(t, testHarness.cues.played, model.CueEndLongBreak)

	var notified bool
	for len(events) > 0 {
		event := <-events
		if event.Type == EventNotify {
			notified = true
			assert.NotEmpty(t, event.Title)
		}
	}
	assert.True(t, notified, "long break completion should request a notification")

	// Threshold still met, so the next start goes straight to a long break.
	testHarness.engine.StartOrResume()
	testHarness.pump()
	assert.Equal(t, StateLongBreaking, testHarness.engine.state)
}

func TestStartWithThresholdAlreadyMet(t *testing.T) {
	config := testConfig()
	config.TotalStudy = config.LongBreakThreshold
	testHarness := newHarness(t, config)

	testHarness.engine.StartOrResume()
	testHarness.pump()

	assert.Equal(t, StateLongBreaking, testHarness.engine.state)
	assert.Empty(t, testHarness.recorder.entries)
}

func TestBreaksAreNeverLogged(t *testing.T) {
	testHarness := newHarness(t, testConfig())

	testHarness.engine.StartOrResume()
	testHarness.pump()
	testHarness.expire() // study -> short break
	testHarness.expire() // short break -> next study

	assert.Equal(t, StateStudying, testHarness.engine.state)
	assert.Equal(t, 2, testHarness.engine.cycleCount)
	// Only the completed study interval was logged.
	assert.Len(t, testHarness.recorder.entries, 1)
}

func TestUpdateConfigKeepsRuntimeTotal(t *testing.T) {
	config := testConfig()
	config.TotalStudy = 1000 * time.Second
	testHarness := newHarness(t, config)

	updated := testConfig()
	updated.StudyMin = 60 * time.Second
	updated.StudyMax = 60 * time.Second
	updated.TotalStudy = 0
	require.NoError(t, testHarness.engine.UpdateConfig(updated))
	testHarness.pump()

	assert.Equal(t, 1000*time.Second, testHarness.engine.total)

	testHarness.engine.StartOrResume()
	testHarness.pump()
	assert.Equal(t, 60*time.Second, testHarness.countdown.scheduled)
}

func TestStatusEventsCarryLabels(t *testing.T) {
	testHarness := newHarness(t, testConfig())
	events := testHarness.engine.Subscribe(64)

	testHarness.engine.StartOrResume()
	testHarness.pump()

	var sawStudying bool
	for len(events) > 0 {
		event := <-events
		if event.Type == EventStatus && event.State == StateStudying {
			sawStudying = true
			assert.Contains(t, event.Label, "round 1")
		}
	}
	assert.True(t, sawStudying)
}
