package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdownFires(t *testing.T) {
	countdown := NewCountdown()
	fired := make(chan struct{})

	countdown.Start(20*time.Millisecond, func() {
		close(fired)
	})
	assert.True(t, countdown.Active())

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not fire")
	}
	assert.False(t, countdown.Active())
	assert.Zero(t, countdown.Remaining())
}

func TestStopCancelsAndReportsRemaining(t *testing.T) {
	countdown := NewCountdown()
	fired := make(chan struct{}, 1)

	countdown.Start(time.Hour, func() {
		fired <- struct{}{}
	})
	remaining := countdown.Stop()

	assert.Greater(t, remaining, 59*time.Minute)
	assert.False(t, countdown.Active())
	assert.Zero(t, countdown.Stop(), "stopping an idle countdown reports nothing remaining")

	select {
	case <-fired:
		t.Fatal("cancelled countdown fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStartReplacesPendingCountdown(t *testing.T) {
	countdown := NewCountdown()
	first := make(chan struct{}, 1)
	second := make(chan struct{}, 1)

	countdown.Start(time.Hour, func() {
		first <- struct{}{}
	})
	countdown.Start(20*time.Millisecond, func() {
		second <- struct{}{}
	})

	select {
	case <-second:
	case <-time.After(2 * time.Second):
		t.Fatal("replacement countdown did not fire")
	}
	select {
	case <-first:
		t.Fatal("replaced countdown fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRemainingDecreasesWhilePending(t *testing.T) {
	countdown := NewCountdown()
	countdown.Start(time.Hour, func() {})
	defer countdown.Stop()

	remaining := countdown.Remaining()
	require.Greater(t, remaining, time.Duration(0))
	assert.LessOrEqual(t, remaining, time.Hour)
}
