package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	config := Default()
	require.NoError(t, config.Validate())

	for _, key := range RequiredCues() {
		assert.NotEmpty(t, config.SoundFiles[key], "default must map cue %q", key)
	}
	assert.NotEmpty(t, config.Hotkeys[ActionStartResume])
	assert.NotEmpty(t, config.Hotkeys[ActionPause])
	assert.NotEmpty(t, config.Hotkeys[ActionResetCycle])
}

func TestValidateRejectsInvertedBounds(t *testing.T) {
	config := Default()
	config.StudyMin = 10 * time.Minute
	config.StudyMax = 5 * time.Minute
	assert.Error(t, config.Validate())
}

func TestValidateRejectsNegativeDurations(t *testing.T) {
	mutations := map[string]func(*Config){
		"study min":      func(c *Config) { c.StudyMin = -time.Second },
		"short break":    func(c *Config) { c.ShortBreakDuration = -time.Second },
		"long threshold": func(c *Config) { c.LongBreakThreshold = -time.Second },
		"long break":     func(c *Config) { c.LongBreakDuration = -time.Second },
		"total study":    func(c *Config) { c.TotalStudy = -time.Second },
	}
	for name, mutate := range mutations {
		mutate := mutate
		t.Run(name, func(t *testing.T) {
			config := Default()
			mutate(&config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestValidateAllowsEqualBounds(t *testing.T) {
	config := Default()
	config.StudyMin = 5 * time.Minute
	config.StudyMax = 5 * time.Minute
	assert.NoError(t, config.Validate())
}
