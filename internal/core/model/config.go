package model

import (
	"fmt"
	"time"
)

// CueKey names an audio cue played on a cycle transition.
type CueKey string

const (
	CueStartStudy      CueKey = "start_study"
	CueStartShortBreak CueKey = "start_short_break"
	CueStartLongBreak  CueKey = "start_long_break"
	CueEndLongBreak    CueKey = "end_long_break"
)

// RequiredCues lists the cues the engine plays; all must resolve to a file.
func RequiredCues() []CueKey {
	return []CueKey{CueStartStudy, CueStartShortBreak, CueStartLongBreak, CueEndLongBreak}
}

// Action names a user command that can be bound to a global hotkey.
type Action string

const (
	ActionStartResume Action = "start_resume"
	ActionPause       Action = "pause"
	ActionResetCycle  Action = "reset_cycle"
)

// Config contains the persisted study-timer settings plus the
// accumulated study total carried across runs.
type Config struct {
	StudyMin           time.Duration
	StudyMax           time.Duration
	ShortBreakDuration time.Duration
	LongBreakThreshold time.Duration
	LongBreakDuration  time.Duration

	MusicFolder string
	SoundFiles  map[CueKey]string
	Hotkeys     map[Action]string

	TotalStudy time.Duration
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		StudyMin:           3 * time.Minute,
		StudyMax:           5 * time.Minute,
		ShortBreakDuration: 10 * time.Second,
		LongBreakThreshold: 90 * time.Minute,
		LongBreakDuration:  20 * time.Minute,
		MusicFolder:        "study_music",
		SoundFiles: map[CueKey]string{
			CueStartStudy:      "start_study.mp3",
			CueStartShortBreak: "start_short_break.mp3",
			CueStartLongBreak:  "start_long_break.mp3",
			CueEndLongBreak:    "end_long_break.mp3",
		},
		Hotkeys: map[Action]string{
			ActionStartResume: "<ctrl>+<alt>+s",
			ActionPause:       "<ctrl>+<alt>+p",
			ActionResetCycle:  "<ctrl>+<alt>+r",
		},
		TotalStudy: 0,
	}
}

// Validate checks the interval invariants.
func (config Config) Validate() error {
	if config.StudyMin < 0 || config.StudyMax < 0 {
		return fmt.Errorf("study interval bounds must not be negative")
	}
	if config.StudyMin > config.StudyMax {
		return fmt.Errorf("study interval lower bound %s exceeds upper bound %s", config.StudyMin, config.StudyMax)
	}
	if config.ShortBreakDuration < 0 {
		return fmt.Errorf("short break duration must not be negative")
	}
	if config.LongBreakThreshold < 0 {
		return fmt.Errorf("long break threshold must not be negative")
	}
	if config.LongBreakDuration < 0 {
		return fmt.Errorf("long break duration must not be negative")
	}
	if config.TotalStudy < 0 {
		return fmt.Errorf("total study time must not be negative")
	}
	return nil
}
