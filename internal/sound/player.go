package sound

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"

	"studyowl/internal/core/model"
)

// playbackRate is the fixed speaker sample rate; decoded cues are
// resampled to it.
const playbackRate = beep.SampleRate(44100)

// Player plays configured audio cues. Construction verifies that every
// required cue resolves to an existing, supported file; a missing
// resource is a construction error so the application can refuse to
// start instead of degrading silently.
type Player struct {
	paths map[model.CueKey]string
}

// NewPlayer validates the cue mapping and initializes audio output.
// Relative music folders resolve against baseDir.
func NewPlayer(baseDir string, config model.Config) (*Player, error) {
	folder := config.MusicFolder
	if !filepath.IsAbs(folder) {
		folder = filepath.Join(baseDir, folder)
	}
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("sound folder not found: %s", folder)
	}

	paths := make(map[model.CueKey]string, len(model.RequiredCues()))
	for _, key := range model.RequiredCues() {
		fileName, present := config.SoundFiles[key]
		if !present || fileName == "" {
			return nil, fmt.Errorf("no sound file configured for cue %q", key)
		}
		path := filepath.Join(folder, fileName)
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			return nil, fmt.Errorf("sound file not found: %s", path)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".mp3", ".wav":
		default:
			return nil, fmt.Errorf("unsupported sound format: %s", path)
		}
		paths[key] = path
	}

	if err := speaker.Init(playbackRate, playbackRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("init audio output: %w", err)
	}

	return &Player{paths: paths}, nil
}

// Play starts the cue asynchronously. Playback failures are logged.
func (player *Player) Play(key model.CueKey) {
	path, present := player.paths[key]
	if !present {
		return
	}
	go func() {
		if err := playFile(path); err != nil {
			log.Printf("sound: play %q: %v", key, err)
		}
	}()
}

// Close shuts down audio output.
func (player *Player) Close() {
	speaker.Close()
}

func playFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open cue: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(file)
	case ".wav":
		streamer, format, err = wav.Decode(file)
	default:
		err = fmt.Errorf("unsupported format")
	}
	if err != nil {
		file.Close()
		return fmt.Errorf("decode cue: %w", err)
	}

	var stream beep.Streamer = streamer
	if format.SampleRate != playbackRate {
		stream = beep.Resample(4, format.SampleRate, playbackRate, streamer)
	}
	speaker.Play(beep.Seq(stream, beep.Callback(func() {
		streamer.Close()
	})))
	return nil
}
