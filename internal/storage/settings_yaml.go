package storage

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"studyowl/internal/core/model"
)

const settingsFileName = "settings.yaml"

// yamlSettings is the on-disk settings schema. Durations are stored as
// whole seconds.
type yamlSettings struct {
	StudyTimeMin       int               `yaml:"study_time_min"`
	StudyTimeMax       int               `yaml:"study_time_max"`
	ShortBreakDuration int               `yaml:"short_break_duration"`
	LongBreakThreshold int               `yaml:"long_break_threshold"`
	LongBreakDuration  int               `yaml:"long_break_duration"`
	MusicFolder        string            `yaml:"music_folder"`
	SoundFiles         map[string]string `yaml:"sound_files"`
	TotalStudyTime     int               `yaml:"total_study_time"`
	Hotkeys            map[string]string `yaml:"hotkeys"`
}

// SettingsStore loads and persists the settings file.
type SettingsStore struct {
	path string
}

// NewSettingsStore creates a store for the given settings file path.
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// DefaultSettingsPath resolves the per-user settings file location.
func DefaultSettingsPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// Path returns the settings file path.
func (store *SettingsStore) Path() string {
	return store.path
}

// Load reads the settings file. A missing file is created with defaults.
// A present file has any missing top-level key filled from the defaults
// and the merged document persisted; present values and unknown keys are
// left untouched. A malformed file falls back to defaults in memory
// without rewriting the file.
func (store *SettingsStore) Load() (model.Config, error) {
	defaults := model.Default()

	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if saveErr := store.Save(defaults); saveErr != nil {
				log.Printf("settings: write defaults: %v", saveErr)
			}
			return defaults, nil
		}
		return defaults, fmt.Errorf("read settings file: %w", err)
	}

	var document map[string]any
	if err := yaml.Unmarshal(rawData, &document); err != nil || document == nil {
		log.Printf("settings: malformed %s, using defaults: %v", store.path, err)
		return defaults, nil
	}

	changed := false
	for key, value := range defaultDocument() {
		if _, present := document[key]; !present {
			document[key] = value
			changed = true
		}
	}
	if changed {
		if err := store.writeDocument(document); err != nil {
			log.Printf("settings: persist merged defaults: %v", err)
		}
	}

	config, err := documentToConfig(document)
	if err != nil {
		log.Printf("settings: unusable values in %s, using defaults: %v", store.path, err)
		return defaults, nil
	}
	return config, nil
}

// Save persists the configuration. Keys on disk that this version does
// not know about are preserved.
func (store *SettingsStore) Save(config model.Config) error {
	document := map[string]any{}
	if rawData, err := os.ReadFile(store.path); err == nil {
		if err := yaml.Unmarshal(rawData, &document); err != nil || document == nil {
			document = map[string]any{}
		}
	}

	for key, value := range configToDocument(config) {
		document[key] = value
	}
	return store.writeDocument(document)
}

func (store *SettingsStore) writeDocument(document map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	serialized, err := yaml.Marshal(document)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	if err := os.WriteFile(store.path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func configToDocument(config model.Config) map[string]any {
	settings := yamlSettings{
		StudyTimeMin:       int(config.StudyMin / time.Second),
		StudyTimeMax:       int(config.StudyMax / time.Second),
		ShortBreakDuration: int(config.ShortBreakDuration / time.Second),
		LongBreakThreshold: int(config.LongBreakThreshold / time.Second),
		LongBreakDuration:  int(config.LongBreakDuration / time.Second),
		MusicFolder:        config.MusicFolder,
		SoundFiles:         map[string]string{},
		TotalStudyTime:     int(config.TotalStudy / time.Second),
		Hotkeys:            map[string]string{},
	}
	for key, file := range config.SoundFiles {
		settings.SoundFiles[string(key)] = file
	}
	for action, combo := range config.Hotkeys {
		settings.Hotkeys[string(action)] = combo
	}

	serialized, err := yaml.Marshal(settings)
	if err != nil {
		// yamlSettings contains only marshalable fields.
		panic(err)
	}
	document := map[string]any{}
	if err := yaml.Unmarshal(serialized, &document); err != nil {
		panic(err)
	}
	return document
}

func documentToConfig(document map[string]any) (model.Config, error) {
	serialized, err := yaml.Marshal(document)
	if err != nil {
		return model.Config{}, fmt.Errorf("remarshal settings document: %w", err)
	}
	var settings yamlSettings
	if err := yaml.Unmarshal(serialized, &settings); err != nil {
		return model.Config{}, fmt.Errorf("parse settings yaml: %w", err)
	}

	config := model.Config{
		StudyMin:           time.Duration(settings.StudyTimeMin) * time.Second,
		StudyMax:           time.Duration(settings.StudyTimeMax) * time.Second,
		ShortBreakDuration: time.Duration(settings.ShortBreakDuration) * time.Second,
		LongBreakThreshold: time.Duration(settings.LongBreakThreshold) * time.Second,
		LongBreakDuration:  time.Duration(settings.LongBreakDuration) * time.Second,
		MusicFolder:        settings.MusicFolder,
		SoundFiles:         map[model.CueKey]string{},
		Hotkeys:            map[model.Action]string{},
		TotalStudy:         time.Duration(settings.TotalStudyTime) * time.Second,
	}
	for key, file := range settings.SoundFiles {
		config.SoundFiles[model.CueKey(key)] = file
	}
	for action, combo := range settings.Hotkeys {
		config.Hotkeys[model.Action(action)] = combo
	}
	return config, nil
}

func defaultDocument() map[string]any {
	return configToDocument(model.Default())
}
