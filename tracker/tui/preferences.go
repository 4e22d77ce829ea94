package tui

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rollseq/rollseq/tracker"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

type (
	Preferences struct {
		SampleRate     int
		Synth          string
		FM             FMPreferences
		BPM            int
		Resolution     string
		Follow         bool
		Recovery       bool
		AuditionMs     int
		Gain           float32
		LogLevel       string
		StatusTemplate string
	}

	FMPreferences struct {
		Ratio float64
		Index float64
	}
)

//go:embed preferences.yml
var defaultPreferencesYaml []byte

func loadDefaultPreferences() Preferences {
	var preferences Preferences
	err := yaml.UnmarshalStrict(defaultPreferencesYaml, &preferences)
	if err != nil {
		panic(fmt.Errorf("failed to unmarshal preferences: %w", err))
	}
	return preferences
}

// ConfigDir returns the directory of the user's configuration files.
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "rollseq"), nil
}

// readCustomConfig reads filename from dir into target, which must be a
// pointer. exists is false if there is no such file.
func readCustomConfig(dir, filename string, target any) (exists bool, err error) {
	bytes, err := os.ReadFile(filepath.Join(dir, filename))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, yaml.UnmarshalStrict(bytes, target)
}

// LoadPreferences returns the default preferences, overridden by the
// preferences.yml in dir if there is one. On error, the defaults are still
// returned.
func LoadPreferences(dir string) (Preferences, error) {
	preferences := loadDefaultPreferences()
	if dir == "" {
		return preferences, nil
	}
	custom := preferences
	if _, err := readCustomConfig(dir, "preferences.yml", &custom); err != nil {
		return preferences, fmt.Errorf("preferences.yml: %w", err)
	}
	return custom, nil
}

func (p Preferences) MakeSynth() (tracker.Synth, error) {
	return tracker.NewSynth(p.Synth, tracker.FMSynth{Ratio: p.FM.Ratio, Index: p.FM.Index})
}

func (p Preferences) GridResolution() tracker.Resolution {
	if r, ok := tracker.ParseResolution(p.Resolution); ok {
		return r
	}
	return tracker.Resolution1_8
}

func (p Preferences) AuditionLength() time.Duration {
	return time.Duration(p.AuditionMs) * time.Millisecond
}

func (p Preferences) Level() (logrus.Level, error) {
	return logrus.ParseLevel(p.LogLevel)
}
