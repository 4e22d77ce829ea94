package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rollseq/rollseq"
	"github.com/rollseq/rollseq/tracker"
	"github.com/rollseq/rollseq/tracker/tui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// configDir returns the --config-dir flag, or the user config directory. An
// empty string means there is no config directory: only the defaults are used.
func configDir() string {
	if configDirFlag != "" {
		return configDirFlag
	}
	dir, err := tui.ConfigDir()
	if err != nil {
		return ""
	}
	return dir
}

// loadPreferences applies the flags of cmd on top of the preferences. A
// broken preferences file is reported but the defaults are still used.
func loadPreferences(cmd *cobra.Command, dir string) (tui.Preferences, error) {
	prefs, err := tui.LoadPreferences(dir)
	flags := cmd.Flags()
	if flags.Changed("sample-rate") {
		prefs.SampleRate, _ = flags.GetInt("sample-rate")
	}
	if flags.Changed("synth") {
		prefs.Synth, _ = flags.GetString("synth")
	}
	if flags.Changed("log-level") {
		prefs.LogLevel, _ = flags.GetString("log-level")
	}
	return prefs, err
}

func addSynthFlags(cmd *cobra.Command) {
	cmd.Flags().Int("sample-rate", tracker.DefaultSampleRate, "output sample rate in Hz")
	cmd.Flags().String("synth", "sine", "synthesizer: sine or fm")
}

// newLogger returns a logger writing to w at the level of the preferences.
func newLogger(w io.Writer, prefs tui.Preferences) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(w)
	level, err := prefs.Level()
	if err != nil {
		return log, fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(level)
	return log, nil
}

// openLogFile opens the log file of the editor in dir; the terminal belongs
// to the editor, so nothing is logged there.
func openLogFile(dir string) (io.WriteCloser, error) {
	if dir == "" {
		return nopWriteCloser{io.Discard}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create config directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "rollseq.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func readSongFile(path string) (*rollseq.Score, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open song: %w", err)
	}
	defer f.Close()
	score, err := rollseq.ReadScore(f)
	if err != nil {
		return nil, fmt.Errorf("could not read song %s: %w", path, err)
	}
	return score, nil
}
