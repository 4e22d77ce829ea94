package tui_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rollseq/rollseq/tracker"
	"github.com/rollseq/rollseq/tracker/tui"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPreferences(t *testing.T) {
	p, err := tui.LoadPreferences("")
	require.NoError(t, err)
	assert.Equal(t, 48000, p.SampleRate)
	assert.Equal(t, 120, p.BPM)
	assert.Equal(t, tracker.Resolution1_8, p.GridResolution())
	assert.Equal(t, 300*time.Millisecond, p.AuditionLength())
	level, err := p.Level()
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, level)
	synth, err := p.MakeSynth()
	require.NoError(t, err)
	assert.Equal(t, tracker.SineSynth{}, synth)
	_, err = tui.ParseStatusTemplate(p.StatusTemplate)
	assert.NoError(t, err)
}

func TestCustomPreferences(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "preferences.yml"), []byte("samplerate: 44100\nsynth: fm\n"), 0644))
	p, err := tui.LoadPreferences(dir)
	require.NoError(t, err)
	assert.Equal(t, 44100, p.SampleRate)
	assert.Equal(t, 120, p.BPM, "unspecified preferences keep their defaults")
	synth, err := p.MakeSynth()
	require.NoError(t, err)
	assert.Equal(t, tracker.FMSynth{Ratio: 2, Index: 1.5}, synth)
}

func TestCustomPreferencesStrict(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "preferences.yml"), []byte("samplerate: 44100\nwindow: 3\n"), 0644))
	p, err := tui.LoadPreferences(dir)
	assert.Error(t, err)
	assert.Equal(t, 48000, p.SampleRate, "defaults are returned on error")
}

func TestMissingCustomPreferences(t *testing.T) {
	p, err := tui.LoadPreferences(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 48000, p.SampleRate)
}
