package tracker

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rollseq/rollseq"
	"gopkg.in/yaml.v3"
)

// ClipboardFileName is the name of the clipboard file in the config directory.
const ClipboardFileName = "clipboard.yml"

// DefaultFileName returns the name a new song is saved with, based on the
// current date.
func (m *Model) DefaultFileName() string {
	return fmt.Sprintf("song_%s.txt", m.now().Format("20060102"))
}

// ReadSong replaces the score with a song file read from r. Errors are
// reported as alerts; returns false if the song could not be read.
func (m *Model) ReadSong(r io.ReadCloser) bool {
	score, err := rollseq.ReadScore(r)
	if cerr := r.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		m.log.WithError(err).Warn("could not read song")
		m.Alerts().Add(fmt.Sprintf("Error reading a song file: %v", err), Error)
		return false
	}
	m.player.Stop()
	m.score.Replace(score)
	m.cursor = NewCursor(m.cursor.Pitch, 0)
	m.viewport = m.viewport.EnsureVisible(0)
	if f, ok := r.(*os.File); ok {
		m.filePath = f.Name()
		// the song was loaded from a file, so it is persisted
		m.changedSinceSave = false
	} else {
		m.changed()
	}
	return true
}

// WriteSong writes the score to w in the song file format. Errors are
// reported as alerts.
func (m *Model) WriteSong(w io.WriteCloser) bool {
	err := rollseq.WriteScore(w, m.score.Snapshot())
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		m.log.WithError(err).Warn("could not write song")
		m.Alerts().Add(fmt.Sprintf("Error writing a song file: %v", err), Error)
		return false
	}
	if f, ok := w.(*os.File); ok {
		m.filePath = f.Name()
		// the song was saved to a file, so it is persisted
		m.changedSinceSave = false
		if err := m.recovery.Remove(); err != nil {
			m.log.WithError(err).Warn("could not remove recovery file")
		}
	}
	return true
}

// LoadFile reads the song at path.
func (m *Model) LoadFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		m.Alerts().Add(fmt.Sprintf("Error opening a song file: %v", err), Error)
		return false
	}
	return m.ReadSong(f)
}

// SaveFile writes the song to the current file path, or to DefaultFileName if
// the song has not been saved before.
func (m *Model) SaveFile() bool {
	path := m.filePath
	if path == "" {
		path = m.DefaultFileName()
	}
	return m.SaveFileAs(path)
}

func (m *Model) SaveFileAs(path string) bool {
	f, err := os.Create(path)
	if err != nil {
		m.Alerts().Add(fmt.Sprintf("Error creating a song file: %v", err), Error)
		return false
	}
	if !m.WriteSong(f) {
		return false
	}
	m.log.WithField("path", path).Info("saved song")
	m.Alerts().AddNamed("Save", fmt.Sprintf("Saved %s", path), Info)
	return true
}

// Recover replaces the score with the contents of the recovery file, if there
// is one. The recovered song counts as unsaved.
func (m *Model) Recover() bool {
	if m.recovery == nil {
		return false
	}
	score, err := m.recovery.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	if err != nil {
		m.Alerts().Add(fmt.Sprintf("Error reading the recovery file: %v", err), Error)
		return false
	}
	m.score.Replace(score)
	m.changedSinceSave = true
	m.Alerts().Add("Recovered unsaved changes", Warning)
	return true
}

// WavFileName returns where ExportWav writes: the song file, or the default
// file name for a new song, with a .wav extension.
func (m *Model) WavFileName() string {
	path := m.filePath
	if path == "" {
		path = m.DefaultFileName()
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".wav"
}

// ExportWavAs creates the file at path and renders the song into it in the
// background.
func (m *Model) ExportWavAs(path string, pcm16 bool) bool {
	f, err := os.Create(path)
	if err != nil {
		m.Alerts().Add(fmt.Sprintf("Error creating a .wav file: %v", err), Error)
		return false
	}
	m.log.WithField("path", path).Info("exporting song")
	m.WriteWav(f, pcm16)
	return true
}

// WriteWav renders the song in the background and writes it to w as a .wav
// file. Progress and errors are reported as alerts through the broker.
func (m *Model) WriteWav(w io.WriteCloser, pcm16 bool) {
	score := m.score.Snapshot()
	loop := m.loop
	opts := RenderOptions{SampleRate: m.player.SampleRate(), Synth: m.player.Synth()}
	name := "Export"
	if f, ok := w.(*os.File); ok {
		name += ":" + f.Name()
	}
	broker := m.broker
	send := func(msg string, p AlertPriority) {
		if broker != nil {
			TrySend(broker.ToModel, MsgToModel{Data: Alert{Name: name, Message: msg, Priority: p, Duration: defaultAlertDuration}})
		}
	}
	go func() {
		defer w.Close()
		send("Exporting song", Info)
		buffer := Render(score, loop, opts)
		data, err := rollseq.Wav(buffer, opts.SampleRate, pcm16)
		if err != nil {
			send(fmt.Sprintf("Error converting to .wav: %v", err), Error)
			return
		}
		if _, err := w.Write(data); err != nil {
			send(fmt.Sprintf("Error writing .wav: %v", err), Error)
			return
		}
		send("Exported song", Info)
	}()
}

// WriteClipboard writes the selection buffer to the clipboard file.
func (m *Model) WriteClipboard() bool {
	if m.clipboardPath == "" {
		return false
	}
	data, err := yaml.Marshal(m.clipboard)
	if err == nil {
		err = os.WriteFile(m.clipboardPath, data, 0o644)
	}
	if err != nil {
		m.log.WithError(err).Warn("could not write clipboard file")
		m.Alerts().Add(fmt.Sprintf("Error writing the clipboard file: %v", err), Error)
		return false
	}
	return true
}

// ReadClipboard replaces the selection buffer with the clipboard file, which
// may have been written by another session.
func (m *Model) ReadClipboard() bool {
	if m.clipboardPath == "" {
		return false
	}
	data, err := os.ReadFile(m.clipboardPath)
	if errors.Is(err, fs.ErrNotExist) {
		m.Alerts().AddNamed("Clipboard", "The clipboard file is empty", Warning)
		return false
	}
	var buf SelectionBuffer
	if err == nil {
		err = yaml.Unmarshal(data, &buf)
	}
	if err != nil {
		m.log.WithError(err).Warn("could not read clipboard file")
		m.Alerts().Add(fmt.Sprintf("Error reading the clipboard file: %v", err), Error)
		return false
	}
	m.clipboard = buf
	n := 0
	if s, ok := buf.Score(); ok {
		n = s.Len()
	}
	m.Alerts().AddNamed("Clipboard", fmt.Sprintf("Loaded %d notes", n), Info)
	return true
}
