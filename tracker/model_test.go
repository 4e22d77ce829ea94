package tracker_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rollseq/rollseq"
	"github.com/rollseq/rollseq/tracker"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type myWriteCloser struct {
	*bytes.Buffer
}

func (mwc *myWriteCloser) Close() error {
	// Noop
	return nil
}

func newTestModel(t testing.TB, broker *tracker.Broker) *tracker.Model {
	return newTestModelIn(t.TempDir(), broker)
}

// newTestModelIn returns a model keeping its song and clipboard files in dir.
func newTestModelIn(dir string, broker *tracker.Broker) *tracker.Model {
	log, _ := test.NewNullLogger()
	h := tracker.NewScoreHandle(rollseq.NewScore(120))
	p := tracker.NewPlayer(broker, h, tracker.SineSynth{}, 48000)
	return tracker.NewModel(h, p, tracker.NullMIDIContext{}, tracker.ModelOptions{
		Log:           log,
		Resolution:    tracker.Resolution1_8,
		FilePath:      filepath.Join(dir, "song.txt"),
		Broker:        broker,
		ClipboardPath: filepath.Join(dir, "clipboard.yml"),
		Now:           func() time.Time { return time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC) },
	})
}

func notes(m *tracker.Model) []rollseq.Note {
	return m.Score().Snapshot().Notes()
}

func TestModelToggleNote(t *testing.T) {
	m := newTestModel(t, nil)
	m.Do(tracker.CursorRight)
	m.Do(tracker.ToggleNote)
	assert.Equal(t, []rollseq.Note{{Pitch: c4, Onset: 4, Duration: 4}}, notes(m))
	assert.True(t, m.ChangedSinceSave())
	assert.True(t, m.Cursor().Visible)
	m.Do(tracker.ToggleNote)
	assert.Empty(t, notes(m))
}

func TestModelLongNote(t *testing.T) {
	m := newTestModel(t, nil)
	m.Do(tracker.StartLongNote)
	assert.Equal(t, tracker.ModeInsert{Onset: 0}, m.Cursor().CurrentMode())
	m.Do(tracker.ToggleNote) // ignored while drawing
	m.Do(tracker.CursorRight)
	m.Do(tracker.CursorRight)
	m.Do(tracker.EndLongNote)
	assert.Equal(t, []rollseq.Note{{Pitch: c4, Onset: 0, Duration: 12}}, notes(m))
	assert.Equal(t, tracker.ModeMove{}, m.Cursor().CurrentMode())

	// a second long note overlapping the first merges with it
	m.Do(tracker.StartLongNote)
	m.Do(tracker.CursorRight)
	m.Do(tracker.EndLongNote)
	assert.Equal(t, []rollseq.Note{{Pitch: c4, Onset: 0, Duration: 16}}, notes(m))
}

func TestModelCopyPaste(t *testing.T) {
	m := newTestModel(t, nil)
	m.Do(tracker.ToggleNote)
	m.Do(tracker.CursorUp)
	m.Do(tracker.CursorUp)
	m.Do(tracker.CursorRight)
	m.Do(tracker.ToggleNote) // D4 at 4
	m.Do(tracker.CursorLeft)
	m.Do(tracker.CursorDown)
	m.Do(tracker.CursorDown)

	m.Do(tracker.StartSelect)
	m.Do(tracker.CursorUp)
	m.Do(tracker.CursorUp)
	m.Do(tracker.CursorRight)
	m.Do(tracker.CursorRight)
	m.Do(tracker.Copy)
	assert.Equal(t, tracker.ModeYank{}, m.Cursor().CurrentMode())
	require.False(t, m.Clipboard().Empty())

	for range 6 {
		m.Do(tracker.CursorRight)
	}
	assert.Equal(t, 32, m.Cursor().Time)
	m.Do(tracker.Paste)
	assert.Equal(t, []rollseq.Note{
		{Pitch: c4, Onset: 0, Duration: 4},
		{Pitch: d4, Onset: 4, Duration: 4},
		{Pitch: c4, Onset: 32, Duration: 4},
		{Pitch: d4, Onset: 36, Duration: 4},
	}, notes(m))
	assert.Equal(t, tracker.ModeMove{}, m.Cursor().CurrentMode())

	// pasting again merges into the existing notes instead of toggling them
	m.Do(tracker.Paste)
	assert.Len(t, notes(m), 4)
}

func TestModelClipboardFile(t *testing.T) {
	dir := t.TempDir()
	m := newTestModelIn(dir, nil)
	m.Do(tracker.LoadClipboard)
	top, _ := m.Alerts().Top()
	assert.Equal(t, tracker.Warning, top.Priority, "no clipboard file yet")

	m.Do(tracker.ToggleNote)
	m.Do(tracker.StartSelect)
	m.Do(tracker.CursorRight)
	m.Do(tracker.Copy)
	data, err := os.ReadFile(filepath.Join(dir, "clipboard.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "pitch: C4")

	other := newTestModelIn(dir, nil)
	require.True(t, other.Clipboard().Empty())
	for range 2 {
		other.Do(tracker.CursorRight)
	}
	other.Do(tracker.LoadClipboard)
	require.False(t, other.Clipboard().Empty())
	other.Do(tracker.Paste)
	assert.Equal(t, []rollseq.Note{{Pitch: c4, Onset: 8, Duration: 4}}, notes(other))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "clipboard.yml"), []byte("notes: [{pitch: X9}]\n"), 0o644))
	assert.False(t, other.ReadClipboard())
	assert.False(t, other.Clipboard().Empty(), "a broken file keeps the buffer")
}

func TestModelCut(t *testing.T) {
	m := newTestModel(t, nil)
	m.Do(tracker.ToggleNote)
	m.Do(tracker.CursorRight)
	m.Do(tracker.ToggleNote)
	m.Do(tracker.CursorLeft)
	m.Do(tracker.StartSelect)
	m.Do(tracker.CursorRight)
	m.Do(tracker.Cut)
	assert.Equal(t, []rollseq.Note{{Pitch: c4, Onset: 4, Duration: 4}}, notes(m), "the end of the selection is exclusive")
	assert.Equal(t, tracker.ModeMove{}, m.Cursor().CurrentMode())
	buf, ok := m.Clipboard().Score()
	require.True(t, ok)
	assert.Equal(t, 1, buf.Len())
}

func TestModelDelete(t *testing.T) {
	m := newTestModel(t, nil)
	m.Do(tracker.ToggleNote)
	m.Do(tracker.CursorUp)
	m.Do(tracker.ToggleNote)
	m.Do(tracker.Delete)
	assert.Equal(t, []rollseq.Note{{Pitch: c4, Onset: 0, Duration: 4}}, notes(m))

	m.Do(tracker.CursorDown)
	m.Do(tracker.StartSelect)
	m.Do(tracker.Cancel)
	m.Do(tracker.Delete)
	assert.Empty(t, notes(m))
}

func TestModelResolution(t *testing.T) {
	m := newTestModel(t, nil)
	m.Do(tracker.ResolutionFiner)
	m.Do(tracker.ResolutionFiner)
	assert.Equal(t, tracker.Resolution1_32, m.Viewport().Resolution)
	assert.False(t, m.ResolutionFiner().Enabled())
	for range 7 {
		m.Do(tracker.CursorRight)
	}
	m.Do(tracker.ResolutionCoarser)
	assert.Equal(t, 6, m.Cursor().Time, "the cursor is realigned")
	m.Do(tracker.ResolutionCoarser)
	m.Do(tracker.ResolutionCoarser)
	assert.Equal(t, 0, m.Cursor().Time)
}

func TestModelCursorScrollsView(t *testing.T) {
	m := newTestModel(t, nil)
	m.SetViewportSize(8, 12)
	for range 8 {
		m.Do(tracker.CursorRight)
	}
	assert.Equal(t, 32, m.Viewport().Time)
	for range 12 {
		m.Do(tracker.CursorUp)
	}
	_, high := m.Viewport().PitchRange()
	assert.Equal(t, rollseq.Pitch{Tone: rollseq.C, Octave: 5}, high)
	m.Do(tracker.ViewBarPrev)
	assert.Equal(t, 0, m.Viewport().Time)
}

func TestModelLoop(t *testing.T) {
	m := newTestModel(t, nil)
	m.Do(tracker.MarkLoop)
	for range 4 {
		m.Do(tracker.CursorRight)
	}
	m.Do(tracker.MarkLoop)
	m.Do(tracker.ToggleLoop)
	assert.True(t, m.Loop().IsLooping())
	start, end, _ := m.Loop().Bounds()
	assert.Equal(t, 0, start)
	assert.Equal(t, 16, end)
	m.Do(tracker.ClearLoop)
	assert.False(t, m.Loop().IsLooping())
}

func TestModelPlayback(t *testing.T) {
	broker := tracker.NewBroker()
	m := newTestModel(t, broker)
	m.Do(tracker.ToggleNote)
	for range 4 {
		m.Do(tracker.CursorRight)
	}
	m.Do(tracker.PlayFromCursor)
	assert.Equal(t, tracker.Playing, m.Player().State())
	assert.Equal(t, 16, m.Player().TimeB32())
	for len(broker.ToModel) > 0 {
		m.ProcessMsg(<-broker.ToModel)
	}
	assert.Equal(t, 16, m.PlaybackTime())
	m.Do(tracker.Stop)
	assert.Equal(t, tracker.Stopped, m.Player().State())
	assert.False(t, m.Stop().Enabled())
}

func TestModelFollow(t *testing.T) {
	m := newTestModel(t, nil)
	m.SetViewportSize(8, 12)
	m.HandleBeat(40, tracker.Playing)
	assert.Equal(t, 0, m.Viewport().Time, "not following")
	m.Do(tracker.ToggleFollow)
	assert.Equal(t, 32, m.Viewport().Time)
	m.HandleBeat(70, tracker.Playing)
	assert.Equal(t, 64, m.Viewport().Time)
	m.HandleBeat(0, tracker.Stopped)
	assert.Equal(t, 64, m.Viewport().Time, "only while playing")
}

func TestModelNarrowViewport(t *testing.T) {
	m := newTestModel(t, nil)
	m.Do(tracker.ResolutionFiner)
	m.Do(tracker.ResolutionFiner)
	m.SetViewportSize(3, 24)
	for range 4 {
		m.Do(tracker.CursorRight)
	}
	assert.Equal(t, 4, m.Cursor().Time)
	v := m.Viewport()
	assert.LessOrEqual(t, v.Time, 4)
	assert.Less(t, 4, v.VisibleEnd(), "the cursor stays inside a view narrower than a bar")
}

func TestModelNoteEvent(t *testing.T) {
	m := newTestModel(t, nil)
	m.ProcessMsg(tracker.MsgToModel{Data: tracker.NoteEvent{On: true, Note: 69, Velocity: 100}})
	assert.Equal(t, rollseq.A4, m.Cursor().Pitch)
	assert.True(t, m.Cursor().Visible)
	m.ProcessMsg(tracker.MsgToModel{Data: tracker.NoteEvent{On: false, Note: 60}})
	assert.Equal(t, rollseq.A4, m.Cursor().Pitch)
	m.ProcessMsg(tracker.MsgToModel{Data: tracker.Alert{Message: "hello"}})
	top, ok := m.Alerts().Top()
	require.True(t, ok)
	assert.Equal(t, "hello", top.Message)
}

func TestModelSaveAndLoad(t *testing.T) {
	m := newTestModel(t, nil)
	m.Do(tracker.ToggleNote)
	m.Do(tracker.Save)
	require.False(t, m.ChangedSinceSave())
	data, err := os.ReadFile(m.FilePath())
	require.NoError(t, err)
	assert.Equal(t, "BPM: 120\n0: C4-4\n", string(data))

	m.Do(tracker.Delete)
	require.True(t, m.ChangedSinceSave())
	require.True(t, m.LoadFile(m.FilePath()))
	assert.False(t, m.ChangedSinceSave())
	assert.Len(t, notes(m), 1)
}

func TestModelDefaultFileName(t *testing.T) {
	m := newTestModel(t, nil)
	assert.Equal(t, "song_20240305.txt", m.DefaultFileName())
}

func TestModelReadSongError(t *testing.T) {
	m := newTestModel(t, nil)
	m.Do(tracker.ToggleNote)
	ok := m.ReadSong(io.NopCloser(strings.NewReader("BPM: 120\n0: X4-1\n")))
	assert.False(t, ok)
	assert.Len(t, notes(m), 1, "the score is kept")
	top, _ := m.Alerts().Top()
	assert.Equal(t, tracker.Error, top.Priority)
	assert.Contains(t, top.Message, "line 2")
}

func TestModelWriteSong(t *testing.T) {
	m := newTestModel(t, nil)
	m.Do(tracker.ToggleNote)
	w := &myWriteCloser{bytes.NewBuffer(nil)}
	require.True(t, m.WriteSong(w))
	assert.Equal(t, "BPM: 120\n0: C4-4\n", w.String())
	assert.True(t, m.ChangedSinceSave(), "only saving to a file clears the flag")
}

func TestModelExportWav(t *testing.T) {
	broker := tracker.NewBroker()
	m := newTestModel(t, broker)
	m.Do(tracker.ToggleNote)
	path := m.WavFileName()
	assert.Equal(t, ".wav", filepath.Ext(path))
	assert.Equal(t, filepath.Dir(m.FilePath()), filepath.Dir(path))
	m.Do(tracker.ExportWav)
	for done := false; !done; {
		msg, ok := tracker.TimeoutReceive(broker.ToModel, 5*time.Second)
		require.True(t, ok, "timed out waiting for the export")
		alert, _ := msg.Data.(tracker.Alert)
		require.NotEqual(t, tracker.Error, alert.Priority, alert.Message)
		done = alert.Message == "Exported song"
	}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 44)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, uint16(3), binary.LittleEndian.Uint16(data[20:22]), "float samples by default")
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, nil)
	m.Do(tracker.ToggleNote)
	m.Do(tracker.Quit)
	assert.True(t, m.Quitted())
	top, _ := m.Alerts().Top()
	assert.Equal(t, tracker.Warning, top.Priority)
}

func TestCommandNames(t *testing.T) {
	for c := range tracker.NumCommands {
		parsed, ok := tracker.ParseCommand(c.String())
		assert.True(t, ok, c.String())
		assert.Equal(t, c, parsed)
	}
	_, ok := tracker.ParseCommand("Undo")
	assert.False(t, ok)
}

func FuzzModel(f *testing.F) {
	seed := make([]byte, 1)
	for i := range seed {
		seed[i] = byte(i)
	}
	f.Add(seed)
	f.Fuzz(func(t *testing.T, slice []byte) {
		reader := bytes.NewReader(slice)
		broker := tracker.NewBroker()
		model := newTestModel(t, broker)
		buf := make(rollseq.AudioBuffer, 2048)
		closeChan := make(chan struct{})
		doneChan := make(chan struct{})
		go func() {
			defer close(doneChan)
			for {
				select {
				case <-closeChan:
					return
				default:
					model.Player().Process(buf)
				}
			}
		}()
		totalPath := ""
		for m, err := binary.ReadVarint(reader); err == nil; m, err = binary.ReadVarint(reader) {
			c := tracker.Command(uint64(m) % uint64(tracker.NumCommands))
			totalPath += c.String() + ". "
			model.Do(c)
			for len(broker.ToModel) > 0 {
				model.ProcessMsg(<-broker.ToModel)
			}
			for len(broker.ToDetector) > 0 {
				msg := <-broker.ToDetector
				if b, ok := msg.Data.(*rollseq.AudioBuffer); ok {
					broker.PutAudioBuffer(b)
				}
			}
			if err := model.Score().Snapshot().Validate(); err != nil {
				t.Errorf("Path: %s invalid score: %v", totalPath, err)
			}
			cur := model.Cursor()
			if cur.Time < 0 || cur.Time%model.Viewport().Resolution.Duration() != 0 {
				t.Errorf("Path: %s cursor off the grid: %v", totalPath, cur)
			}
		}
		closeChan <- struct{}{}
		<-doneChan
	})
}
