package tracker

import (
	"time"

	"github.com/rollseq/rollseq"
	"github.com/sirupsen/logrus"
)

// Model implements the mutable state of an editing session: the cursor, the
// loop markers, the visible part of the piano roll and the selection buffer,
// plus handles to the shared score and the player.
//
// The model is owned by the front-end goroutine, while the player is driven
// by the audio goroutine. The score is shared between the two through the
// ScoreHandle; the player reports back through the broker, and the front-end
// passes those messages to ProcessMsg.
type (
	Model struct {
		score     *ScoreHandle
		player    *Player
		cursor    Cursor
		loop      LoopState
		viewport  Viewport
		clipboard SelectionBuffer

		filePath         string
		changedSinceSave bool
		follow           bool
		quitted          bool

		alerts        Alerts
		midi          midiState
		recovery      *Recovery
		broker        *Broker
		clipboardPath string
		log           logrus.FieldLogger
		now           func() time.Time

		levels          LevelResult
		playbackTime    int
		playState       PlayState
		auditionSamples int
	}

	ModelOptions struct {
		Log      logrus.FieldLogger
		FilePath string
		// Recovery is where unsaved changes are kept; nil disables recovery.
		Recovery *Recovery
		// Broker carries alerts from background work, like .wav exports.
		Broker *Broker
		// ClipboardPath is the file copied selections are also written to, so
		// they can be pasted in another session. Empty disables the file.
		ClipboardPath string
		// Follow makes the view follow the playhead during playback.
		Follow bool
		// AuditionLength is how long a single auditioned note sounds.
		AuditionLength time.Duration
		Resolution     Resolution
		// Now is used for the default file name; defaults to time.Now.
		Now func() time.Time
	}
)

const DefaultAuditionLength = 300 * time.Millisecond

// cursorStartPitch is where a new session puts the cursor and centers the
// view.
var cursorStartPitch = rollseq.Pitch{Tone: rollseq.C, Octave: 4}

func NewModel(score *ScoreHandle, player *Player, midiContext MIDIContext, opts ModelOptions) *Model {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.AuditionLength <= 0 {
		opts.AuditionLength = DefaultAuditionLength
	}
	m := &Model{
		score:           score,
		player:          player,
		cursor:          NewCursor(cursorStartPitch, 0),
		viewport:        NewViewport(cursorStartPitch, opts.Resolution),
		filePath:        opts.FilePath,
		follow:          opts.Follow,
		recovery:        opts.Recovery,
		broker:          opts.Broker,
		clipboardPath:   opts.ClipboardPath,
		log:             opts.Log.WithField("component", "model"),
		now:             opts.Now,
		auditionSamples: int(opts.AuditionLength.Seconds() * float64(player.SampleRate())),
		midi:            midiState{context: midiContext},
		levels: LevelResult{
			Peak: [2]Decibel{SilenceLevel, SilenceLevel},
			RMS:  [2]Decibel{SilenceLevel, SilenceLevel},
		},
	}
	m.playState = player.State()
	m.playbackTime = player.TimeB32()
	return m
}

func (m *Model) Cursor() Cursor             { return m.cursor }
func (m *Model) Loop() LoopState            { return m.loop }
func (m *Model) Viewport() Viewport         { return m.viewport }
func (m *Model) Player() *Player            { return m.player }
func (m *Model) Score() *ScoreHandle        { return m.score }
func (m *Model) Clipboard() SelectionBuffer { return m.clipboard }
func (m *Model) Alerts() *Alerts            { return &m.alerts }
func (m *Model) Levels() LevelResult        { return m.levels }
func (m *Model) Follow() bool               { return m.follow }
func (m *Model) Quitted() bool              { return m.quitted }
func (m *Model) PlaybackTime() int          { return m.playbackTime }
func (m *Model) PlayState() PlayState       { return m.playState }

func (m *Model) FilePath() string {
	return m.filePath
}

func (m *Model) SetFilePath(value string) {
	m.filePath = value
}

func (m *Model) ChangedSinceSave() bool {
	return m.changedSinceSave
}

// SetViewportSize is called by the front-end when the screen is resized.
func (m *Model) SetViewportSize(columns, rows int) {
	m.viewport.Columns = max(columns, 1)
	m.viewport.Rows = max(rows, 1)
	m.viewport = m.viewport.EnsurePitchVisible(m.cursor.Pitch)
}

// ProcessMsg handles a message received from the broker.
func (m *Model) ProcessMsg(msg MsgToModel) {
	if msg.HasBeat {
		m.HandleBeat(msg.TimeB32, msg.PlayState)
	}
	if msg.HasLevels {
		m.levels = msg.Levels
	}
	switch e := msg.Data.(type) {
	case Alert:
		m.alerts.AddAlert(e)
	case NoteEvent:
		m.handleNoteEvent(e)
	case nil:
	default:
		m.log.WithField("type", e).Debug("unknown message to model")
	}
}

// HandleBeat keeps the viewport in sync with the player clock. While playing
// in follow mode, the view turns bars as the playhead advances.
func (m *Model) HandleBeat(t int, state PlayState) {
	m.playbackTime = t
	m.playState = state
	m.viewport = m.viewport.SetPlaybackTime(t)
	if m.follow && state == Playing {
		m.viewport = m.viewport.Follow()
	}
}

// changed marks the song as modified and schedules a recovery write.
func (m *Model) changed() {
	m.changedSinceSave = true
	m.recovery.Schedule(m.score)
}

func (m *Model) audition(p rollseq.Pitch) {
	m.player.Audition(p, m.auditionSamples)
}

// resolutionDuration is the length of one grid cell in b32.
func (m *Model) resolutionDuration() int {
	return m.viewport.Resolution.Duration()
}

// setLoop updates the loop markers and pushes them to the player.
func (m *Model) setLoop(l LoopState) {
	m.loop = l
	m.player.SetLoop(l)
}

func (m *Model) moveCursor(c Cursor) {
	m.cursor = c.Show()
	m.viewport = m.viewport.EnsureVisible(m.cursor.Time).EnsurePitchVisible(m.cursor.Pitch)
}
