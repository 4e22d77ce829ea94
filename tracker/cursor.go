package tracker

import (
	"fmt"

	"github.com/rollseq/rollseq"
)

type (
	// Cursor is the editing position on the piano roll, together with the
	// editing mode telling what the user is currently doing. Cursor is a value:
	// every transition returns a new Cursor and leaves the receiver intact.
	Cursor struct {
		Pitch   rollseq.Pitch
		Time    int // in b32, aligned to the grid resolution
		Visible bool
		Mode    CursorMode
	}

	// CursorMode is one of ModeMove, ModeInsert, ModeSelect or ModeYank.
	CursorMode interface {
		isCursorMode()
		String() string
	}

	// ModeMove is the default mode: the cursor just moves around.
	ModeMove struct{}

	// ModeInsert is active while a long note is being drawn, starting from
	// Onset and extending to the cursor.
	ModeInsert struct{ Onset int }

	// ModeSelect is active while a selection is being made. Pitch and Onset
	// are the anchor corner, the cursor is the other corner.
	ModeSelect struct {
		Pitch rollseq.Pitch
		Onset int
	}

	// ModeYank marks that the selection has just been copied.
	ModeYank struct{}
)

func (ModeMove) isCursorMode()   {}
func (ModeInsert) isCursorMode() {}
func (ModeSelect) isCursorMode() {}
func (ModeYank) isCursorMode()   {}

func (ModeMove) String() string   { return "move" }
func (ModeInsert) String() string { return "insert" }
func (ModeSelect) String() string { return "select" }
func (ModeYank) String() string   { return "yank" }

// NewCursor returns a hidden cursor in ModeMove.
func NewCursor(pitch rollseq.Pitch, time int) Cursor {
	return Cursor{Pitch: pitch, Time: time, Mode: ModeMove{}}
}

// CurrentMode returns the mode, treating the zero Cursor as ModeMove.
func (c Cursor) CurrentMode() CursorMode {
	if c.Mode == nil {
		return ModeMove{}
	}
	return c.Mode
}

func (c Cursor) isMove() bool {
	_, ok := c.CurrentMode().(ModeMove)
	return ok
}

// ResolutionAlign snaps the time down to a multiple of duration.
func (c Cursor) ResolutionAlign(duration int) Cursor {
	if duration > 0 {
		c.Time -= c.Time % duration
	}
	return c
}

// Left moves the cursor one grid step earlier, not going below zero. While
// drawing a long note, the cursor cannot move before the onset of the note.
func (c Cursor) Left(duration int) Cursor {
	if m, ok := c.CurrentMode().(ModeInsert); ok && c.Time == m.Onset {
		return c
	}
	c.Time = max(c.Time-duration, 0)
	return c.ResolutionAlign(duration)
}

// Right moves the cursor one grid step later.
func (c Cursor) Right(duration int) Cursor {
	c.Time += duration
	return c.ResolutionAlign(duration)
}

// Up moves the cursor one semitone higher, unless already at the top.
func (c Cursor) Up() Cursor {
	if p, ok := c.Pitch.Next(); ok {
		c.Pitch = p
	}
	return c
}

// Down moves the cursor one semitone lower, unless already at the bottom.
func (c Cursor) Down() Cursor {
	if p, ok := c.Pitch.Prev(); ok {
		c.Pitch = p
	}
	return c
}

func (c Cursor) Show() Cursor {
	c.Visible = true
	return c
}

func (c Cursor) Hide() Cursor {
	c.Visible = false
	return c
}

// StartInsert begins a long note at the cursor. Only valid in ModeMove.
func (c Cursor) StartInsert() Cursor {
	if c.isMove() {
		c.Mode = ModeInsert{Onset: c.Time}
	}
	return c
}

// EndInsert returns from ModeInsert to ModeMove.
func (c Cursor) EndInsert() Cursor {
	if _, ok := c.CurrentMode().(ModeInsert); ok {
		c.Mode = ModeMove{}
	}
	return c
}

// StartSelect anchors a selection at the cursor. Only valid in ModeMove.
func (c Cursor) StartSelect() Cursor {
	if c.isMove() {
		c.Mode = ModeSelect{Pitch: c.Pitch, Onset: c.Time}
	}
	return c
}

func (c Cursor) EndSelect() Cursor {
	c.Mode = ModeMove{}
	return c
}

// Cancel returns to ModeMove from any mode.
func (c Cursor) Cancel() Cursor {
	c.Mode = ModeMove{}
	return c
}

// Yank marks the selection as copied. Only valid in ModeSelect.
func (c Cursor) Yank() Cursor {
	if _, ok := c.CurrentMode().(ModeSelect); ok {
		c.Mode = ModeYank{}
	}
	return c
}

// SelectionRange returns the range between the selection anchor and the
// cursor. ok is false unless in ModeSelect.
func (c Cursor) SelectionRange() (r rollseq.SelectionRange, ok bool) {
	m, ok := c.CurrentMode().(ModeSelect)
	if !ok {
		return rollseq.SelectionRange{}, false
	}
	return rollseq.NewSelectionRange(m.Pitch, m.Onset, c.Pitch, c.Time), true
}

// VisibleAt reports whether the cell at (pitch, time) should be highlighted
// as part of the cursor. While selecting, the cell under the cursor is
// highlighted too, although SelectionRange ends before it.
func (c Cursor) VisibleAt(pitch rollseq.Pitch, time int) bool {
	if !c.Visible {
		return false
	}
	switch m := c.CurrentMode().(type) {
	case ModeInsert:
		return pitch == c.Pitch && time >= m.Onset && time <= c.Time
	case ModeSelect:
		low, high := rollseq.MinMaxPitch(m.Pitch, c.Pitch)
		start, end := min(m.Onset, c.Time), max(m.Onset, c.Time)
		return time >= start && time <= end && !pitch.Less(low) && !high.Less(pitch)
	}
	return pitch == c.Pitch && time == c.Time
}

func (c Cursor) String() string {
	return fmt.Sprintf("%d %v", c.Time, c.Pitch)
}
