package tracker

import (
	"fmt"

	"github.com/rollseq/rollseq"
)

type (
	// Action describes a user action that can be performed on the model, which
	// can be initiated by calling the Do() method. It is usually initiated by a
	// key press. Action advertises whether it is enabled, so the UI can e.g.
	// leave disabled keys out of the help. The underlying Doer can optionally
	// implement the Enabler interface to decide if the action is enabled or
	// not; if it does not implement the Enabler interface, the action is
	// always allowed.
	Action struct {
		doer Doer
	}

	// Doer is an interface that defines a single Do() method, which is called
	// when an action is performed.
	Doer interface {
		Do()
	}

	// Enabler is an interface that defines a single Enabled() method, which
	// is used by the UI to check if an Action is enabled or not.
	Enabler interface {
		Enabled() bool
	}
)

// Action methods

func MakeAction(doer Doer) Action {
	return Action{doer: doer}
}

func (a Action) Do() {
	e, ok := a.doer.(Enabler)
	if ok && !e.Enabled() {
		return
	}
	if a.doer != nil {
		a.doer.Do()
	}
}

func (a Action) Enabled() bool {
	if a.doer == nil {
		return false // no doer, not allowed
	}
	e, ok := a.doer.(Enabler)
	if !ok {
		return true // not enabler, always allowed
	}
	return e.Enabled()
}

// moveLike reports whether the cursor is free to start a new edit. A yanked
// selection is left behind by the next edit.
func (m *Model) moveLike() bool {
	switch m.cursor.CurrentMode().(type) {
	case ModeMove, ModeYank:
		return true
	}
	return false
}

func (m *Model) selecting() bool {
	_, ok := m.cursor.CurrentMode().(ModeSelect)
	return ok
}

// cursorMove
type cursorMove struct {
	*Model
	move func(c Cursor, d int) Cursor
}

func (m *Model) CursorUp() Action {
	return MakeAction(cursorMove{m, func(c Cursor, _ int) Cursor { return c.Up() }})
}
func (m *Model) CursorDown() Action {
	return MakeAction(cursorMove{m, func(c Cursor, _ int) Cursor { return c.Down() }})
}
func (m *Model) CursorLeft() Action {
	return MakeAction(cursorMove{m, Cursor.Left})
}
func (m *Model) CursorRight() Action {
	return MakeAction(cursorMove{m, Cursor.Right})
}
func (a cursorMove) Do() { a.moveCursor(a.move(a.cursor, a.resolutionDuration())) }

// resolutionFiner
type resolutionFiner Model

func (m *Model) ResolutionFiner() Action { return MakeAction((*resolutionFiner)(m)) }
func (m *resolutionFiner) Enabled() bool { return m.viewport.Resolution < Resolution1_32 }
func (m *resolutionFiner) Do() {
	m.viewport = m.viewport.IncreaseResolution()
	m.cursor = m.cursor.ResolutionAlign((*Model)(m).resolutionDuration())
}

// resolutionCoarser
type resolutionCoarser Model

func (m *Model) ResolutionCoarser() Action { return MakeAction((*resolutionCoarser)(m)) }
func (m *resolutionCoarser) Enabled() bool { return m.viewport.Resolution > Resolution1_4 }
func (m *resolutionCoarser) Do() {
	m.viewport = m.viewport.DecreaseResolution()
	m.cursor = m.cursor.ResolutionAlign((*Model)(m).resolutionDuration())
}

// viewScroll
type viewScroll struct {
	*Model
	scroll func(v Viewport) Viewport
}

func (m *Model) ViewOctaveUp() Action {
	return MakeAction(viewScroll{m, Viewport.NextOctave})
}
func (m *Model) ViewOctaveDown() Action {
	return MakeAction(viewScroll{m, Viewport.PrevOctave})
}
func (m *Model) ViewBarNext() Action {
	return MakeAction(viewScroll{m, func(v Viewport) Viewport { return v.ScrollBars(1) }})
}
func (m *Model) ViewBarPrev() Action {
	return MakeAction(viewScroll{m, func(v Viewport) Viewport { return v.ScrollBars(-1) }})
}
func (a viewScroll) Do() { a.viewport = a.scroll(a.viewport) }

// toggleNote
type toggleNote Model

func (m *Model) ToggleNote() Action { return MakeAction((*toggleNote)(m)) }
func (m *toggleNote) Enabled() bool { return (*Model)(m).moveLike() }
func (m *toggleNote) Do() {
	c, d := m.cursor, (*Model)(m).resolutionDuration()
	m.score.Update(func(s *rollseq.Score) { s.InsertOrRemove(c.Pitch, c.Time, d) })
	m.cursor = c.Cancel().Show()
	(*Model)(m).audition(c.Pitch)
	(*Model)(m).changed()
}

// startLongNote
type startLongNote Model

func (m *Model) StartLongNote() Action { return MakeAction((*startLongNote)(m)) }
func (m *startLongNote) Enabled() bool { return (*Model)(m).moveLike() }
func (m *startLongNote) Do()           { m.cursor = m.cursor.Cancel().StartInsert().Show() }

// endLongNote
type endLongNote Model

func (m *Model) EndLongNote() Action { return MakeAction((*endLongNote)(m)) }
func (m *endLongNote) Enabled() bool {
	_, ok := m.cursor.CurrentMode().(ModeInsert)
	return ok
}
func (m *endLongNote) Do() {
	c := m.cursor
	mode, ok := c.CurrentMode().(ModeInsert)
	if !ok {
		return
	}
	end := c.Time + (*Model)(m).resolutionDuration()
	m.score.Update(func(s *rollseq.Score) { s.Insert(c.Pitch, mode.Onset, end-mode.Onset) })
	m.cursor = c.EndInsert()
	(*Model)(m).audition(c.Pitch)
	(*Model)(m).changed()
}

// startSelect
type startSelect Model

func (m *Model) StartSelect() Action { return MakeAction((*startSelect)(m)) }
func (m *startSelect) Enabled() bool { return (*Model)(m).moveLike() }
func (m *startSelect) Do()           { m.cursor = m.cursor.Cancel().StartSelect().Show() }

// cancel
type cancel Model

func (m *Model) Cancel() Action { return MakeAction((*cancel)(m)) }
func (m *cancel) Do()           { m.cursor = m.cursor.Cancel() }

// copySelection
type copySelection Model

func (m *Model) Copy() Action          { return MakeAction((*copySelection)(m)) }
func (m *copySelection) Enabled() bool { return (*Model)(m).selecting() }
func (m *copySelection) Do()           { (*Model)(m).copySelection() }

func (m *Model) copySelection() (rollseq.SelectionRange, bool) {
	r, ok := m.cursor.SelectionRange()
	if !ok {
		return r, false
	}
	var n int
	m.score.Read(func(s *rollseq.Score) {
		sel := s.CloneAtSelection(r)
		n = sel.Len()
		m.clipboard = NewSelectionBuffer(sel)
	})
	m.cursor = m.cursor.Yank()
	m.alerts.AddNamed("Clipboard", fmt.Sprintf("Copied %d notes", n), Info)
	m.WriteClipboard()
	return r, true
}

// cutSelection
type cutSelection Model

func (m *Model) Cut() Action          { return MakeAction((*cutSelection)(m)) }
func (m *cutSelection) Enabled() bool { return (*Model)(m).selecting() }
func (m *cutSelection) Do() {
	r, ok := (*Model)(m).copySelection()
	if !ok {
		return
	}
	m.score.Update(func(s *rollseq.Score) { s.DeleteInSelection(r) })
	m.cursor = m.cursor.Cancel()
	(*Model)(m).changed()
}

// deleteNotes
type deleteNotes Model

func (m *Model) Delete() Action { return MakeAction((*deleteNotes)(m)) }
func (m *deleteNotes) Enabled() bool {
	return (*Model)(m).moveLike() || (*Model)(m).selecting()
}
func (m *deleteNotes) Do() {
	r, ok := m.cursor.SelectionRange()
	if !ok {
		// outside a selection, delete the notes starting in the cursor cell
		c := m.cursor
		r = rollseq.NewSelectionRange(c.Pitch, c.Time, c.Pitch, c.Time+(*Model)(m).resolutionDuration())
	}
	removed := 0
	m.score.Update(func(s *rollseq.Score) {
		before := s.Len()
		s.DeleteInSelection(r)
		removed = before - s.Len()
	})
	m.cursor = m.cursor.Cancel()
	if removed > 0 {
		(*Model)(m).changed()
	}
}

// paste
type paste Model

func (m *Model) Paste() Action { return MakeAction((*paste)(m)) }
func (m *paste) Enabled() bool { return !m.clipboard.Empty() && (*Model)(m).moveLike() }
func (m *paste) Do() {
	buf, ok := m.clipboard.TranslateTo(m.cursor.Time).Score()
	if !ok {
		return
	}
	m.score.Transform(func(s *rollseq.Score) *rollseq.Score { return s.MergeDown(buf) })
	m.cursor = m.cursor.Cancel().Show()
	(*Model)(m).changed()
}

// loadClipboard
type loadClipboard Model

func (m *Model) LoadClipboard() Action { return MakeAction((*loadClipboard)(m)) }
func (m *loadClipboard) Enabled() bool { return m.clipboardPath != "" && (*Model)(m).moveLike() }
func (m *loadClipboard) Do()           { (*Model)(m).ReadClipboard() }

// togglePlayback
type togglePlayback Model

func (m *Model) TogglePlayback() Action { return MakeAction((*togglePlayback)(m)) }
func (m *togglePlayback) Do()           { m.player.TogglePlayback() }

// stopPlayback
type stopPlayback Model

func (m *Model) Stop() Action         { return MakeAction((*stopPlayback)(m)) }
func (m *stopPlayback) Do()           { m.player.Stop() }
func (m *stopPlayback) Enabled() bool { return m.player.State() != Stopped }

// playFromCursor
type playFromCursor Model

func (m *Model) PlayFromCursor() Action { return MakeAction((*playFromCursor)(m)) }
func (m *playFromCursor) Do() {
	m.player.SetTimeB32(m.cursor.Time)
	m.player.Play()
}

// toggleLoop
type toggleLoop Model

func (m *Model) ToggleLoop() Action { return MakeAction((*toggleLoop)(m)) }
func (m *toggleLoop) Do() {
	l := m.loop.ToggleMode()
	if l.Mode == LoopLooping && !l.IsLooping() {
		m.alerts.AddNamed("Loop", "Mark the loop start and end to loop", Warning)
	}
	(*Model)(m).setLoop(l)
}

// markLoop
type markLoop Model

func (m *Model) MarkLoop() Action { return MakeAction((*markLoop)(m)) }
func (m *markLoop) Do()           { (*Model)(m).setLoop(m.loop.Mark(m.cursor.Time)) }

// clearLoop
type clearLoop Model

func (m *Model) ClearLoop() Action { return MakeAction((*clearLoop)(m)) }
func (m *clearLoop) Do()           { (*Model)(m).setLoop(m.loop.Clear()) }

// auditionCursor
type auditionCursor Model

func (m *Model) Audition() Action { return MakeAction((*auditionCursor)(m)) }
func (m *auditionCursor) Do()     { (*Model)(m).audition(m.cursor.Pitch) }

// save
type save Model

func (m *Model) Save() Action { return MakeAction((*save)(m)) }
func (m *save) Do()           { (*Model)(m).SaveFile() }

// exportWav
type exportWav Model

func (m *Model) ExportWav() Action { return MakeAction((*exportWav)(m)) }
func (m *exportWav) Do()           { (*Model)(m).ExportWavAs((*Model)(m).WavFileName(), false) }

// toggleFollow
type toggleFollow Model

func (m *Model) ToggleFollow() Action { return MakeAction((*toggleFollow)(m)) }
func (m *toggleFollow) Do() {
	m.follow = !m.follow
	if m.follow {
		m.viewport = m.viewport.FollowPlayhead()
	}
}

// quit
type quit Model

func (m *Model) Quit() Action { return MakeAction((*quit)(m)) }
func (m *quit) Do() {
	if m.changedSinceSave {
		m.alerts.AddNamed("Quit", "Quitting with unsaved changes", Warning)
	}
	m.quitted = true
}
