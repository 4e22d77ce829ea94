package tracker

import "fmt"

// Command names a discrete user command. Key bindings map keys to commands
// by name, and the front-end applies them with Model.Do.
type Command int

const (
	CursorUp Command = iota
	CursorDown
	CursorLeft
	CursorRight
	ResolutionFiner
	ResolutionCoarser
	ViewOctaveUp
	ViewOctaveDown
	ViewBarNext
	ViewBarPrev
	ToggleNote
	StartLongNote
	EndLongNote
	StartSelect
	Cancel
	Copy
	Cut
	Delete
	Paste
	LoadClipboard
	TogglePlayback
	Stop
	PlayFromCursor
	ToggleLoop
	MarkLoop
	ClearLoop
	Audition
	Save
	ExportWav
	ToggleFollow
	Quit
	NumCommands
)

var commandNames = [NumCommands]string{
	"CursorUp", "CursorDown", "CursorLeft", "CursorRight",
	"ResolutionFiner", "ResolutionCoarser",
	"ViewOctaveUp", "ViewOctaveDown", "ViewBarNext", "ViewBarPrev",
	"ToggleNote", "StartLongNote", "EndLongNote",
	"StartSelect", "Cancel", "Copy", "Cut", "Delete", "Paste", "LoadClipboard",
	"TogglePlayback", "Stop", "PlayFromCursor",
	"ToggleLoop", "MarkLoop", "ClearLoop",
	"Audition", "Save", "ExportWav", "ToggleFollow", "Quit",
}

func (c Command) String() string {
	if c < 0 || c >= NumCommands {
		return fmt.Sprintf("Command(%d)", int(c))
	}
	return commandNames[c]
}

// ParseCommand returns the command with the given name.
func ParseCommand(name string) (Command, bool) {
	for i, n := range commandNames {
		if n == name {
			return Command(i), true
		}
	}
	return 0, false
}

// Action returns the action performing the command.
func (m *Model) Action(c Command) Action {
	switch c {
	case CursorUp:
		return m.CursorUp()
	case CursorDown:
		return m.CursorDown()
	case CursorLeft:
		return m.CursorLeft()
	case CursorRight:
		return m.CursorRight()
	case ResolutionFiner:
		return m.ResolutionFiner()
	case ResolutionCoarser:
		return m.ResolutionCoarser()
	case ViewOctaveUp:
		return m.ViewOctaveUp()
	case ViewOctaveDown:
		return m.ViewOctaveDown()
	case ViewBarNext:
		return m.ViewBarNext()
	case ViewBarPrev:
		return m.ViewBarPrev()
	case ToggleNote:
		return m.ToggleNote()
	case StartLongNote:
		return m.StartLongNote()
	case EndLongNote:
		return m.EndLongNote()
	case StartSelect:
		return m.StartSelect()
	case Cancel:
		return m.Cancel()
	case Copy:
		return m.Copy()
	case Cut:
		return m.Cut()
	case Delete:
		return m.Delete()
	case Paste:
		return m.Paste()
	case LoadClipboard:
		return m.LoadClipboard()
	case TogglePlayback:
		return m.TogglePlayback()
	case Stop:
		return m.Stop()
	case PlayFromCursor:
		return m.PlayFromCursor()
	case ToggleLoop:
		return m.ToggleLoop()
	case MarkLoop:
		return m.MarkLoop()
	case ClearLoop:
		return m.ClearLoop()
	case Audition:
		return m.Audition()
	case Save:
		return m.Save()
	case ExportWav:
		return m.ExportWav()
	case ToggleFollow:
		return m.ToggleFollow()
	case Quit:
		return m.Quit()
	}
	return Action{}
}

// Do applies a single command. Commands not enabled in the current state are
// ignored.
func (m *Model) Do(c Command) {
	m.log.WithField("command", c).Debug("do")
	m.Action(c).Do()
}
