package tracker

import (
	"fmt"

	"github.com/rollseq/rollseq"
)

type (
	// MIDIContext lists the MIDI input devices of the system. Opened devices
	// send their note events to the model as MsgToModel{Data: NoteEvent}.
	MIDIContext interface {
		Inputs(yield func(input MIDIInputDevice) bool)
		Close()
		Support() MIDISupport
	}

	MIDIInputDevice interface {
		Open() error
		Close() error
		IsOpen() bool
		String() string
	}

	MIDISupport int

	// NoteEvent is a MIDI note on or off received from an input device.
	NoteEvent struct {
		On       bool
		Channel  int
		Note     byte
		Velocity byte
	}

	midiState struct {
		context      MIDIContext
		inputs       []MIDIInputDevice
		currentInput MIDIInputDevice
	}
)

const (
	MIDISupportNotCompiled MIDISupport = iota
	MIDISupportNoDriver
	MIDISupported
)

func (s MIDISupport) String() string {
	switch s {
	case MIDISupportNoDriver:
		return "no driver"
	case MIDISupported:
		return "supported"
	}
	return "not compiled"
}

// midiNoteOffset maps MIDI note numbers to pitch heights: MIDI note 60 is C4.
const midiNoteOffset = 12

// PitchOfMIDINote returns the pitch of a MIDI note number; ok is false for
// notes outside C0..B8.
func PitchOfMIDINote(note byte) (rollseq.Pitch, bool) {
	return rollseq.NewPitch(int(note) - midiNoteOffset)
}

// MIDIInputs refreshes and returns the names of the available input devices.
func (m *Model) MIDIInputs() []string {
	if m.midi.context == nil {
		return nil
	}
	m.midi.inputs = m.midi.inputs[:0]
	var names []string
	for i := range m.midi.context.Inputs {
		m.midi.inputs = append(m.midi.inputs, i)
		names = append(names, i.String())
	}
	return names
}

// OpenMIDIInput opens the input device at the given index of MIDIInputs,
// closing the current one. Returns false if the device could not be opened;
// the reason is reported as an alert.
func (m *Model) OpenMIDIInput(index int) bool {
	if index < 0 || index >= len(m.midi.inputs) {
		m.Alerts().Add(fmt.Sprintf("No MIDI input device #%d", index), Error)
		return false
	}
	if m.midi.currentInput != nil {
		if err := m.midi.currentInput.Close(); err != nil {
			m.Alerts().Add(fmt.Sprintf("Failed to close current MIDI input port: %s", err.Error()), Error)
		}
		m.midi.currentInput = nil
	}
	newInput := m.midi.inputs[index]
	if err := newInput.Open(); err != nil {
		m.Alerts().Add(fmt.Sprintf("Failed to open MIDI input port: %s", err.Error()), Error)
		return false
	}
	m.midi.currentInput = newInput
	m.log.WithField("device", newInput.String()).Info("opened MIDI input")
	m.Alerts().Add(fmt.Sprintf("Opened MIDI input port: %s", newInput.String()), Info)
	return true
}

// MIDISupport reports whether MIDI input is available at all.
func (m *Model) MIDISupport() MIDISupport {
	if m.midi.context == nil {
		return MIDISupportNotCompiled
	}
	return m.midi.context.Support()
}

// handleNoteEvent moves the cursor to the pitch of a received note on and
// auditions it, so notes can be picked from a keyboard.
func (m *Model) handleNoteEvent(e NoteEvent) {
	if !e.On || e.Velocity == 0 {
		return
	}
	p, ok := PitchOfMIDINote(e.Note)
	if !ok {
		return
	}
	m.cursor.Pitch = p
	m.cursor = m.cursor.Show()
	m.audition(p)
}

// NullMIDIContext is a mockup MIDIContext if you don't want to create a real
// one.
type NullMIDIContext struct{}

func (m NullMIDIContext) Inputs(yield func(input MIDIInputDevice) bool) {}
func (m NullMIDIContext) Close()                                        {}
func (m NullMIDIContext) Support() MIDISupport                          { return MIDISupportNotCompiled }
