package rollseq

import (
	"fmt"
	"math"
	"strconv"
)

type (
	// Tone is one of the twelve semitone classes of the chromatic scale,
	// starting from C.
	Tone int

	// Pitch is a tone in a specific octave. Pitches are ordered by their
	// musical height, so C#4 < D4 and B3 < C4. The zero value is C0, the
	// lowest pitch.
	Pitch struct {
		Tone   Tone
		Octave int
	}
)

const (
	C Tone = iota
	Cs
	D
	Ds
	E
	F
	Fs
	G
	Gs
	A
	As
	B

	NumTones = 12
)

const (
	MinOctave = 0
	MaxOctave = 8
)

var (
	MinPitch = Pitch{Tone: C, Octave: MinOctave}
	MaxPitch = Pitch{Tone: B, Octave: MaxOctave}

	// A4 is the tuning reference, 440 Hz.
	A4 = Pitch{Tone: A, Octave: 4}
)

var toneNames = [NumTones]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// toneFileNames are used in the song file, where '#' is spelled as 's'.
var toneFileNames = [NumTones]string{"C", "Cs", "D", "Ds", "E", "F", "Fs", "G", "Gs", "A", "As", "B"}

func (t Tone) String() string {
	if t < 0 || t >= NumTones {
		return fmt.Sprintf("Tone(%d)", int(t))
	}
	return toneNames[t]
}

// NewPitch returns the pitch at the given height (12*octave + tone). ok is
// false if the height is outside the range C0..B8.
func NewPitch(height int) (p Pitch, ok bool) {
	if height < MinPitch.Height() || height > MaxPitch.Height() {
		return Pitch{}, false
	}
	return Pitch{Tone: Tone(height % NumTones), Octave: height / NumTones}, true
}

// Height returns the number of semitones above C0.
func (p Pitch) Height() int {
	return p.Octave*NumTones + int(p.Tone)
}

// Compare returns -1, 0 or 1 depending on whether p is lower than, equal to or
// higher than q.
func (p Pitch) Compare(q Pitch) int {
	a, b := p.Height(), q.Height()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (p Pitch) Less(q Pitch) bool { return p.Height() < q.Height() }

// Next returns the pitch one semitone higher. ok is false at B8.
func (p Pitch) Next() (Pitch, bool) {
	return NewPitch(p.Height() + 1)
}

// Prev returns the pitch one semitone lower. ok is false at C0.
func (p Pitch) Prev() (Pitch, bool) {
	return NewPitch(p.Height() - 1)
}

// Frequency returns the equal temperament frequency of the pitch in Hz, tuned
// to A4 = 440 Hz.
func (p Pitch) Frequency() float64 {
	return 440 * math.Pow(2, float64(p.Height()-A4.Height())/NumTones)
}

func (p Pitch) String() string {
	return fmt.Sprintf("%s%d", p.Tone, p.Octave)
}

// FileString returns the pitch spelled as in the song file, e.g. "Cs4".
func (p Pitch) FileString() string {
	if p.Tone < 0 || p.Tone >= NumTones {
		return p.String()
	}
	return fmt.Sprintf("%s%d", toneFileNames[p.Tone], p.Octave)
}

// ParseTone parses tone names as written in the song file ("Cs") or with a
// sharp sign ("C#").
func ParseTone(s string) (Tone, bool) {
	for i := range NumTones {
		if toneFileNames[i] == s || toneNames[i] == s {
			return Tone(i), true
		}
	}
	return 0, false
}

// MinMaxPitch returns the two pitches ordered from low to high.
func MinMaxPitch(a, b Pitch) (low, high Pitch) {
	if b.Less(a) {
		return b, a
	}
	return a, b
}

// ParsePitch parses a tone followed by an octave, e.g. "Cs4" or "C#4".
func ParsePitch(s string) (Pitch, bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	tone, ok := ParseTone(s[:i])
	if !ok || i == len(s) {
		return Pitch{}, false
	}
	octave, err := strconv.Atoi(s[i:])
	if err != nil || octave < MinOctave || octave > MaxOctave {
		return Pitch{}, false
	}
	return Pitch{Tone: tone, Octave: octave}, true
}
