package rollseq_test

import (
	"testing"

	"github.com/rollseq/rollseq"
)

func TestSelectionRangeIsNormalized(t *testing.T) {
	c4 := rollseq.Pitch{Tone: rollseq.C, Octave: 4}
	g5 := rollseq.Pitch{Tone: rollseq.G, Octave: 5}
	want := rollseq.SelectionRange{Start: 8, End: 24, Low: c4, High: g5}
	for _, r := range []rollseq.SelectionRange{
		rollseq.NewSelectionRange(c4, 8, g5, 24),
		rollseq.NewSelectionRange(g5, 24, c4, 8),
		rollseq.NewSelectionRange(c4, 24, g5, 8),
		rollseq.NewSelectionRange(g5, 8, c4, 24),
	} {
		if r != want {
			t.Errorf("got %v, expected %v", r, want)
		}
	}
}

func TestSelectionRangeContains(t *testing.T) {
	c4 := rollseq.Pitch{Tone: rollseq.C, Octave: 4}
	e4 := rollseq.Pitch{Tone: rollseq.E, Octave: 4}
	r := rollseq.NewSelectionRange(c4, 0, e4, 16)
	tests := []struct {
		pitch rollseq.Pitch
		onset int
		want  bool
	}{
		{c4, 0, true},
		{e4, 15, true},
		{e4, 16, false},
		{rollseq.Pitch{Tone: rollseq.D, Octave: 4}, 8, true},
		{rollseq.Pitch{Tone: rollseq.F, Octave: 4}, 8, false},
		{rollseq.Pitch{Tone: rollseq.B, Octave: 3}, 8, false},
		{c4, -1, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.pitch, tt.onset); got != tt.want {
			t.Errorf("%v.Contains(%v, %d) = %v, expected %v", r, tt.pitch, tt.onset, got, tt.want)
		}
	}
}
