package rollseq

import "fmt"

// SelectionRange is a rectangle of the piano roll: the times [Start, End) and
// the pitches [Low, High], both ends of the pitch range included.
type SelectionRange struct {
	Start, End int
	Low, High  Pitch
}

// NewSelectionRange returns a normalized range spanning two picked corners,
// regardless of the order the corners were picked in.
func NewSelectionRange(p1 Pitch, t1 int, p2 Pitch, t2 int) SelectionRange {
	low, high := MinMaxPitch(p1, p2)
	return SelectionRange{Start: min(t1, t2), End: max(t1, t2), Low: low, High: high}
}

// Contains reports whether a note with the given pitch and onset falls within
// the range.
func (r SelectionRange) Contains(p Pitch, onset int) bool {
	return r.ContainsTime(onset) && r.ContainsPitch(p)
}

func (r SelectionRange) ContainsTime(t int) bool {
	return t >= r.Start && t < r.End
}

func (r SelectionRange) ContainsPitch(p Pitch) bool {
	return !p.Less(r.Low) && !r.High.Less(p)
}

func (r SelectionRange) String() string {
	return fmt.Sprintf("[%d,%d) %v..%v", r.Start, r.End, r.Low, r.High)
}
