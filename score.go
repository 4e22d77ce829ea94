package rollseq

import (
	"cmp"
	"fmt"

	"golang.org/x/exp/slices"
)

type (
	// Note is a single pitched event. Onset and Duration are in b32 units, i.e.
	// in 32nd notes. Notes are values: editing the score replaces notes, it
	// never mutates them.
	Note struct {
		Pitch    Pitch
		Onset    int
		Duration int
	}

	// Phase tells where an instant falls within the span of a note.
	Phase int

	// ActiveNote is a note sounding at some instant, together with the phase of
	// the note at that instant.
	ActiveNote struct {
		Note  Note
		Phase Phase
	}

	// Score holds the notes of a song, indexed by their onset times. In
	// addition, Score maintains an index from every instant to the notes that
	// are active at that instant. The active index is a cache derived from the
	// notes: every mutating method keeps it equal to what rebuilding it from
	// scratch would produce, which Validate can verify.
	//
	// A Score is not safe for concurrent use; share it behind a lock.
	Score struct {
		BPM int

		notes  map[int][]Note
		active map[int][]ActiveNote
	}
)

const (
	PhaseOnset Phase = iota
	PhaseSustain
	PhaseRelease
)

const DefaultBPM = 120

func (p Phase) String() string {
	switch p {
	case PhaseOnset:
		return "Onset"
	case PhaseSustain:
		return "Sustain"
	case PhaseRelease:
		return "Release"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// End returns the first instant after the note, i.e. Onset + Duration.
func (n Note) End() int { return n.Onset + n.Duration }

// PhaseAt returns the phase of the note at instant t. The first instant of a
// note is always PhaseOnset, even if the note is only one instant long.
func (n Note) PhaseAt(t int) Phase {
	switch {
	case t == n.Onset:
		return PhaseOnset
	case t == n.End()-1:
		return PhaseRelease
	}
	return PhaseSustain
}

func (n Note) String() string {
	return fmt.Sprintf("%v@%d+%d", n.Pitch, n.Onset, n.Duration)
}

// NewScore returns an empty Score.
func NewScore(bpm int) *Score {
	return &Score{
		BPM:    bpm,
		notes:  map[int][]Note{},
		active: map[int][]ActiveNote{},
	}
}

// Copy returns a deep copy of the score; the copy shares no storage with the
// original.
func (s *Score) Copy() *Score {
	ret := NewScore(s.BPM)
	for onset, notes := range s.notes {
		ret.notes[onset] = slices.Clone(notes)
	}
	for t, active := range s.active {
		ret.active[t] = slices.Clone(active)
	}
	return ret
}

// NotesStartingAt returns the notes whose onset is exactly the given time.
func (s *Score) NotesStartingAt(onset int) []Note {
	return slices.Clone(s.notes[onset])
}

// NotesActiveAt returns the notes sounding at instant t, with their phases.
func (s *Score) NotesActiveAt(t int) []ActiveNote {
	return slices.Clone(s.active[t])
}

// TimeWithinSong reports whether some note still sounds at or after t.
func (s *Score) TimeWithinSong(t int) bool {
	return t < s.End()
}

// InsertOrRemove toggles a note: if a note with the same pitch already starts
// at onset, it is removed, otherwise a new note is added. Overlapping notes
// are left as they are.
func (s *Score) InsertOrRemove(pitch Pitch, onset, duration int) {
	notes := s.notes[onset]
	for i, n := range notes {
		if n.Pitch == pitch {
			s.removeAt(onset, i)
			return
		}
	}
	s.add(Note{Pitch: pitch, Onset: onset, Duration: max(duration, 1)})
}

// Insert adds a note, merging it with all the notes of the same pitch that
// overlap it: the result is one note spanning all of them. Notes that only
// touch the new note (end where it starts or start where it ends) are not
// merged.
func (s *Score) Insert(pitch Pitch, onset, duration int) {
	start, end := onset, onset+max(duration, 1)
	var overlapping []Note
	for o, notes := range s.notes {
		if o >= end {
			continue
		}
		for _, n := range notes {
			if n.Pitch == pitch && n.Onset < onset+max(duration, 1) && n.End() > onset {
				overlapping = append(overlapping, n)
			}
		}
	}
	for _, n := range overlapping {
		s.remove(n)
		start = min(start, n.Onset)
		end = max(end, n.End())
	}
	s.add(Note{Pitch: pitch, Onset: start, Duration: end - start})
}

// DeleteInSelection removes all notes starting within the time range of r and
// having a pitch within its pitch range. The active index is rebuilt from the
// remaining notes.
func (s *Score) DeleteInSelection(r SelectionRange) {
	for onset, notes := range s.notes {
		if onset < r.Start || onset >= r.End {
			continue
		}
		kept := notes[:0]
		for _, n := range notes {
			if !r.ContainsPitch(n.Pitch) {
				kept = append(kept, n)
			}
		}
		if len(kept) == 0 {
			delete(s.notes, onset)
		} else {
			s.notes[onset] = kept
		}
	}
	s.reindex()
}

// CloneAtSelection returns a new score with the notes that start within the
// time range of r and have a pitch within its pitch range.
func (s *Score) CloneAtSelection(r SelectionRange) *Score {
	ret := NewScore(s.BPM)
	for _, n := range s.Notes() {
		if r.Contains(n.Pitch, n.Onset) {
			ret.InsertOrRemove(n.Pitch, n.Onset, n.Duration)
		}
	}
	return ret
}

// TranslateTo returns a copy of the score shifted in time so that the earliest
// onset is at start. The shift can be either forward or backward. An empty
// score is returned as an unchanged copy.
func (s *Score) TranslateTo(start int) *Score {
	first, ok := s.Start()
	if !ok {
		return s.Copy()
	}
	delta := start - first
	ret := NewScore(s.BPM)
	for _, n := range s.Notes() {
		ret.InsertOrRemove(n.Pitch, n.Onset+delta, n.Duration)
	}
	return ret
}

// MergeDown returns a copy of the score with all the notes of other inserted
// into it using Insert, so overlapping notes of the same pitch are merged.
func (s *Score) MergeDown(other *Score) *Score {
	ret := s.Copy()
	for _, n := range other.Notes() {
		ret.Insert(n.Pitch, n.Onset, n.Duration)
	}
	return ret
}

// Duration returns the time from the first onset to the end of the last note,
// or 0 for an empty score.
func (s *Score) Duration() int {
	first, ok := s.Start()
	if !ok {
		return 0
	}
	return s.End() - first
}

// Start returns the earliest onset. ok is false if the score is empty.
func (s *Score) Start() (start int, ok bool) {
	for onset := range s.notes {
		if !ok || onset < start {
			start, ok = onset, true
		}
	}
	return
}

// End returns the latest end time of all notes, or 0 for an empty score.
func (s *Score) End() int {
	end := 0
	for _, notes := range s.notes {
		for _, n := range notes {
			end = max(end, n.End())
		}
	}
	return end
}

// Len returns the number of notes in the score.
func (s *Score) Len() int {
	ret := 0
	for _, notes := range s.notes {
		ret += len(notes)
	}
	return ret
}

// Onsets returns all the onset times having at least one note, in ascending
// order.
func (s *Score) Onsets() []int {
	ret := make([]int, 0, len(s.notes))
	for onset := range s.notes {
		ret = append(ret, onset)
	}
	slices.Sort(ret)
	return ret
}

// Notes returns all the notes, ordered by onset and then by pitch.
func (s *Score) Notes() []Note {
	ret := make([]Note, 0, s.Len())
	for _, notes := range s.notes {
		ret = append(ret, notes...)
	}
	slices.SortFunc(ret, compareNotes)
	return ret
}

// Equal reports whether the two scores have the same tempo and notes.
func (s *Score) Equal(other *Score) bool {
	if s.BPM != other.BPM {
		return false
	}
	return slices.Equal(s.Notes(), other.Notes())
}

// Validate checks that the active index matches what would be built from the
// notes, and that the notes are stored under their own onsets.
func (s *Score) Validate() error {
	for onset, notes := range s.notes {
		if len(notes) == 0 {
			return fmt.Errorf("onset %d has an empty note list", onset)
		}
		for _, n := range notes {
			if n.Onset != onset {
				return fmt.Errorf("note %v stored under onset %d", n, onset)
			}
			if n.Duration < 1 {
				return fmt.Errorf("note %v has a non-positive duration", n)
			}
		}
	}
	want := buildActiveIndex(s.notes)
	if len(want) != len(s.active) {
		return fmt.Errorf("active index has %d instants, expected %d", len(s.active), len(want))
	}
	for t, w := range want {
		got := slices.Clone(s.active[t])
		slices.SortFunc(got, compareActiveNotes)
		slices.SortFunc(w, compareActiveNotes)
		if !slices.Equal(got, w) {
			return fmt.Errorf("active index at %d is %v, expected %v", t, got, w)
		}
	}
	return nil
}

func (s *Score) add(n Note) {
	s.notes[n.Onset] = append(s.notes[n.Onset], n)
	for t := n.Onset; t < n.End(); t++ {
		s.active[t] = append(s.active[t], ActiveNote{Note: n, Phase: n.PhaseAt(t)})
	}
}

func (s *Score) remove(n Note) {
	for i, m := range s.notes[n.Onset] {
		if m == n {
			s.removeAt(n.Onset, i)
			return
		}
	}
}

func (s *Score) removeAt(onset, index int) {
	n := s.notes[onset][index]
	s.notes[onset] = slices.Delete(s.notes[onset], index, index+1)
	if len(s.notes[onset]) == 0 {
		delete(s.notes, onset)
	}
	for t := n.Onset; t < n.End(); t++ {
		s.active[t] = slices.DeleteFunc(s.active[t], func(a ActiveNote) bool { return a.Note == n })
		if len(s.active[t]) == 0 {
			delete(s.active, t)
		}
	}
}

func (s *Score) reindex() {
	s.active = buildActiveIndex(s.notes)
}

func buildActiveIndex(notes map[int][]Note) map[int][]ActiveNote {
	ret := map[int][]ActiveNote{}
	for _, ns := range notes {
		for _, n := range ns {
			for t := n.Onset; t < n.End(); t++ {
				ret[t] = append(ret[t], ActiveNote{Note: n, Phase: n.PhaseAt(t)})
			}
		}
	}
	return ret
}

func compareNotes(a, b Note) int {
	if c := cmp.Compare(a.Onset, b.Onset); c != 0 {
		return c
	}
	if c := a.Pitch.Compare(b.Pitch); c != 0 {
		return c
	}
	return cmp.Compare(a.Duration, b.Duration)
}

func compareActiveNotes(a, b ActiveNote) int {
	if c := compareNotes(a.Note, b.Note); c != 0 {
		return c
	}
	return cmp.Compare(a.Phase, b.Phase)
}
