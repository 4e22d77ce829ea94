package tracker

import (
	"fmt"

	"github.com/rollseq/rollseq/tracker/types"
)

type (
	// LoopState is the loop region of the song. The region is marked with two
	// calls to Mark and only takes effect when the mode is LoopLooping.
	LoopState struct {
		Start types.Optional[int]
		End   types.Optional[int]
		Mode  LoopMode
	}

	LoopMode int
)

const (
	LoopDisabled LoopMode = iota
	LoopLooping
)

func (m LoopMode) String() string {
	if m == LoopLooping {
		return "looping"
	}
	return "disabled"
}

// Mark fills in the next mark of the loop region. The first mark sets the
// start, the second the end, swapping the two if the second mark comes before
// the first. Marking a third time starts over from a fresh start mark.
func (l LoopState) Mark(t int) LoopState {
	start, hasStart := l.Start.Unpack()
	switch {
	case !hasStart:
		l.Start = types.NewOptionalOf(t)
	case l.End.Empty():
		if t < start {
			l.Start, l.End = types.NewOptionalOf(t), types.NewOptionalOf(start)
		} else {
			l.End = types.NewOptionalOf(t)
		}
	default:
		l.Start, l.End = types.NewOptionalOf(t), types.NewEmptyOptional[int]()
	}
	return l
}

func (l LoopState) ToggleMode() LoopState {
	if l.Mode == LoopLooping {
		l.Mode = LoopDisabled
	} else {
		l.Mode = LoopLooping
	}
	return l
}

func (l LoopState) SetMode(mode LoopMode) LoopState {
	l.Mode = mode
	return l
}

// Clear removes both marks and disables looping.
func (l LoopState) Clear() LoopState {
	return LoopState{}
}

// IsLooping reports whether the loop is enabled and both of its marks are set.
func (l LoopState) IsLooping() bool {
	return l.Mode == LoopLooping && !l.Start.Empty() && !l.End.Empty()
}

// Bounds returns the marked region; ok is false unless both marks are set.
func (l LoopState) Bounds() (start, end int, ok bool) {
	start, ok1 := l.Start.Unpack()
	end, ok2 := l.End.Unpack()
	return start, end, ok1 && ok2
}

func (l LoopState) String() string {
	f := func(o types.Optional[int]) string {
		if v, ok := o.Unpack(); ok {
			return fmt.Sprint(v)
		}
		return "-"
	}
	return fmt.Sprintf("%s..%s %v", f(l.Start), f(l.End), l.Mode)
}
