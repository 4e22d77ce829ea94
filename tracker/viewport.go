package tracker

import (
	"fmt"

	"github.com/rollseq/rollseq"
)

// BarLength is the length of a 4/4 bar in b32.
const BarLength = 32

// Viewport is the visible part of the piano roll. The rows are centered on
// MiddlePitch; the columns start from Time, one column per Resolution cell.
// Columns and Rows are set by the front-end whenever the screen is resized.
type Viewport struct {
	MiddlePitch  rollseq.Pitch
	Resolution   Resolution
	Time         int
	PlaybackTime int
	Columns      int
	Rows         int
}

func NewViewport(middle rollseq.Pitch, resolution Resolution) Viewport {
	return Viewport{MiddlePitch: middle, Resolution: resolution, Columns: resolution.CellsPerBar(), Rows: 2 * rollseq.NumTones}
}

// PitchRange returns the lowest and highest visible pitches.
func (v Viewport) PitchRange() (low, high rollseq.Pitch) {
	rows := max(v.Rows, 1)
	lo := v.MiddlePitch.Height() - rows/2
	lo = max(min(lo, rollseq.MaxPitch.Height()-rows+1), rollseq.MinPitch.Height())
	hi := min(lo+rows-1, rollseq.MaxPitch.Height())
	low, _ = rollseq.NewPitch(lo)
	high, _ = rollseq.NewPitch(hi)
	return low, high
}

// EnsurePitchVisible moves the middle pitch as little as possible so that p
// is visible.
func (v Viewport) EnsurePitchVisible(p rollseq.Pitch) Viewport {
	for i := 0; i < rollseq.MaxPitch.Height(); i++ {
		low, high := v.PitchRange()
		switch {
		case p.Less(low):
			v = v.PrevOctave()
		case high.Less(p):
			v = v.NextOctave()
		default:
			return v
		}
	}
	return v
}

// VisibleEnd returns the first time after the visible columns.
func (v Viewport) VisibleEnd() int {
	return v.Time + max(v.Columns, 1)*v.Resolution.Duration()
}

func (v Viewport) middleTime() int {
	return v.Time + (v.VisibleEnd()-v.Time)/2
}

// NextOctave moves the view one semitone up.
func (v Viewport) NextOctave() Viewport {
	if p, ok := v.MiddlePitch.Next(); ok {
		v.MiddlePitch = p
	}
	return v
}

// PrevOctave moves the view one semitone down.
func (v Viewport) PrevOctave() Viewport {
	if p, ok := v.MiddlePitch.Prev(); ok {
		v.MiddlePitch = p
	}
	return v
}

// NextBar scrolls one bar forward, but only once the playhead has passed the
// middle of the view.
func (v Viewport) NextBar() Viewport {
	if v.PlaybackTime > v.middleTime() {
		v.Time += BarLength
	}
	return v
}

// PrevBar scrolls one bar back, but only while the playhead is before the
// middle of the view.
func (v Viewport) PrevBar() Viewport {
	if v.PlaybackTime < v.middleTime() && v.Time >= BarLength {
		v.Time -= BarLength
	}
	return v
}

// ScrollBars scrolls the view by n bars regardless of the playhead, never
// before time 0.
func (v Viewport) ScrollBars(n int) Viewport {
	v.Time = max(v.Time+n*BarLength, 0)
	return v
}

func (v Viewport) IncreaseResolution() Viewport {
	v.Resolution = v.Resolution.Finer()
	return v
}

func (v Viewport) DecreaseResolution() Viewport {
	v.Resolution = v.Resolution.Coarser()
	return v
}

func (v Viewport) SetPlaybackTime(t int) Viewport {
	v.PlaybackTime = t
	return v
}

// page is the scrolling step: a bar, or the visible width when the view is
// narrower than a bar.
func (v Viewport) page() int {
	return min(BarLength, v.VisibleEnd()-v.Time)
}

// FollowPlayhead makes sure the playhead is visible, jumping to the start of
// the page containing it if it has left the view.
func (v Viewport) FollowPlayhead() Viewport {
	if v.PlaybackTime < v.Time || v.PlaybackTime >= v.VisibleEnd() {
		v.Time = v.PlaybackTime - v.PlaybackTime%v.page()
	}
	return v
}

// Follow keeps the playhead in view during playback. The view turns a bar
// once the playhead passes its middle, rewinds bar by bar when the playhead
// jumps back, and jumps when the playhead is out of reach otherwise.
func (v Viewport) Follow() Viewport {
	for v.PlaybackTime < v.Time && v.Time >= BarLength {
		v = v.PrevBar()
	}
	if next := v.NextBar(); next.Time <= v.PlaybackTime {
		v = next
	}
	return v.FollowPlayhead()
}

// EnsureVisible scrolls the view page by page so that time t is visible.
func (v Viewport) EnsureVisible(t int) Viewport {
	step := v.page()
	for t < v.Time && v.Time > 0 {
		v.Time = max(v.Time-step, 0)
	}
	for t >= v.VisibleEnd() {
		v.Time += step
	}
	return v
}

func (v Viewport) String() string {
	return fmt.Sprintf("%v %d %d", v.MiddlePitch, v.Time, v.PlaybackTime)
}
