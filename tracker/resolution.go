package tracker

// Resolution is the grid of the piano roll: how long one cell is.
type Resolution int

const (
	Resolution1_4 Resolution = iota
	Resolution1_8
	Resolution1_16
	Resolution1_32
)

var resolutionNames = [...]string{"1/4", "1/8", "1/16", "1/32"}

func (r Resolution) String() string {
	if r < Resolution1_4 || r > Resolution1_32 {
		return "?"
	}
	return resolutionNames[r]
}

// Duration returns the length of one cell in b32.
func (r Resolution) Duration() int {
	return 8 >> r.clamp()
}

// CellsPerBar returns the number of cells in a 4/4 bar.
func (r Resolution) CellsPerBar() int {
	return 32 / r.Duration()
}

// Finer returns the next finer resolution, e.g. 1/16 after 1/8.
func (r Resolution) Finer() Resolution {
	return min(r.clamp()+1, Resolution1_32)
}

// Coarser returns the next coarser resolution, e.g. 1/8 after 1/16.
func (r Resolution) Coarser() Resolution {
	return max(r.clamp()-1, Resolution1_4)
}

func (r Resolution) clamp() Resolution {
	return min(max(r, Resolution1_4), Resolution1_32)
}

// ParseResolution parses names like "1/16".
func ParseResolution(s string) (Resolution, bool) {
	for i, n := range resolutionNames {
		if n == s {
			return Resolution(i), true
		}
	}
	return 0, false
}
