package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rollseq/rollseq"
	"github.com/rollseq/rollseq/tracker"
)

type styles struct {
	cursor     lipgloss.Style
	playhead   lipgloss.Style
	note       lipgloss.Style
	empty      lipgloss.Style
	bar        lipgloss.Style
	whiteKey   lipgloss.Style
	blackKey   lipgloss.Style
	loopActive lipgloss.Style
	loopIdle   lipgloss.Style
	status     lipgloss.Style
	alerts     [3]lipgloss.Style // by priority
	help       lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		cursor:     lipgloss.NewStyle().Reverse(true),
		playhead:   lipgloss.NewStyle().Background(lipgloss.AdaptiveColor{Light: "254", Dark: "237"}),
		note:       lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		empty:      lipgloss.NewStyle().Faint(true),
		bar:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		whiteKey:   lipgloss.NewStyle(),
		blackKey:   lipgloss.NewStyle().Faint(true),
		loopActive: lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		loopIdle:   lipgloss.NewStyle().Faint(true),
		status:     lipgloss.NewStyle().Reverse(true),
		alerts: [3]lipgloss.Style{
			lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		},
		help: lipgloss.NewStyle().Faint(true),
	}
}

// labelWidth is the width of the pitch labels left of the grid.
const labelWidth = 5

const (
	glyphEmpty   = '.'
	glyphOnset   = '['
	glyphSustain = '='
	glyphRelease = ']'
	glyphBar     = '|'
)

// gridColumns returns how many cells fit in width, leaving room for the
// labels and a bar line before every bar.
func gridColumns(width int, r tracker.Resolution) int {
	cells := r.CellsPerBar()
	return max((width-labelWidth)*cells/(cells+1), 1)
}

func isBlackKey(t rollseq.Tone) bool {
	switch t {
	case rollseq.Cs, rollseq.Ds, rollseq.Fs, rollseq.Gs, rollseq.As:
		return true
	}
	return false
}

// phaseGlyph returns the glyph of a cell. A cell spans several instants at
// coarse resolutions, so the most significant phase in it is shown: onsets
// over releases over sustains.
func phaseGlyph(prev rune, p rollseq.Phase) rune {
	switch {
	case prev == glyphOnset || p == rollseq.PhaseOnset:
		return glyphOnset
	case prev == glyphRelease || p == rollseq.PhaseRelease:
		return glyphRelease
	}
	return glyphSustain
}

// gridCells collects the glyphs of the visible cells, one map per column.
func gridCells(s *rollseq.Score, v tracker.Viewport) []map[rollseq.Pitch]rune {
	d := v.Resolution.Duration()
	cells := make([]map[rollseq.Pitch]rune, max(v.Columns, 1))
	for i := range cells {
		g := map[rollseq.Pitch]rune{}
		t0 := v.Time + i*d
		for t := t0; t < t0+d; t++ {
			for _, a := range s.NotesActiveAt(t) {
				g[a.Note.Pitch] = phaseGlyph(g[a.Note.Pitch], a.Phase)
			}
		}
		cells[i] = g
	}
	return cells
}

func inCell(t, t0, d int) bool {
	return t >= t0 && t < t0+d
}

// renderHeader draws the loop markers and the playhead above the grid.
func renderHeader(m *tracker.Model, st styles) string {
	v := m.Viewport()
	d := v.Resolution.Duration()
	loop := m.Loop()
	loopStyle := st.loopIdle
	if loop.IsLooping() {
		loopStyle = st.loopActive
	}
	start, hasStart := loop.Start.Unpack()
	end, hasEnd := loop.End.Unpack()
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", labelWidth))
	for i := range max(v.Columns, 1) {
		t0 := v.Time + i*d
		if t0%tracker.BarLength == 0 {
			sb.WriteString(st.bar.Render(fmt.Sprint(t0 / tracker.BarLength % 10)))
		}
		switch {
		case m.PlayState() != tracker.Stopped && inCell(m.PlaybackTime(), t0, d):
			sb.WriteString(st.loopActive.Render("v"))
		case hasStart && inCell(start, t0, d):
			sb.WriteString(loopStyle.Render("["))
		case hasEnd && end > start && inCell(end-1, t0, d):
			sb.WriteString(loopStyle.Render("]"))
		case hasStart && hasEnd && t0 > start && t0 < end:
			sb.WriteString(loopStyle.Render("-"))
		default:
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// renderGrid draws the piano roll, the highest pitch on top.
func renderGrid(m *tracker.Model, st styles) string {
	v := m.Viewport()
	c := m.Cursor()
	d := v.Resolution.Duration()
	var cells []map[rollseq.Pitch]rune
	m.Score().Read(func(s *rollseq.Score) { cells = gridCells(s, v) })
	low, high := v.PitchRange()
	showPlayhead := m.PlayState() != tracker.Stopped
	rows := make([]string, 0, high.Height()-low.Height()+1)
	for h := high.Height(); h >= low.Height(); h-- {
		p, _ := rollseq.NewPitch(h)
		var sb strings.Builder
		label := st.whiteKey
		if isBlackKey(p.Tone) {
			label = st.blackKey
		}
		sb.WriteString(label.Render(fmt.Sprintf("%-*s", labelWidth, p.String())))
		for i, g := range cells {
			t0 := v.Time + i*d
			if t0%tracker.BarLength == 0 {
				sb.WriteString(st.bar.Render(string(glyphBar)))
			}
			glyph, ok := g[p]
			style := st.note
			if !ok {
				glyph, style = glyphEmpty, st.empty
			}
			switch {
			case c.VisibleAt(p, t0):
				style = st.cursor
			case showPlayhead && inCell(m.PlaybackTime(), t0, d):
				style = style.Inherit(st.playhead)
			}
			sb.WriteString(style.Render(string(glyph)))
		}
		rows = append(rows, sb.String())
	}
	return strings.Join(rows, "\n")
}

// helpCommands are the commands listed in the help line.
var helpCommands = []tracker.Command{
	tracker.ToggleNote, tracker.StartLongNote, tracker.StartSelect, tracker.Copy,
	tracker.Paste, tracker.TogglePlayback, tracker.MarkLoop, tracker.Save, tracker.Quit,
}

func renderHelp(km Keymap, st styles) string {
	var parts []string
	for _, c := range helpCommands {
		if hint := km.Hint(c); hint != "" {
			parts = append(parts, hint+" "+c.String())
		}
	}
	return st.help.Render(strings.Join(parts, " · "))
}

func renderAlert(m *tracker.Model, st styles) (string, bool) {
	a, ok := m.Alerts().Top()
	if !ok {
		return "", false
	}
	return st.alerts[min(max(int(a.Priority), 0), 2)].Render(a.Message), true
}
