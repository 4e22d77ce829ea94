package tui

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/rollseq/rollseq"
	"github.com/rollseq/rollseq/tracker"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StatusData is what the status bar template is executed with.
type StatusData struct {
	Mode       string
	Cursor     string
	Resolution string
	BPM        int
	PlayState  string
	Time       string
	Loop       string
	Follow     bool
	File       string
	Changed    bool
	Notes      int
	Peak       float64
	RMS        float64
}

var titleCaser = cases.Title(language.English)

// ParseStatusTemplate parses a status bar template. The sprig functions are
// available in the template.
func ParseStatusTemplate(text string) (*template.Template, error) {
	t, err := template.New("status").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("status template: %w", err)
	}
	return t, nil
}

// formatTime formats a time in b32 as bar.beat.b32, counting from 1.
func formatTime(t int) string {
	return fmt.Sprintf("%d.%d.%d", t/tracker.BarLength+1, t%tracker.BarLength/8+1, t%8+1)
}

func makeStatusData(m *tracker.Model) StatusData {
	c := m.Cursor()
	d := StatusData{
		Mode:       titleCaser.String(c.CurrentMode().String()),
		Cursor:     fmt.Sprintf("%v @ %s", c.Pitch, formatTime(c.Time)),
		Resolution: m.Viewport().Resolution.String(),
		PlayState:  m.PlayState().String(),
		Time:       formatTime(m.PlaybackTime()),
		Loop:       m.Loop().String(),
		Follow:     m.Follow(),
		File:       m.FilePath(),
		Changed:    m.ChangedSinceSave(),
	}
	m.Score().Read(func(s *rollseq.Score) {
		d.BPM = s.BPM
		d.Notes = s.Len()
	})
	levels := m.Levels()
	d.Peak = float64(max(levels.Peak[0], levels.Peak[1]))
	d.RMS = float64(max(levels.RMS[0], levels.RMS[1]))
	return d
}

func renderStatus(t *template.Template, m *tracker.Model) string {
	var sb strings.Builder
	if err := t.Execute(&sb, makeStatusData(m)); err != nil {
		return "status template: " + err.Error()
	}
	return sb.String()
}
