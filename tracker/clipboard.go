package tracker

import (
	"fmt"

	"github.com/rollseq/rollseq"
	"gopkg.in/yaml.v3"
)

// SelectionBuffer is the clipboard of the editing session. The zero value is
// empty. The buffered score is always a detached copy: it never shares storage
// with the live score.
type SelectionBuffer struct {
	score *rollseq.Score
}

// NewSelectionBuffer returns a buffer holding a copy of s.
func NewSelectionBuffer(s *rollseq.Score) SelectionBuffer {
	if s == nil {
		return SelectionBuffer{}
	}
	return SelectionBuffer{score: s.Copy()}
}

func (b SelectionBuffer) Empty() bool { return b.score == nil }

// Score returns a copy of the buffered score; ok is false if the buffer is
// empty.
func (b SelectionBuffer) Score() (s *rollseq.Score, ok bool) {
	if b.score == nil {
		return nil, false
	}
	return b.score.Copy(), true
}

// TranslateTo returns the buffer moved to start at time t. An empty buffer
// stays empty.
func (b SelectionBuffer) TranslateTo(t int) SelectionBuffer {
	if b.score == nil {
		return b
	}
	return SelectionBuffer{score: b.score.TranslateTo(t)}
}

type (
	clipboardNote struct {
		Pitch    string `yaml:"pitch"`
		Onset    int    `yaml:"onset"`
		Duration int    `yaml:"duration"`
	}

	clipboardData struct {
		BPM   int             `yaml:"bpm"`
		Notes []clipboardNote `yaml:"notes"`
	}
)

// MarshalYAML encodes the buffer so it can be exchanged through the system
// clipboard or a file.
func (b SelectionBuffer) MarshalYAML() (any, error) {
	if b.score == nil {
		return clipboardData{}, nil
	}
	data := clipboardData{BPM: b.score.BPM}
	for _, n := range b.score.Notes() {
		data.Notes = append(data.Notes, clipboardNote{Pitch: n.Pitch.FileString(), Onset: n.Onset, Duration: n.Duration})
	}
	return data, nil
}

func (b *SelectionBuffer) UnmarshalYAML(node *yaml.Node) error {
	var data clipboardData
	if err := node.Decode(&data); err != nil {
		return err
	}
	if len(data.Notes) == 0 {
		*b = SelectionBuffer{}
		return nil
	}
	score := rollseq.NewScore(data.BPM)
	for _, n := range data.Notes {
		p, ok := rollseq.ParsePitch(n.Pitch)
		if !ok {
			return fmt.Errorf("invalid pitch %q", n.Pitch)
		}
		score.InsertOrRemove(p, n.Onset, n.Duration)
	}
	*b = SelectionBuffer{score: score}
	return nil
}
