package tracker

import (
	"sync"

	"github.com/rollseq/rollseq"
)

// ScoreHandle is the shared owner of the live score. The model edits it
// and the player reads it from the audio goroutine. When both the player and
// the score need to be locked, the player is always locked first.
type ScoreHandle struct {
	mu    sync.Mutex
	score *rollseq.Score
}

func NewScoreHandle(s *rollseq.Score) *ScoreHandle {
	if s == nil {
		s = rollseq.NewScore(rollseq.DefaultBPM)
	}
	return &ScoreHandle{score: s}
}

// Read calls f with the score locked. f must not keep the pointer.
func (h *ScoreHandle) Read(f func(s *rollseq.Score)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	f(h.score)
}

// Update calls f with the score locked, for editing in place.
func (h *ScoreHandle) Update(f func(s *rollseq.Score)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	f(h.score)
}

// Replace swaps in a whole new score, e.g. after a paste or loading a file.
func (h *ScoreHandle) Replace(s *rollseq.Score) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.score = s
}

// Snapshot returns a detached copy of the score.
func (h *ScoreHandle) Snapshot() *rollseq.Score {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.score.Copy()
}

// Transform replaces the score with the result of f, with the score locked
// for the whole operation. Used for the operations returning a new score,
// such as MergeDown.
func (h *ScoreHandle) Transform(f func(s *rollseq.Score) *rollseq.Score) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.score = f(h.score)
}
