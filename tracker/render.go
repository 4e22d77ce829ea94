package tracker

import (
	"github.com/rollseq/rollseq"
)

// RenderOptions configure offline rendering. Zero values select the
// defaults.
type RenderOptions struct {
	SampleRate int
	Synth      Synth
	// MaxSamples limits the length of the output; 0 means no limit.
	MaxSamples int
}

// renderChunk is the number of samples processed at once.
const renderChunk = 4096

// Render plays the score with a private player and returns the audio. If the
// loop is active, the looped section is rendered once; otherwise the song is
// rendered from the start until its last note ends.
func Render(score *rollseq.Score, loop LoopState, opts RenderOptions) rollseq.AudioBuffer {
	p := NewPlayer(nil, NewScoreHandle(score.Copy()), opts.Synth, opts.SampleRate)
	tpb := p.TicksPerB32()
	start, end := 0, score.End()
	if loop.IsLooping() {
		start, end, _ = loop.Bounds()
		p.SetLoop(loop)
	}
	n := max(end-start, 0) * tpb
	if opts.MaxSamples > 0 {
		n = min(n, opts.MaxSamples)
	}
	p.SetTimeB32(start)
	p.Play()
	out := make(rollseq.AudioBuffer, n)
	for i := 0; i < n; i += renderChunk {
		p.Process(out[i:min(i+renderChunk, n)])
	}
	return out
}
