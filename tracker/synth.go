package tracker

import (
	"fmt"
	"math"
)

type (
	// Synth computes the waveform of a single voice at time t seconds. All
	// voices are driven from the same clock, so the phase of a voice is not
	// reset when its note starts.
	Synth interface {
		Oscillate(freq, t float64) float64
	}

	// SineSynth is a plain sine oscillator.
	SineSynth struct{}

	// FMSynth modulates a sine carrier with a second sine at Ratio times the
	// carrier frequency. Index is the modulation depth in radians.
	FMSynth struct {
		Ratio float64
		Index float64
	}
)

var DefaultFMSynth = FMSynth{Ratio: 2, Index: 1.5}

func (SineSynth) Oscillate(freq, t float64) float64 {
	return math.Sin(2 * math.Pi * freq * t)
}

func (s FMSynth) Oscillate(freq, t float64) float64 {
	mod := s.Index * math.Sin(2*math.Pi*s.Ratio*freq*t)
	return math.Sin(2*math.Pi*freq*t + mod)
}

// NewSynth returns the synth with the given name: "sine" or "fm".
func NewSynth(name string, fm FMSynth) (Synth, error) {
	switch name {
	case "", "sine":
		return SineSynth{}, nil
	case "fm":
		return fm, nil
	}
	return nil, fmt.Errorf("unknown synth %q, expected sine or fm", name)
}
