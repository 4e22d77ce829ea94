package tracker

import (
	"sync"

	"github.com/rollseq/rollseq"
	"github.com/viterin/vek/vek32"
	"golang.org/x/exp/slices"
)

type (
	// Player turns the score into audio and advances the musical clock. It is
	// driven by the audio goroutine calling Process, and controlled by the
	// model through its methods. The player reports every clock change to the
	// model as a beat message through the broker.
	//
	// The clock advances one b32 every TicksPerB32 samples. At every b32
	// boundary the set of sounding notes is refreshed from the score.
	Player struct {
		mu sync.Mutex

		score      *ScoreHandle
		synth      Synth
		sampleRate int
		broker     *Broker
		gain       float32

		state       PlayState
		tick        int // samples generated since the clock was last reset
		timeB32     int
		ticksPerB32 int
		active      []rollseq.Note
		loop        LoopState

		auditions []auditionVoice
		mono      []float32
	}

	PlayState int

	// auditionVoice is a single pitch played outside the song, e.g. when a note
	// is entered. Unlike song voices, it has its own sample counter.
	auditionVoice struct {
		freq      float64
		tick      int
		remaining int
	}
)

const (
	Stopped PlayState = iota
	Playing
	Paused
)

const DefaultSampleRate = 48000

// maxAuditions is the number of simultaneous audition voices; the oldest is
// dropped when more are started.
const maxAuditions = 8

func (s PlayState) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return "stopped"
}

func NewPlayer(broker *Broker, score *ScoreHandle, synth Synth, sampleRate int) *Player {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if synth == nil {
		synth = SineSynth{}
	}
	p := &Player{
		broker:     broker,
		score:      score,
		synth:      synth,
		sampleRate: sampleRate,
		gain:       1,
	}
	score.Read(func(s *rollseq.Score) { p.ticksPerB32 = ticksPerB32(sampleRate, s.BPM) })
	return p
}

func ticksPerB32(sampleRate, bpm int) int {
	if bpm <= 0 {
		bpm = rollseq.DefaultBPM
	}
	return max(sampleRate*60/bpm/32, 1)
}

func (p *Player) SampleRate() int { return p.sampleRate }

func (p *Player) State() PlayState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// TimeB32 returns the musical clock.
func (p *Player) TimeB32() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timeB32
}

func (p *Player) TicksPerB32() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ticksPerB32
}

// ActiveNotes returns the notes currently sounding.
func (p *Player) ActiveNotes() []rollseq.Note {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.active)
}

func (p *Player) Synth() Synth {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.synth
}

func (p *Player) SetSynth(s Synth) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.synth = s
}

// SetGain sets the master gain applied to the output.
func (p *Player) SetGain(gain float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gain = gain
}

func (p *Player) SetLoop(l LoopState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loop = l
}

func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = Playing
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Playing {
		p.state = Paused
	}
}

// TogglePlayback pauses a playing player and starts a paused or stopped one.
func (p *Player) TogglePlayback() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Playing {
		p.state = Paused
	} else {
		p.state = Playing
	}
}

// Stop stops the player and rewinds the clock to zero.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stop()
	p.sendBeat()
}

// SetTimeB32 pauses the player and moves the clock to t. The notes sounding
// at t become the active notes.
func (p *Player) SetTimeB32(t int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = Paused
	p.tick = 0
	p.timeB32 = max(t, 0)
	p.active = p.active[:0]
	p.score.Read(func(s *rollseq.Score) {
		p.ticksPerB32 = ticksPerB32(p.sampleRate, s.BPM)
		for _, a := range s.NotesActiveAt(p.timeB32) {
			p.active = append(p.active, a.Note)
		}
	})
	p.sendBeat()
}

// Audition plays a single pitch for the given number of samples, regardless
// of whether the song is playing.
func (p *Player) Audition(pitch rollseq.Pitch, samples int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.auditions) >= maxAuditions {
		p.auditions = slices.Delete(p.auditions, 0, 1)
	}
	p.auditions = append(p.auditions, auditionVoice{freq: pitch.Frequency(), remaining: samples})
}

// NextSample generates a single sample and advances the clock by one tick.
func (p *Player) NextSample() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gain * p.nextSample()
}

// Process fills the buffer with audio, locking the player once for the whole
// buffer. The same mono signal is written to both channels. A copy of the
// rendered audio is sent to the level detector.
func (p *Player) Process(buffer rollseq.AudioBuffer) {
	p.mu.Lock()
	if cap(p.mono) < len(buffer) {
		p.mono = make([]float32, len(buffer))
	}
	mono := p.mono[:len(buffer)]
	for i := range mono {
		mono[i] = p.nextSample()
	}
	vek32.MulNumber_Inplace(mono, p.gain)
	p.mu.Unlock()
	for i, v := range mono {
		buffer[i] = [2]float32{v, v}
	}
	if p.broker == nil {
		return
	}
	bufPtr := p.broker.GetAudioBuffer() // borrow a buffer from the broker
	*bufPtr = append(*bufPtr, buffer...)
	if len(*bufPtr) == 0 || !TrySend(p.broker.ToDetector, MsgToDetector{Data: bufPtr}) {
		p.broker.PutAudioBuffer(bufPtr)
	}
}

func (p *Player) nextSample() float32 {
	var sum float64
	voices := 0
	if p.state == Playing {
		if p.tick == 0 {
			p.refresh()
		}
		if p.state == Playing {
			t := float64(p.tick) / float64(p.sampleRate)
			for _, n := range p.active {
				sum += p.synth.Oscillate(n.Pitch.Frequency(), t)
			}
			voices += len(p.active)
			p.tick++
			if p.tick%p.ticksPerB32 == 0 {
				p.timeB32++
				p.refresh()
			}
		}
	}
	kept := p.auditions[:0]
	for _, a := range p.auditions {
		sum += p.synth.Oscillate(a.freq, float64(a.tick)/float64(p.sampleRate))
		voices++
		a.tick++
		a.remaining--
		if a.remaining > 0 {
			kept = append(kept, a)
		}
	}
	p.auditions = kept
	if voices == 0 {
		return 0
	}
	return float32(sum / float64(voices))
}

// refresh updates the active notes at a b32 boundary. Must be called with the
// player locked; locks the score.
func (p *Player) refresh() {
	start, end, _ := p.loop.Bounds()
	looping := p.loop.IsLooping()
	if looping && (p.timeB32 >= end || p.timeB32 < start) {
		p.timeB32 = start
		p.active = p.active[:0]
	}
	within, loopWithin := true, true
	p.score.Read(func(s *rollseq.Score) {
		p.ticksPerB32 = ticksPerB32(p.sampleRate, s.BPM)
		for _, n := range s.NotesStartingAt(p.timeB32) {
			if !slices.Contains(p.active, n) {
				p.active = append(p.active, n)
			}
		}
		within = s.TimeWithinSong(p.timeB32)
		loopWithin = s.TimeWithinSong(start)
	})
	p.active = slices.DeleteFunc(p.active, func(n rollseq.Note) bool { return n.End() <= p.timeB32 })
	// a loop starting after the last note would only repeat silence
	if !within && (!looping || !loopWithin) {
		p.stop()
	}
	p.sendBeat()
}

func (p *Player) stop() {
	p.state = Stopped
	p.tick = 0
	p.timeB32 = 0
	p.active = p.active[:0]
}

func (p *Player) sendBeat() {
	if p.broker == nil {
		return
	}
	TrySend(p.broker.ToModel, MsgToModel{HasBeat: true, TimeB32: p.timeB32, PlayState: p.state})
}
