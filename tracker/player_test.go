package tracker_test

import (
	"math"
	"testing"

	"github.com/rollseq/rollseq"
	"github.com/rollseq/rollseq/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlayer(broker *tracker.Broker, notes ...rollseq.Note) (*tracker.Player, *tracker.ScoreHandle) {
	s := rollseq.NewScore(120)
	for _, n := range notes {
		s.InsertOrRemove(n.Pitch, n.Onset, n.Duration)
	}
	h := tracker.NewScoreHandle(s)
	return tracker.NewPlayer(broker, h, tracker.SineSynth{}, 48000), h
}

func generate(p *tracker.Player, n int) (last float32) {
	for range n {
		last = p.NextSample()
	}
	return last
}

func TestPlayerClock(t *testing.T) {
	p, _ := newTestPlayer(nil, rollseq.Note{Pitch: c4, Onset: 0, Duration: 32})
	require.Equal(t, 750, p.TicksPerB32())
	p.Play()
	generate(p, 749)
	assert.Equal(t, 0, p.TimeB32())
	generate(p, 1)
	assert.Equal(t, 1, p.TimeB32())
	generate(p, 750*15)
	assert.Equal(t, 16, p.TimeB32())
	assert.Equal(t, []rollseq.Note{{Pitch: c4, Onset: 0, Duration: 32}}, p.ActiveNotes())
}

func TestPlayerSilentUnlessPlaying(t *testing.T) {
	p, _ := newTestPlayer(nil, rollseq.Note{Pitch: c4, Onset: 0, Duration: 32})
	for range 100 {
		require.Zero(t, p.NextSample())
	}
	assert.Equal(t, 0, p.TimeB32(), "the clock does not run while stopped")
}

func TestPlayerSine(t *testing.T) {
	p, _ := newTestPlayer(nil, rollseq.Note{Pitch: rollseq.A4, Onset: 0, Duration: 32})
	p.Play()
	assert.Zero(t, p.NextSample())
	want := math.Sin(2 * math.Pi * 440 / 48000)
	assert.InDelta(t, want, p.NextSample(), 1e-6)
}

func TestPlayerAveragesVoices(t *testing.T) {
	p, _ := newTestPlayer(nil,
		rollseq.Note{Pitch: rollseq.A4, Onset: 0, Duration: 32},
		rollseq.Note{Pitch: c4, Onset: 0, Duration: 32},
	)
	p.Play()
	generate(p, 10)
	got := p.NextSample()
	tau := 10.0 / 48000
	want := (math.Sin(2*math.Pi*440*tau) + math.Sin(2*math.Pi*c4.Frequency()*tau)) / 2
	assert.InDelta(t, want, got, 1e-6)
}

func TestPlayerStopsAtSongEnd(t *testing.T) {
	p, _ := newTestPlayer(nil, rollseq.Note{Pitch: c4, Onset: 0, Duration: 2})
	p.Play()
	generate(p, 2*750-1)
	assert.Equal(t, tracker.Playing, p.State())
	assert.Equal(t, 1, p.TimeB32())
	generate(p, 1)
	assert.Equal(t, tracker.Stopped, p.State())
	assert.Equal(t, 0, p.TimeB32())
	assert.Empty(t, p.ActiveNotes())
}

func TestPlayerLoopSnapsToStart(t *testing.T) {
	p, _ := newTestPlayer(nil, rollseq.Note{Pitch: c4, Onset: 0, Duration: 32})
	p.SetLoop(tracker.LoopState{}.Mark(4).Mark(8).ToggleMode())
	p.Play()
	generate(p, 1)
	assert.Equal(t, 4, p.TimeB32(), "a clock before the loop snaps to its start")
	assert.Empty(t, p.ActiveNotes(), "notes starting before the loop are not heard")
	generate(p, 4*750-2)
	assert.Equal(t, 7, p.TimeB32())
	generate(p, 1)
	assert.Equal(t, 4, p.TimeB32())
	assert.Equal(t, tracker.Playing, p.State())
}

func TestPlayerLoopsPastSongEnd(t *testing.T) {
	p, _ := newTestPlayer(nil, rollseq.Note{Pitch: c4, Onset: 0, Duration: 2})
	p.SetLoop(tracker.LoopState{}.Mark(0).Mark(4).ToggleMode())
	p.Play()
	generate(p, 3*750)
	assert.Equal(t, tracker.Playing, p.State(), "looping keeps playing after the last note")
	assert.Equal(t, 3, p.TimeB32())
	generate(p, 750)
	assert.Equal(t, 0, p.TimeB32())
	assert.Len(t, p.ActiveNotes(), 1)
}

func TestPlayerStopsInSilentLoop(t *testing.T) {
	p, _ := newTestPlayer(nil, rollseq.Note{Pitch: c4, Onset: 0, Duration: 2})
	p.SetLoop(tracker.LoopState{}.Mark(4).Mark(8).ToggleMode())
	p.Play()
	generate(p, 1)
	assert.Equal(t, tracker.Stopped, p.State(), "the loop lies after the last note")
	assert.Equal(t, 0, p.TimeB32())
}

func TestPlayerSetTimeB32(t *testing.T) {
	p, _ := newTestPlayer(nil,
		rollseq.Note{Pitch: c4, Onset: 0, Duration: 32},
		rollseq.Note{Pitch: e4, Onset: 8, Duration: 4},
	)
	p.Play()
	p.SetTimeB32(16)
	assert.Equal(t, tracker.Paused, p.State())
	assert.Equal(t, 16, p.TimeB32())
	assert.Equal(t, []rollseq.Note{{Pitch: c4, Onset: 0, Duration: 32}}, p.ActiveNotes())
	assert.Zero(t, p.NextSample(), "a paused player is silent")
	p.Play()
	generate(p, 750)
	assert.Equal(t, 17, p.TimeB32())
}

func TestPlayerTogglePlayback(t *testing.T) {
	p, _ := newTestPlayer(nil, rollseq.Note{Pitch: c4, Onset: 0, Duration: 32})
	p.TogglePlayback()
	assert.Equal(t, tracker.Playing, p.State())
	p.TogglePlayback()
	assert.Equal(t, tracker.Paused, p.State())
	p.TogglePlayback()
	assert.Equal(t, tracker.Playing, p.State())
	generate(p, 3*750+10)
	require.Equal(t, 3, p.TimeB32())
	require.Len(t, p.ActiveNotes(), 1, "stopping in the middle of a note")
	p.Stop()
	assert.Equal(t, tracker.Stopped, p.State())
	assert.Equal(t, 0, p.TimeB32(), "stopping rewinds")
	assert.Empty(t, p.ActiveNotes())
	assert.Zero(t, p.NextSample())
}

func TestPlayerAudition(t *testing.T) {
	p, _ := newTestPlayer(nil)
	p.Audition(rollseq.A4, 10)
	assert.Zero(t, p.NextSample())
	assert.InDelta(t, math.Sin(2*math.Pi*440/48000), p.NextSample(), 1e-6)
	assert.NotZero(t, generate(p, 8))
	assert.Zero(t, p.NextSample(), "audition is over")
	assert.Equal(t, tracker.Stopped, p.State())
}

func TestPlayerGain(t *testing.T) {
	p, _ := newTestPlayer(nil, rollseq.Note{Pitch: rollseq.A4, Onset: 0, Duration: 32})
	q, _ := newTestPlayer(nil, rollseq.Note{Pitch: rollseq.A4, Onset: 0, Duration: 32})
	q.SetGain(0.5)
	p.Play()
	q.Play()
	for range 100 {
		assert.InDelta(t, p.NextSample()*0.5, q.NextSample(), 1e-7)
	}
}

func TestPlayerProcess(t *testing.T) {
	broker := tracker.NewBroker()
	p, _ := newTestPlayer(broker, rollseq.Note{Pitch: rollseq.A4, Onset: 0, Duration: 32})
	ref, _ := newTestPlayer(nil, rollseq.Note{Pitch: rollseq.A4, Onset: 0, Duration: 32})
	p.Play()
	ref.Play()
	buf := make(rollseq.AudioBuffer, 1500)
	p.Process(buf)
	for i, frame := range buf {
		want := ref.NextSample()
		require.Equal(t, frame[0], frame[1])
		require.InDelta(t, want, frame[0], 1e-7, "frame %d", i)
	}
	assert.Equal(t, 2, p.TimeB32())

	require.Len(t, broker.ToDetector, 1)
	msg := <-broker.ToDetector
	sent, ok := msg.Data.(*rollseq.AudioBuffer)
	require.True(t, ok)
	assert.Equal(t, buf, *sent)
}

func TestPlayerSendsBeats(t *testing.T) {
	broker := tracker.NewBroker()
	p, _ := newTestPlayer(broker, rollseq.Note{Pitch: c4, Onset: 0, Duration: 32})
	p.Play()
	generate(p, 750)
	var times []int
	for len(broker.ToModel) > 0 {
		msg := <-broker.ToModel
		require.True(t, msg.HasBeat)
		times = append(times, msg.TimeB32)
	}
	assert.Equal(t, []int{0, 1}, times)
	p.Stop()
	msg := <-broker.ToModel
	assert.Equal(t, tracker.Stopped, msg.PlayState)
}

func TestPlayerFollowsScoreEdits(t *testing.T) {
	p, h := newTestPlayer(nil, rollseq.Note{Pitch: c4, Onset: 0, Duration: 32})
	p.Play()
	generate(p, 750)
	h.Update(func(s *rollseq.Score) { s.InsertOrRemove(e4, 2, 4) })
	generate(p, 750)
	assert.Len(t, p.ActiveNotes(), 2)
}
