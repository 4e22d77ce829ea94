package tracker

import (
	"math"

	"github.com/rollseq/rollseq"
	"github.com/viterin/vek/vek32"
)

type (
	// Detector measures the output level of the player for the status bar.
	// It runs in its own goroutine, receiving the rendered audio from the
	// broker, and sends a LevelResult to the model for every analyzed chunk.
	Detector struct {
		broker    *Broker
		chunkSize int
		peak      [2]RingBuffer[float32] // per channel peaks of the last chunks
		tmp       []float32
	}

	Decibel float32

	// LevelResult is the level of the output over the last chunks, per
	// channel.
	LevelResult struct {
		Peak [2]Decibel
		RMS  [2]Decibel
	}

	RingBuffer[T any] struct {
		Buffer []T
		Cursor int
	}
)

// SilenceLevel is reported for digital silence instead of -Inf.
const SilenceLevel Decibel = -96

// peakWindow is how many chunks the peak is held for.
const peakWindow = 10

// NewDetector returns a detector analyzing chunks of 100 ms.
func NewDetector(b *Broker, sampleRate int) *Detector {
	return &Detector{
		broker:    b,
		chunkSize: max(sampleRate/10, 1),
		peak: [2]RingBuffer[float32]{
			{Buffer: make([]float32, peakWindow)},
			{Buffer: make([]float32, peakWindow)},
		},
	}
}

// Run processes messages until CloseDetector is signaled, then closes
// FinishedDetector.
func (s *Detector) Run() {
	defer close(s.broker.FinishedDetector)
	var chunkHistory rollseq.AudioBuffer
	for {
		select {
		case <-s.broker.CloseDetector:
			return
		case msg := <-s.broker.ToDetector:
			if msg.Reset {
				s.reset()
				chunkHistory = chunkHistory[:0]
			}
			data, ok := msg.Data.(*rollseq.AudioBuffer)
			if !ok {
				continue
			}
			buf := *data
			for {
				var chunk rollseq.AudioBuffer
				if len(chunkHistory) > 0 {
					l := min(len(buf), s.chunkSize-len(chunkHistory))
					chunkHistory = append(chunkHistory, buf[:l]...)
					buf = buf[l:]
					if len(chunkHistory) < s.chunkSize {
						break
					}
					chunk = chunkHistory
				} else if len(buf) >= s.chunkSize {
					chunk = buf[:s.chunkSize]
					buf = buf[s.chunkSize:]
				} else {
					chunkHistory = append(chunkHistory[:0], buf...)
					break
				}
				TrySend(s.broker.ToModel, MsgToModel{HasLevels: true, Levels: s.Update(chunk)})
				chunkHistory = chunkHistory[:0]
			}
			s.broker.PutAudioBuffer(data)
		}
	}
}

// Update analyzes one chunk and returns the levels including it.
func (s *Detector) Update(chunk rollseq.AudioBuffer) (ret LevelResult) {
	if len(chunk) == 0 {
		return LevelResult{Peak: [2]Decibel{SilenceLevel, SilenceLevel}, RMS: [2]Decibel{SilenceLevel, SilenceLevel}}
	}
	setSliceLength(&s.tmp, len(chunk))
	for chn := range 2 {
		// deinterleave the channel
		for i := range chunk {
			s.tmp[i] = chunk[i][chn]
		}
		power := vek32.Dot(s.tmp, s.tmp) / float32(len(chunk))
		ret.RMS[chn] = toDecibel(float32(math.Sqrt(float64(power))))
		vek32.Abs_Inplace(s.tmp)
		s.peak[chn].WriteWrapSingle(vek32.Max(s.tmp))
		ret.Peak[chn] = toDecibel(vek32.Max(s.peak[chn].Buffer))
	}
	return
}

func (s *Detector) reset() {
	for i := range s.peak {
		clear(s.peak[i].Buffer)
		s.peak[i].Cursor = 0
	}
}

func toDecibel(amplitude float32) Decibel {
	if amplitude <= 0 {
		return SilenceLevel
	}
	return max(Decibel(20*math.Log10(float64(amplitude))), SilenceLevel)
}

func (r *RingBuffer[T]) WriteWrapSingle(value T) {
	r.Cursor = (r.Cursor + 1) % len(r.Buffer)
	r.Buffer[r.Cursor] = value
}

func setSliceLength[T any](slice *[]T, length int) {
	if len(*slice) < length {
		*slice = append(*slice, make([]T, length-len(*slice))...)
	}
	*slice = (*slice)[:length]
}
