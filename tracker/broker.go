package tracker

import (
	"sync"
	"time"

	"github.com/rollseq/rollseq"
)

type (
	// Broker is the centralized message broker for the tracker. It is used to
	// communicate between the player, the model, the MIDI input and the level
	// detector. The broker is many-to-one communication, implemented with one
	// channel for each recipient. Additionally, the broker has a sync.Pool for
	// *rollseq.AudioBuffers, from which the player can get and return buffers
	// to pass them to the detector without allocating new memory every time.
	//
	// For closing goroutines, the broker has two channels for each goroutine:
	// CloseXXX and FinishedXXX. The CloseXXX channel has a capacity of 1, so
	// you can always send an empty message (struct{}{}) to it without
	// blocking. If the channel is already full, someone else has already
	// requested the closure, so dropping the message is fine. FinishedXXX is
	// closed when the goroutine has cleaned up. Wait for it with a timeout:
	//    select {
	//      case <-FinishedXXX:
	//      case <-time.After(3 * time.Second):
	//    }
	Broker struct {
		ToModel    chan MsgToModel
		ToDetector chan MsgToDetector

		CloseDetector    chan struct{}
		FinishedDetector chan struct{}

		bufferPool sync.Pool
	}

	// MsgToModel is a message sent to the model. The most often sent data
	// (beats and levels) are not boxed to avoid allocations. All the
	// infrequently passed messages (Alert, MIDINoteEvent) are boxed in Data.
	MsgToModel struct {
		HasBeat   bool
		TimeB32   int
		PlayState PlayState

		HasLevels bool
		Levels    LevelResult

		Data any
	}

	// MsgToDetector carries either a reset request or a *rollseq.AudioBuffer
	// to analyze. The buffer is returned to the pool by the detector.
	MsgToDetector struct {
		Reset bool
		Data  any
	}
)

func NewBroker() *Broker {
	return &Broker{
		ToModel:          make(chan MsgToModel, 1024),
		ToDetector:       make(chan MsgToDetector, 1024),
		CloseDetector:    make(chan struct{}, 1),
		FinishedDetector: make(chan struct{}),
		bufferPool:       sync.Pool{New: func() any { return &rollseq.AudioBuffer{} }},
	}
}

// GetAudioBuffer returns an empty audio buffer from the buffer pool. After
// use, return the buffer to the pool with PutAudioBuffer.
func (b *Broker) GetAudioBuffer() *rollseq.AudioBuffer {
	return b.bufferPool.Get().(*rollseq.AudioBuffer)
}

// PutAudioBuffer returns an audio buffer to the buffer pool, truncating it
// but keeping its capacity.
func (b *Broker) PutAudioBuffer(buf *rollseq.AudioBuffer) {
	if len(*buf) > 0 {
		*buf = (*buf)[:0]
	}
	b.bufferPool.Put(buf)
}

// TrySend sends a value to a channel if it is not full. It never blocks.
// Returns true if the value was sent.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive blocks until a value is received from a channel, or times
// out after t. ok is false if the timeout occurred or the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
