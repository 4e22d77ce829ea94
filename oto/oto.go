package oto

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
	"github.com/rollseq/rollseq"
)

// Context is the audio device. It implements rollseq.AudioContext.
type Context struct {
	context    *oto.Context
	sampleRate int
}

// Stream is a running audio stream pulling from an AudioSource.
type Stream struct {
	player *oto.Player
	reader *sourceReader
}

type sourceReader struct {
	source rollseq.AudioSource
	buffer rollseq.AudioBuffer
	closed atomic.Bool
	done   chan struct{}
	once   sync.Once
}

// otoBufferSize is the latency of the device, in bytes.
const otoBufferSize = 8192

// NewContext opens the audio device for stereo float32 output. It blocks
// until the device is ready.
func NewContext(sampleRate int) (*Context, error) {
	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferDuration(sampleRate),
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{context: context, sampleRate: sampleRate}, nil
}

func (c *Context) SampleRate() int { return c.sampleRate }

// Play starts pulling audio from source on the audio goroutine of the device.
func (c *Context) Play(source rollseq.AudioSource) (rollseq.CloserWaiter, error) {
	if err := c.context.Err(); err != nil {
		return nil, fmt.Errorf("audio device failed: %w", err)
	}
	r := newSourceReader(source)
	p := c.context.NewPlayer(r)
	p.Play()
	return &Stream{player: p, reader: r}, nil
}

// Close suspends the device.
func (c *Context) Close() error {
	if err := c.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

// Close stops the stream; the source is not called after Close returns.
func (s *Stream) Close() error {
	s.reader.close()
	s.player.Pause()
	if err := s.player.Err(); err != nil {
		return fmt.Errorf("oto player: %w", err)
	}
	return nil
}

// Wait blocks until the stream is closed.
func (s *Stream) Wait() {
	<-s.reader.done
}

func newSourceReader(source rollseq.AudioSource) *sourceReader {
	return &sourceReader{source: source, done: make(chan struct{})}
}

func (r *sourceReader) Read(p []byte) (int, error) {
	if r.closed.Load() {
		return 0, io.EOF
	}
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, io.ErrShortBuffer
	}
	r.buffer = r.buffer.Resize(frames)
	r.source(r.buffer)
	return EncodeFloat32LE(p, r.buffer), nil
}

func (r *sourceReader) close() {
	r.closed.Store(true)
	r.once.Do(func() { close(r.done) })
}
