package rollseq

type (
	// AudioBuffer is a buffer of stereo frames.
	AudioBuffer [][2]float32

	// AudioSource fills the whole buffer with the next frames of audio. It is
	// called from the audio goroutine and must not block for long.
	AudioSource func(buffer AudioBuffer)

	// AudioContext represents the low-level audio device. Play starts pulling
	// audio from the source, until the returned CloserWaiter is closed.
	AudioContext interface {
		Play(source AudioSource) (CloserWaiter, error)
		SampleRate() int
	}

	// CloserWaiter is a handle to a running audio stream. Close requests the
	// stream to stop and Wait blocks until it has.
	CloserWaiter interface {
		Close() error
		Wait()
	}
)

// Resize returns the buffer resized to length n, reusing the capacity of the
// old buffer if possible. The contents are not cleared.
func (b AudioBuffer) Resize(n int) AudioBuffer {
	if cap(b) < n {
		return make(AudioBuffer, n)
	}
	return b[:n]
}

// Interleaved returns the frames as a flat slice L0 R0 L1 R1 ...
func (b AudioBuffer) Interleaved() []float32 {
	ret := make([]float32, 0, 2*len(b))
	for _, f := range b {
		ret = append(ret, f[0], f[1])
	}
	return ret
}
