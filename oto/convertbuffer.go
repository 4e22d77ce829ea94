package oto

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/rollseq/rollseq"
)

// bytesPerFrame is the size of one stereo float32 frame.
const bytesPerFrame = 8

// EncodeFloat32LE writes the frames to dst as interleaved little-endian
// float32 and returns the number of bytes written. Frames not fitting in dst
// are dropped.
func EncodeFloat32LE(dst []byte, frames rollseq.AudioBuffer) int {
	n := min(len(frames), len(dst)/bytesPerFrame)
	for i, f := range frames[:n] {
		binary.LittleEndian.PutUint32(dst[i*bytesPerFrame:], math.Float32bits(f[0]))
		binary.LittleEndian.PutUint32(dst[i*bytesPerFrame+4:], math.Float32bits(f[1]))
	}
	return n * bytesPerFrame
}

// bufferDuration converts otoBufferSize to the duration oto expects.
func bufferDuration(sampleRate int) time.Duration {
	frames := otoBufferSize / bytesPerFrame
	return time.Duration(frames) * time.Second / time.Duration(max(sampleRate, 1))
}
