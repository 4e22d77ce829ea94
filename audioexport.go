package rollseq

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Wav encodes the buffer as a stereo .wav file with the given sample rate.
// With pcm16, the samples are clamped to [-1,1] and stored as int16; otherwise
// they are stored as float32.
func Wav(buffer AudioBuffer, sampleRate int, pcm16 bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	data := buffer.Interleaved()
	wavHeader(len(data), sampleRate, pcm16, buf)
	if err := rawToBuffer(data, pcm16, buf); err != nil {
		return nil, fmt.Errorf("Wav failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Raw encodes the buffer as headerless interleaved little-endian samples.
func Raw(buffer AudioBuffer, pcm16 bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := rawToBuffer(buffer.Interleaved(), pcm16, buf); err != nil {
		return nil, fmt.Errorf("Raw failed: %w", err)
	}
	return buf.Bytes(), nil
}

func rawToBuffer(data []float32, pcm16 bool, buf *bytes.Buffer) error {
	var err error
	if pcm16 {
		int16data := make([]int16, len(data))
		for i, v := range data {
			int16data[i] = int16(clamp(int(v*math.MaxInt16), math.MinInt16, math.MaxInt16))
		}
		err = binary.Write(buf, binary.LittleEndian, int16data)
	} else {
		err = binary.Write(buf, binary.LittleEndian, data)
	}
	if err != nil {
		return fmt.Errorf("could not write samples: %w", err)
	}
	return nil
}

// wavHeader writes the header of a stereo .wav file. sampleCount is the number
// of individual samples, i.e. twice the number of frames. The header is for
// int16 audio if pcm16, and for IEEE float32 audio otherwise; float files get
// the extra fact chunk.
func wavHeader(sampleCount, sampleRate int, pcm16 bool, buf *bytes.Buffer) {
	// See: http://www-mmsp.ece.mcgill.ca/Documents/AudioFormats/WAVE/WAVE.html
	const numChannels = 2
	bytesPerSample, chunkSize, fmtChunkSize, waveFormat := 4, 50+4*sampleCount, 18, 3 // IEEE float
	if pcm16 {
		bytesPerSample, chunkSize, fmtChunkSize, waveFormat = 2, 36+2*sampleCount, 16, 1 // PCM
	}
	le := func(v any) { binary.Write(buf, binary.LittleEndian, v) }
	buf.WriteString("RIFF")
	le(uint32(chunkSize))
	buf.WriteString("WAVEfmt ")
	le(uint32(fmtChunkSize))
	le(uint16(waveFormat))
	le(uint16(numChannels))
	le(uint32(sampleRate))
	le(uint32(sampleRate * numChannels * bytesPerSample)) // avgBytesPerSec
	le(uint16(numChannels * bytesPerSample))              // blockAlign
	le(uint16(8 * bytesPerSample))                        // bits per sample
	if !pcm16 {
		le(uint16(0)) // size of extension
		buf.WriteString("fact")
		le(uint32(4))
		le(uint32(sampleCount / numChannels)) // frames
	}
	buf.WriteString("data")
	le(uint32(bytesPerSample * sampleCount))
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
