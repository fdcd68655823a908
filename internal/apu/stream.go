package apu

import (
	"encoding/binary"
	"math"
)

// bytesPerFrame is one stereo frame of 32-bit float samples
const bytesPerFrame = 8

// Stream adapts an APU to the little-endian stereo float32 byte stream
// expected by ebiten's audio player. It never reaches EOF.
type Stream struct {
	apu     *APU
	scratch []float32
}

// NewStream creates a stream reading from apu
func NewStream(apu *APU) *Stream {
	return &Stream{apu: apu}
}

// Read implements io.Reader
func (s *Stream) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}

	if cap(s.scratch) < frames {
		s.scratch = make([]float32, frames)
	}
	mono := s.scratch[:frames]
	s.apu.Generate(mono)

	for i, sample := range mono {
		bits := math.Float32bits(sample)
		binary.LittleEndian.PutUint32(p[i*bytesPerFrame:], bits)
		binary.LittleEndian.PutUint32(p[i*bytesPerFrame+4:], bits)
	}

	return frames * bytesPerFrame, nil
}
