package apu

import (
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

// wavBitDepth is the sample size of exported files
const wavBitDepth = 16

// Recorder accumulates generated samples in memory and writes them out as a
// mono 16-bit PCM WAV file
type Recorder struct {
	apu     *APU
	samples []float32
}

// NewRecorder creates a recorder pulling from apu
func NewRecorder(apu *APU) *Recorder {
	return &Recorder{apu: apu}
}

// Capture generates n samples and keeps them
func (r *Recorder) Capture(n int) {
	if n <= 0 {
		return
	}
	start := len(r.samples)
	r.samples = append(r.samples, make([]float32, n)...)
	r.apu.Generate(r.samples[start:])
}

// Samples returns the captured samples
func (r *Recorder) Samples() []float32 {
	return r.samples
}

// Save writes the captured samples to filename
func (r *Recorder) Save(filename string) (rerr error) {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "wav")
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = errors.Wrap(err, "wav")
		}
	}()

	return WriteWAV(f, r.samples, r.apu.GetSampleRate())
}

// WriteWAV encodes mono float samples in [-1, 1] as 16-bit PCM
func WriteWAV(w io.WriteSeeker, samples []float32, sampleRate int) error {
	enc := wav.NewEncoder(w, sampleRate, wavBitDepth, 1, 1)

	data := make([]int, len(samples))
	for i, sample := range samples {
		data[i] = int(clamp(float64(sample), -1, 1) * math.MaxInt16)
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return errors.Wrap(err, "wav: encoding failed")
	}
	return errors.Wrap(enc.Close(), "wav: finalizing failed")
}
