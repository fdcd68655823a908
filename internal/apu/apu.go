// Package apu implements the audio collaborator: a square-wave tone
// generator behind a master gain, with a playback stream and WAV export.
package apu

import (
	"math"
	"sync"
)

// Gain and envelope constants
const (
	// DefaultMasterGain is the master gain while audio is enabled
	DefaultMasterGain = 0.3
	// ReleaseLevel is the gain every tone decays to by the end of its duration
	ReleaseLevel = 0.01

	// DefaultSampleRate is used when New is given a non-positive rate
	DefaultSampleRate = 44100

	// Defaults for PlayTone callers that have no preference
	DefaultToneDuration = 0.1
	DefaultToneVolume   = 0.1
)

// tone is one square-wave voice with an exponential decay envelope
type tone struct {
	frequency float64
	volume    float64
	position  int // samples rendered so far
	length    int // total samples
}

// APU mixes the active tones. It is safe for use from the audio stream
// goroutine and the UI goroutine at the same time.
type APU struct {
	mu sync.Mutex

	sampleRate int
	masterGain float64
	enabled    bool
	tones      []*tone

	// Timing
	samplesGenerated uint64
}

// New creates an enabled APU with the default master gain
func New(sampleRate int) *APU {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &APU{
		sampleRate: sampleRate,
		masterGain: DefaultMasterGain,
		enabled:    true,
	}
}

// Reset silences every active tone
func (apu *APU) Reset() {
	apu.mu.Lock()
	defer apu.mu.Unlock()

	apu.tones = nil
	apu.samplesGenerated = 0
}

// PlayTone starts a square-wave tone. The tone begins at volume and decays
// exponentially to ReleaseLevel over duration seconds. Nothing is queued
// while audio is disabled.
func (apu *APU) PlayTone(frequency, duration, volume float64) {
	if frequency <= 0 || duration <= 0 || volume <= 0 {
		return
	}

	apu.mu.Lock()
	defer apu.mu.Unlock()

	if !apu.enabled {
		return
	}

	length := int(duration * float64(apu.sampleRate))
	if length == 0 {
		return
	}
	apu.tones = append(apu.tones, &tone{
		frequency: frequency,
		volume:    volume,
		length:    length,
	})
}

// Generate fills out with mono samples in [-1, 1] and returns len(out)
func (apu *APU) Generate(out []float32) int {
	apu.mu.Lock()
	defer apu.mu.Unlock()

	for i := range out {
		var sample float64
		for _, t := range apu.tones {
			if t.position < t.length {
				sample += t.sample(apu.sampleRate)
				t.position++
			}
		}
		out[i] = float32(clamp(sample*apu.masterGain, -1, 1))
	}

	apu.samplesGenerated += uint64(len(out))
	apu.dropFinished()
	return len(out)
}

// dropFinished removes tones that have played to the end
func (apu *APU) dropFinished() {
	active := apu.tones[:0]
	for _, t := range apu.tones {
		if t.position < t.length {
			active = append(active, t)
		}
	}
	for i := len(active); i < len(apu.tones); i++ {
		apu.tones[i] = nil
	}
	apu.tones = active
}

// sample returns the tone's value at its current position
func (t *tone) sample(sampleRate int) float64 {
	elapsed := float64(t.position) / float64(sampleRate)
	duration := float64(t.length) / float64(sampleRate)

	// volume * (ReleaseLevel/volume)^(elapsed/duration)
	gain := t.volume * math.Pow(ReleaseLevel/t.volume, elapsed/duration)

	phase := math.Mod(elapsed*t.frequency, 1)
	if phase < 0.5 {
		return gain
	}
	return -gain
}

// SetMasterVolume sets the master gain, clamped to [0, 1]
func (apu *APU) SetMasterVolume(volume float64) {
	apu.mu.Lock()
	defer apu.mu.Unlock()

	apu.masterGain = clamp(volume, 0, 1)
}

// MasterVolume returns the current master gain
func (apu *APU) MasterVolume() float64 {
	apu.mu.Lock()
	defer apu.mu.Unlock()

	return apu.masterGain
}

// Toggle enables or disables audio and returns the new state. Enabling
// restores the default master gain; disabling sets it to zero.
func (apu *APU) Toggle() bool {
	apu.mu.Lock()
	defer apu.mu.Unlock()

	apu.enabled = !apu.enabled
	if apu.enabled {
		apu.masterGain = DefaultMasterGain
	} else {
		apu.masterGain = 0
	}
	return apu.enabled
}

// IsEnabled reports whether tones are accepted
func (apu *APU) IsEnabled() bool {
	apu.mu.Lock()
	defer apu.mu.Unlock()

	return apu.enabled
}

// ActiveTones returns the number of tones still playing
func (apu *APU) ActiveTones() int {
	apu.mu.Lock()
	defer apu.mu.Unlock()

	return len(apu.tones)
}

// GetSampleRate returns the sample rate
func (apu *APU) GetSampleRate() int {
	return apu.sampleRate
}

// SamplesGenerated returns the number of samples produced since reset
func (apu *APU) SamplesGenerated() uint64 {
	apu.mu.Lock()
	defer apu.mu.Unlock()

	return apu.samplesGenerated
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
