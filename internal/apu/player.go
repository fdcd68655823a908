package apu

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/pkg/errors"
)

// Player plays an APU through the system audio device
type Player struct {
	player *audio.Player
}

// NewPlayer opens the audio device at the APU's sample rate. Only one audio
// context may exist per process; an existing one is reused if its sample
// rate matches.
func NewPlayer(apu *APU, bufferSize time.Duration) (*Player, error) {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(apu.GetSampleRate())
	} else if ctx.SampleRate() != apu.GetSampleRate() {
		return nil, errors.Errorf("audio context already open at %d Hz, want %d Hz",
			ctx.SampleRate(), apu.GetSampleRate())
	}

	player, err := ctx.NewPlayerF32(NewStream(apu))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create audio player")
	}
	if bufferSize > 0 {
		player.SetBufferSize(bufferSize)
	}

	return &Player{player: player}, nil
}

// Play starts playback
func (p *Player) Play() {
	p.player.Play()
}

// Pause pauses playback
func (p *Player) Pause() {
	p.player.Pause()
}

// IsPlaying reports whether playback is running
func (p *Player) IsPlaying() bool {
	return p.player.IsPlaying()
}

// Close releases the player
func (p *Player) Close() error {
	return errors.Wrap(p.player.Close(), "failed to close audio player")
}
