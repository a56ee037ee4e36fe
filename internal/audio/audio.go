// Package audio plays the single historical CHIP-8 beep while the VM's
// sound timer is counting down. It models nothing beyond that: no tone
// synthesis, no volume or pitch control, matching the core's sound-timer-
// only scope.
package audio

import (
	"fmt"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// Player owns the decoded beep sample and a channel the host loop signals
// on each frame where the sound timer is still active.
type Player struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	events   chan struct{}
}

// NewPlayer decodes the beep asset at path and initializes the speaker. The
// returned Player is silent until Run is started in its own goroutine.
func NewPlayer(path string) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening beep asset: %w", err)
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding beep asset: %w", err)
	}

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		streamer.Close()
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}

	return &Player{
		streamer: streamer,
		format:   format,
		events:   make(chan struct{}, 1),
	}, nil
}

// Close releases the decoded stream.
func (p *Player) Close() error {
	return p.streamer.Close()
}

// NotifySoundActive signals the player for a frame where the VM's sound
// timer is nonzero. Non-blocking: a frame the player hasn't drained yet
// just coalesces with the pending one.
func (p *Player) NotifySoundActive() {
	select {
	case p.events <- struct{}{}:
	default:
	}
}

// Run plays the beep once per signal received on events, until stop is
// closed. Meant to be launched in its own goroutine.
func (p *Player) Run(stop <-chan struct{}) {
	for {
		select {
		case <-p.events:
			speaker.Play(p.streamer)
		case <-stop:
			return
		}
	}
}
