// Package oto plays Cave through the system audio output using oto, for the
// standalone host.
package oto

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player plays a Stream until closed. Only one oto context may exist per
// process, so only one Player may be created.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
}

// NewPlayer opens the audio device and starts pulling from stream. latency is
// the size of the device buffer; zero lets oto decide.
func NewPlayer(sampleRate int, latency time.Duration, stream *Stream) (*Player, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   latency,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	p := &Player{ctx: ctx, player: ctx.NewPlayer(stream)}
	p.player.Play()
	return p, nil
}

func (p *Player) Close() error {
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	if err := p.ctx.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}
