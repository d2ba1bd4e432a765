//go:build !headless

package host

import (
	"context"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player plays a Monitor on the default output device.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
	mon    *Monitor
}

// NewPlayer opens the output device at the monitor's rate and channel
// count. latency sets the device buffer; zero keeps the driver default.
// Only one Player may exist per process.
func NewPlayer(mon *Monitor, latency time.Duration) (*Player, error) {
	octx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   mon.SampleRate(),
		ChannelCount: mon.Channels(),
		Format:       oto.FormatFloat32LE,
		BufferSize:   latency,
	})
	if err != nil {
		return nil, fmt.Errorf("host: open device: %w", err)
	}
	<-ready

	p := octx.NewPlayer(mon)
	p.SetBufferSize(mon.BlockSize() * mon.Channels() * bytesPerSample)

	mon.log.WithField("latency", latency).Info("output device opened")

	return &Player{ctx: octx, player: p, mon: mon}, nil
}

// Play starts pulling audio. It returns immediately.
func (p *Player) Play() { p.player.Play() }

// Pause stops pulling audio.
func (p *Player) Pause() { p.player.Pause() }

// Wait blocks until the source is exhausted and the device has drained, or
// ctx is done.
func (p *Player) Wait(ctx context.Context) error {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.player.Err(); err != nil {
				return fmt.Errorf("host: playback: %w", err)
			}
			if !p.player.IsPlaying() {
				return nil
			}
		}
	}
}

// Close stops playback and releases the player.
func (p *Player) Close() error {
	p.player.Pause()
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("host: %w", err)
	}
	return nil
}
