//go:build headless

package host

import (
	"context"
	"errors"
	"time"
)

// ErrNoDevice is returned by NewPlayer in headless builds.
var ErrNoDevice = errors.New("host: built without audio output")

// Player is unavailable in headless builds.
type Player struct{}

// NewPlayer always fails in headless builds. Use Monitor.Render instead.
func NewPlayer(*Monitor, time.Duration) (*Player, error) { return nil, ErrNoDevice }

func (*Player) Play()                      {}
func (*Player) Pause()                     {}
func (*Player) Wait(context.Context) error { return ErrNoDevice }
func (*Player) Close() error               { return nil }
