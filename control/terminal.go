package control

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrNotTerminal is returned by RunTerminal when stdin is not a terminal.
var ErrNotTerminal = errors.New("control: stdin is not a terminal")

// Terminal feeds raw keystrokes from a terminal into a Surface.
type Terminal struct {
	in      *os.File
	surface *Surface
	onEvent func(Event)
}

// NewTerminal reads keys from in. onEvent, if set, is called after every
// handled key, e.g. to redraw a status line.
func NewTerminal(in *os.File, surface *Surface, onEvent func(Event)) *Terminal {
	return &Terminal{in: in, surface: surface, onEvent: onEvent}
}

// Run switches the terminal to raw mode and handles keys until a quit key,
// end of input, or ctx is done. The terminal mode is always restored.
func (t *Terminal) Run(ctx context.Context) error {
	fd := int(t.in.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("control: raw mode: %w", err)
	}
	defer term.Restore(fd, state)

	keys := make(chan byte)
	readErr := make(chan error, 1)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := t.in.Read(buf)
			if err != nil {
				readErr <- err
				return
			}
			if n == 1 {
				select {
				case keys <- buf[0]:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return t.loop(ctx, keys, readErr)
}

func (t *Terminal) loop(ctx context.Context, keys <-chan byte, readErr <-chan error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("control: %w", err)
		case k := <-keys:
			ev, err := t.surface.HandleKey(rune(k))
			if err != nil {
				t.surface.log.WithError(err).Warn("key ignored")
				continue
			}
			if ev.Action == ActionNone {
				continue
			}
			if t.onEvent != nil {
				t.onEvent(ev)
			}
			if ev.Action == ActionQuit {
				return nil
			}
		}
	}
}
