//go:build rtmidi

package main

// Registers the RtMidi driver so -midi can find hardware ports.
import _ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
