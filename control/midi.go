package control

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// AnyChannel makes a CCMap accept control changes on every MIDI channel.
const AnyChannel = -1

// Default controller numbers. Knobs and switches are assigned to pedals in
// chain order starting at the base numbers.
const (
	DefaultKnobBase   = 20
	DefaultSwitchBase = 80
	DefaultBypassCC   = 102
	DefaultInputCC    = 7
)

// CCMap assigns MIDI control change numbers to chain controls.
type CCMap struct {
	Channel  int
	Knobs    map[uint8]string
	Switches map[uint8]string
	Bypass   uint8
	Input    uint8
}

// DefaultCCMap maps knobs to CC 20.. and on/off switches to CC 80.. in
// pedal order, bypass to CC 102 and input gain to CC 7, on any channel.
func DefaultCCMap(pedals []string) CCMap {
	m := CCMap{
		Channel:  AnyChannel,
		Knobs:    make(map[uint8]string, len(pedals)),
		Switches: make(map[uint8]string, len(pedals)),
		Bypass:   DefaultBypassCC,
		Input:    DefaultInputCC,
	}
	for i, name := range pedals {
		m.Knobs[uint8(DefaultKnobBase+i)] = name
		m.Switches[uint8(DefaultSwitchBase+i)] = name
	}
	return m
}

// MIDI applies control change messages to a Surface.
type MIDI struct {
	surface *Surface
	cc      CCMap
}

// NewMIDI returns a MIDI control surface.
func NewMIDI(surface *Surface, cc CCMap) *MIDI {
	return &MIDI{surface: surface, cc: cc}
}

// Handle applies msg. Messages that are not mapped control changes return
// an ActionNone event.
func (m *MIDI) Handle(msg midi.Message) (Event, error) {
	var ch, controller, value uint8
	if !msg.GetControlChange(&ch, &controller, &value) {
		return Event{}, nil
	}
	if m.cc.Channel != AnyChannel && int(ch) != m.cc.Channel {
		return Event{}, nil
	}

	switch {
	case controller == m.cc.Bypass:
		return m.surface.SetBypass(value >= 64), nil
	case controller == m.cc.Input:
		return m.surface.setInputGainNormalized(float64(value) / 127), nil
	}
	if name, ok := m.cc.Knobs[controller]; ok {
		return m.surface.SetKnob(name, float64(value)/127*knobMax)
	}
	if name, ok := m.cc.Switches[controller]; ok {
		return m.surface.SetEnabled(name, value >= 64)
	}
	return Event{}, nil
}

// ListenMIDI opens the input port whose name contains port (case
// insensitive) and applies its messages until stop is called. A MIDI
// driver must be registered, e.g. by importing drivers/rtmididrv.
func ListenMIDI(port string, m *MIDI, log logrus.FieldLogger) (stop func(), err error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	ins, err := drivers.Ins()
	if err != nil {
		return nil, fmt.Errorf("control: list midi inputs: %w", err)
	}
	var in drivers.In
	want := strings.ToLower(port)
	for _, candidate := range ins {
		if strings.Contains(strings.ToLower(candidate.String()), want) {
			in = candidate
			break
		}
	}
	if in == nil {
		return nil, fmt.Errorf("control: midi input %q not found", port)
	}

	stopFn, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		ev, err := m.Handle(msg)
		if err != nil {
			log.WithError(err).Warn("midi message ignored")
			return
		}
		if ev.Action != ActionNone {
			log.WithFields(logrus.Fields{
				"action": ev.Action,
				"pedal":  ev.Pedal,
			}).Debug("midi")
		}
	}, midi.HandleError(func(err error) {
		log.WithError(err).WithField("port", in.String()).Warn("midi listener error")
	}))
	if err != nil {
		return nil, fmt.Errorf("control: listen %s: %w", in.String(), err)
	}

	log.WithField("port", in.String()).Info("midi input connected")
	return stopFn, nil
}
