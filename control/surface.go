// Package control maps user input onto a running chain.
//
// Every control path ends in Chain setters, which only store atomics, so
// surfaces may run on any goroutine while the audio callback is live.
package control

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-pedalboard/dsp/core"
	"github.com/cwbudde/algo-pedalboard/dsp/effectchain"
)

const (
	knobMin     = 0
	knobMax     = 10
	knobDefault = 5
	knobStep    = 0.5
	gainStep    = 0.05
)

// Action identifies what a control event did.
type Action int

const (
	ActionNone Action = iota
	ActionSelect
	ActionToggle
	ActionKnob
	ActionInputGain
	ActionBypass
	ActionQuit
	ActionReset
)

var actionNames = [...]string{"none", "select", "toggle", "knob", "input-gain", "bypass", "quit", "reset"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// Event reports the effect of one control input.
type Event struct {
	Action Action
	Pedal  string
	Value  float64
	On     bool
}

// Surface holds the control-side view of a chain: the selected pedal and
// the last knob position sent to each pedal.
type Surface struct {
	chain *effectchain.Chain
	log   logrus.FieldLogger

	mu       sync.Mutex
	names    []string
	selected int
	knobs    map[string]float64
}

// NewSurface returns a surface over chain with the first pedal selected and
// every knob at its centre position.
func NewSurface(chain *effectchain.Chain, log logrus.FieldLogger) *Surface {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Surface{
		chain: chain,
		log:   log,
		knobs: make(map[string]float64),
	}
	for _, p := range chain.Pedals() {
		s.names = append(s.names, p.Name)
		s.knobs[p.Name] = knobDefault
	}
	return s
}

// Pedals returns the pedal names in chain order.
func (s *Surface) Pedals() []string {
	return append([]string(nil), s.names...)
}

// Selected returns the selected pedal name.
func (s *Surface) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.names) == 0 {
		return ""
	}
	return s.names[s.selected]
}

// Knob returns the last knob position sent to name.
func (s *Surface) Knob(name string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.knobs[name]
}

// Select makes pedal i (0-based, chain order) the target of knob and
// toggle keys.
func (s *Surface) Select(i int) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.names) {
		return Event{}, fmt.Errorf("control: pedal %d out of range 1..%d", i+1, len(s.names))
	}
	s.selected = i
	return Event{Action: ActionSelect, Pedal: s.names[i]}, nil
}

// SetKnob sends knob position v (clamped to 0..10) to pedal name.
func (s *Surface) SetKnob(name string, v float64) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.setKnobLocked(name, v)
}

func (s *Surface) setKnobLocked(name string, v float64) (Event, error) {
	v = core.Clamp(v, knobMin, knobMax)
	if err := s.chain.SetParameter(name, v); err != nil {
		return Event{}, err
	}
	s.knobs[name] = v
	s.log.WithFields(logrus.Fields{"pedal": name, "knob": v}).Debug("knob")
	return Event{Action: ActionKnob, Pedal: name, Value: v}, nil
}

// SetEnabled switches pedal name on or off.
func (s *Surface) SetEnabled(name string, on bool) (Event, error) {
	if err := s.chain.SetEnabled(name, on); err != nil {
		return Event{}, err
	}
	s.log.WithFields(logrus.Fields{"pedal": name, "enabled": on}).Debug("pedal switched")
	return Event{Action: ActionToggle, Pedal: name, On: on}, nil
}

// SetBypass switches the whole chain bypass.
func (s *Surface) SetBypass(on bool) Event {
	s.chain.SetBypass(on)
	s.log.WithField("bypass", on).Debug("bypass")
	return Event{Action: ActionBypass, On: on}
}

// SetInputGain sets the chain input gain and reports the stored value.
func (s *Surface) SetInputGain(v float64) Event {
	s.chain.SetInputGain(v)
	got := s.chain.InputGain()
	s.log.WithField("gain", got).Debug("input gain")
	return Event{Action: ActionInputGain, Value: got}
}

// setInputGainNormalized sets the input gain from a position in [0, 1]
// across its range.
func (s *Surface) setInputGainNormalized(n float64) Event {
	got := s.chain.InputGainParam().SetNormalized(n)
	s.log.WithField("gain", got).Debug("input gain")
	return Event{Action: ActionInputGain, Value: got}
}

// resetSelected restores the selected pedal's parameters to their defaults
// and its knob to the centre position.
func (s *Surface) resetSelected() (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.names) == 0 {
		return Event{}, nil
	}
	name := s.names[s.selected]
	fx, err := s.chain.Effect(name)
	if err != nil {
		return Event{}, err
	}
	fx.Params().ResetDefaults()
	s.knobs[name] = knobDefault
	s.log.WithField("pedal", name).Debug("pedal reset")
	return Event{Action: ActionReset, Pedal: name}, nil
}

// HandleKey applies one keystroke:
//
//	1-8    select pedal
//	space  toggle selected pedal
//	+ -    knob up or down by 0.5
//	] [    input gain up or down by 0.05
//	b      toggle bypass
//	r      reset selected pedal to defaults
//	q      quit (also Ctrl-C)
//
// Unmapped keys return an ActionNone event.
func (s *Surface) HandleKey(key rune) (Event, error) {
	switch {
	case key >= '1' && key <= '8':
		return s.Select(int(key - '1'))
	case key == ' ':
		name := s.Selected()
		on, err := s.chain.Toggle(name)
		if err != nil {
			return Event{}, err
		}
		s.log.WithFields(logrus.Fields{"pedal": name, "enabled": on}).Debug("pedal switched")
		return Event{Action: ActionToggle, Pedal: name, On: on}, nil
	case key == '+' || key == '=':
		return s.nudgeKnob(knobStep)
	case key == '-' || key == '_':
		return s.nudgeKnob(-knobStep)
	case key == ']':
		return s.SetInputGain(s.chain.InputGain() + gainStep), nil
	case key == '[':
		return s.SetInputGain(s.chain.InputGain() - gainStep), nil
	case key == 'b' || key == 'B':
		on := s.chain.ToggleBypass()
		s.log.WithField("bypass", on).Debug("bypass")
		return Event{Action: ActionBypass, On: on}, nil
	case key == 'r' || key == 'R':
		return s.resetSelected()
	case key == 'q' || key == 'Q' || key == 0x03:
		return Event{Action: ActionQuit}, nil
	}
	return Event{}, nil
}

func (s *Surface) nudgeKnob(delta float64) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.names) == 0 {
		return Event{}, nil
	}
	name := s.names[s.selected]
	return s.setKnobLocked(name, s.knobs[name]+delta)
}
