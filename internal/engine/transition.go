package engine

import (
	"fmt"
	"time"

	"github.com/hammamikhairi/wristtimer/internal/domain"
	"github.com/hammamikhairi/wristtimer/internal/duration"
)

// State is the complete timer state. It is a value: Transition never
// touches the caller's copy.
type State struct {
	Mode     domain.Mode
	Unit     domain.Unit
	Blink    bool // marker visibility phase, Setting only
	Duration duration.Model
}

// Initial returns the idle state for a configured duration.
func Initial(configured int) State {
	return State{
		Mode:     domain.ModeIdle,
		Unit:     domain.UnitMinute,
		Blink:    true,
		Duration: duration.New(configured),
	}
}

// EffectKind classifies a side effect requested by a transition.
type EffectKind int

const (
	// EffectCountdown asks for the countdown field to show Seconds.
	EffectCountdown EffectKind = iota
	// EffectMarker draws or hides the unit marker.
	EffectMarker
	// EffectAlert plays the alarm pattern.
	EffectAlert
	// EffectClock refreshes the wall-clock line for At.
	EffectClock
	// EffectMode reports a mode change.
	EffectMode
)

// String returns a human-readable effect kind.
func (k EffectKind) String() string {
	switch k {
	case EffectCountdown:
		return "countdown"
	case EffectMarker:
		return "marker"
	case EffectAlert:
		return "alert"
	case EffectClock:
		return "clock"
	case EffectMode:
		return "mode"
	default:
		return fmt.Sprintf("effect(%d)", int(k))
	}
}

// Effect is one side effect for the display or alert adapters.
type Effect struct {
	Kind    EffectKind
	Seconds int         // EffectCountdown
	Unit    domain.Unit // EffectMarker
	Visible bool        // EffectMarker
	Mode    domain.Mode // EffectMode
	At      time.Time   // EffectClock
}

// Transition applies one event to s and returns the next state together
// with the side effects to perform, in order. Every mode/event pair has a
// defined result. An unknown mode, event or action is a programming error
// and panics.
func Transition(s State, ev domain.Event) (State, []Effect) {
	before := s.Mode
	var fx []Effect

	switch ev.Kind {
	case domain.EventTick:
		fx = s.tick()
	case domain.EventAction:
		fx = s.act(ev.Action)
	case domain.EventMinute:
		fx = []Effect{{Kind: EffectClock, At: ev.At}}
	case domain.EventSet:
		if s.Mode == domain.ModeSetting && s.Duration.SetConfigured(ev.Seconds) == nil {
			fx = []Effect{s.countdown()}
		}
	default:
		panic(fmt.Sprintf("engine: unknown event kind %d", int(ev.Kind)))
	}

	if s.Mode != before {
		fx = append(fx, Effect{Kind: EffectMode, Mode: s.Mode})
	}
	return s, fx
}

func (s *State) tick() []Effect {
	switch s.Mode {
	case domain.ModeIdle:
		s.Duration.Reset()
		return []Effect{s.countdown()}
	case domain.ModeSetting:
		s.Blink = !s.Blink
		return []Effect{s.marker()}
	case domain.ModePaused:
		return nil
	case domain.ModeRunning:
		if s.Duration.Decrement() > 0 {
			return []Effect{s.countdown()}
		}
		s.Mode = domain.ModeIdle
		return []Effect{s.countdown(), {Kind: EffectAlert}}
	default:
		panic(fmt.Sprintf("engine: unknown mode %d", int(s.Mode)))
	}
}

func (s *State) act(a domain.Action) []Effect {
	switch a {
	case domain.ActionNone, domain.ActionLongRelease:
		return nil
	case domain.ActionToggleSetting:
		return s.toggleSetting()
	case domain.ActionActivate:
		return s.activate()
	case domain.ActionReset:
		return s.reset()
	case domain.ActionAdjustUp:
		return s.adjust(1)
	case domain.ActionAdjustDown:
		return s.adjust(-1)
	default:
		panic(fmt.Sprintf("engine: unknown action %d", int(a)))
	}
}

func (s *State) toggleSetting() []Effect {
	if s.Mode == domain.ModeSetting {
		s.Mode = domain.ModeIdle
		return []Effect{{Kind: EffectMarker, Unit: s.Unit, Visible: false}}
	}

	s.Duration.Reset()
	s.Mode = domain.ModeSetting
	s.Unit = domain.UnitMinute
	s.Blink = true
	return []Effect{s.countdown(), s.marker()}
}

func (s *State) activate() []Effect {
	switch s.Mode {
	case domain.ModeIdle:
		// Idle may still show 00:00:00 from the alarm; start from the
		// configured value. A zero duration has nothing to count.
		s.Duration.Reset()
		if s.Duration.Remaining() > 0 {
			s.Mode = domain.ModeRunning
		}
		return []Effect{s.countdown()}
	case domain.ModeSetting:
		s.Unit = s.Unit.Next()
		s.Blink = true
		return []Effect{s.marker()}
	case domain.ModePaused:
		s.Mode = domain.ModeRunning
		return nil
	case domain.ModeRunning:
		s.Mode = domain.ModePaused
		return nil
	default:
		panic(fmt.Sprintf("engine: unknown mode %d", int(s.Mode)))
	}
}

func (s *State) reset() []Effect {
	if s.Mode != domain.ModeRunning && s.Mode != domain.ModePaused {
		return nil
	}
	s.Mode = domain.ModeIdle
	s.Duration.Reset()
	return []Effect{s.countdown()}
}

func (s *State) adjust(direction int) []Effect {
	if s.Mode != domain.ModeSetting {
		return nil
	}
	if err := s.Duration.AdjustConfigured(direction * s.Unit.Magnitude()); err != nil {
		return nil
	}
	return []Effect{s.countdown()}
}

func (s *State) countdown() Effect {
	return Effect{Kind: EffectCountdown, Seconds: s.Duration.Remaining()}
}

func (s *State) marker() Effect {
	return Effect{Kind: EffectMarker, Unit: s.Unit, Visible: s.Blink}
}
