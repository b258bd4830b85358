package input

import (
	"time"

	"github.com/hammamikhairi/wristtimer/internal/domain"
	"github.com/hammamikhairi/wristtimer/internal/logger"
)

// Option configures the dispatcher.
type Option func(*Dispatcher)

// WithTiming overrides the gesture windows.
func WithTiming(t Timing) Option {
	return func(d *Dispatcher) {
		d.timing = t
	}
}

// Dispatcher recognizes gestures on Select, Up and Down. It is not safe
// for concurrent use; the timer's event loop owns it.
//
// Every call takes the current time from the caller. Feed handles an edge;
// Advance lets time pass so held buttons and open double-click windows
// resolve. Both return the actions that became final, in order.
type Dispatcher struct {
	timing Timing
	log    *logger.Logger
	now    time.Time

	sel    selectState
	adjust map[Button]*repeatState
}

type selectState struct {
	held       bool
	pressedAt  time.Time
	longFired  bool
	pending    bool // a first click is waiting for the double-click window
	releasedAt time.Time
	second     bool // the current press is the second of a double click
}

type repeatState struct {
	held bool
	next time.Time
}

// NewDispatcher creates a dispatcher with the default timing.
func NewDispatcher(log *logger.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		timing: DefaultTiming(),
		log:    log,
		adjust: map[Button]*repeatState{
			ButtonUp:   {},
			ButtonDown: {},
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Timing returns the gesture windows in use.
func (d *Dispatcher) Timing() Timing {
	return d.timing
}

// Feed processes one raw edge.
func (d *Dispatcher) Feed(e Edge) []domain.Action {
	at := d.clamp(e.At)
	out := d.advance(at)

	switch e.Button {
	case ButtonSelect:
		if e.Pressed {
			d.pressSelect(at)
		} else {
			out = append(out, d.releaseSelect(at)...)
		}
	case ButtonUp, ButtonDown:
		if e.Pressed {
			out = append(out, d.pressAdjust(e.Button, at)...)
		} else {
			d.adjust[e.Button].held = false
		}
	default:
		d.log.Warn("input: ignoring edge on unknown %s", e.Button)
	}
	return out
}

// Advance lets time pass without a new edge.
func (d *Dispatcher) Advance(now time.Time) []domain.Action {
	return d.advance(d.clamp(now))
}

// clamp keeps the dispatcher's view of time monotonic. Keyboard faces
// synthesize edges slightly in the future; later real timestamps that fall
// behind are treated as "no time passed".
func (d *Dispatcher) clamp(at time.Time) time.Time {
	if at.Before(d.now) {
		return d.now
	}
	d.now = at
	return at
}

func (d *Dispatcher) advance(at time.Time) []domain.Action {
	var out []domain.Action

	s := &d.sel
	if s.pending && !s.held && at.Sub(s.releasedAt) > d.timing.MultiClick() {
		s.pending = false
		out = append(out, domain.ActionActivate)
	}

	if s.held && !s.longFired && at.Sub(s.pressedAt) >= d.timing.LongPress {
		s.longFired = true
		if s.pending {
			// The earlier click stands on its own.
			s.pending = false
			s.second = false
			out = append(out, domain.ActionActivate)
		}
		out = append(out, domain.ActionToggleSetting)
	}

	for _, b := range []Button{ButtonUp, ButtonDown} {
		r := d.adjust[b]
		for r.held && !at.Before(r.next) {
			out = append(out, adjustAction(b))
			r.next = r.next.Add(d.timing.Repeat)
		}
	}

	if len(out) > 0 {
		d.log.Debug("input: resolved %v", out)
	}
	return out
}

func (d *Dispatcher) pressSelect(at time.Time) {
	s := &d.sel
	if s.held {
		return
	}
	s.held = true
	s.pressedAt = at
	s.longFired = false
	s.second = s.pending
}

func (d *Dispatcher) releaseSelect(at time.Time) []domain.Action {
	s := &d.sel
	if !s.held {
		return nil
	}
	s.held = false

	switch {
	case s.longFired:
		s.longFired = false
		return []domain.Action{domain.ActionLongRelease}
	case s.second:
		s.second = false
		s.pending = false
		return []domain.Action{domain.ActionReset}
	default:
		s.pending = true
		s.releasedAt = at
		return nil
	}
}

func (d *Dispatcher) pressAdjust(b Button, at time.Time) []domain.Action {
	r := d.adjust[b]
	if r.held {
		return nil
	}
	r.held = true
	r.next = at.Add(d.timing.Repeat)
	return []domain.Action{adjustAction(b)}
}

func adjustAction(b Button) domain.Action {
	if b == ButtonUp {
		return domain.ActionAdjustUp
	}
	return domain.ActionAdjustDown
}
