// Package engine is the timer state machine: a pure transition function
// plus a thin shell that turns effects into display and alert calls.
package engine

import (
	"context"
	"time"

	"github.com/hammamikhairi/wristtimer/internal/domain"
	"github.com/hammamikhairi/wristtimer/internal/duration"
	"github.com/hammamikhairi/wristtimer/internal/logger"
)

// DefaultTitle is shown in the title field.
const DefaultTitle = "pebble timer"

const (
	clockFormat24 = "January _2   15:04"
	clockFormat12 = "January _2   03:04"
)

// Option configures the engine.
type Option func(*Engine)

// WithConfigured sets the initial configured duration in seconds. Values
// outside [0, duration.Limit) fall back to duration.Default.
func WithConfigured(seconds int) Option {
	return func(e *Engine) {
		e.state = Initial(seconds)
	}
}

// WithClock24h selects the 24-hour wall-clock format.
func WithClock24h(on bool) Option {
	return func(e *Engine) {
		e.clock24h = on
	}
}

// WithTitle overrides the title text.
func WithTitle(title string) Option {
	return func(e *Engine) {
		e.title = title
	}
}

// WithPattern overrides the alarm pattern.
func WithPattern(p domain.VibePattern) Option {
	return func(e *Engine) {
		e.pattern = p
	}
}

// Engine owns the timer state and drives the adapters. It is not safe
// for concurrent use; one event loop feeds it.
type Engine struct {
	display domain.Display
	alerter domain.Alerter
	log     *logger.Logger

	title    string
	clock24h bool
	pattern  domain.VibePattern

	state        State
	lastRendered int // seconds last written to the countdown, -1 for none
}

// New creates an engine in Idle with the default duration.
func New(display domain.Display, alerter domain.Alerter, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		display:      display,
		alerter:      alerter,
		log:          log,
		title:        DefaultTitle,
		pattern:      domain.AlarmFinished,
		state:        Initial(duration.Default),
		lastRendered: -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Restore puts the engine back in Idle with a configured duration loaded
// from storage. Call it before Start.
func (e *Engine) Restore(seconds int) {
	e.state = Initial(seconds)
	e.lastRendered = -1
	e.log.Debug("engine: restored configured duration %s", duration.Format(e.state.Duration.Configured()))
}

// Start paints the initial face: title, countdown, clock and no marker.
func (e *Engine) Start(ctx context.Context, now time.Time) {
	e.display.SetTitle(e.title)
	e.apply(ctx, []Effect{
		{Kind: EffectCountdown, Seconds: e.state.Duration.Remaining()},
		{Kind: EffectClock, At: now},
		{Kind: EffectMarker, Unit: e.state.Unit, Visible: false},
		{Kind: EffectMode, Mode: e.state.Mode},
	})
	e.log.Info("engine: started in %s with %s", e.state.Mode, duration.Format(e.state.Duration.Configured()))
}

// Handle applies one event.
func (e *Engine) Handle(ctx context.Context, ev domain.Event) {
	prev := e.state
	next, fx := Transition(e.state, ev)
	e.state = next

	if ev.Kind == domain.EventAction {
		e.logAction(ev.Action, prev, next)
	}
	if ev.Kind == domain.EventSet && prev.Duration.Configured() == next.Duration.Configured() {
		e.log.Debug("engine: ignored set to %d seconds in %s", ev.Seconds, prev.Mode)
	}
	if next.Mode != prev.Mode {
		e.log.Info("engine: %s -> %s on %s", prev.Mode, next.Mode, ev)
	}

	e.apply(ctx, fx)
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	return e.state
}

// Configured returns the configured duration in seconds.
func (e *Engine) Configured() int {
	return e.state.Duration.Configured()
}

func (e *Engine) logAction(a domain.Action, prev, next State) {
	switch a {
	case domain.ActionAdjustUp, domain.ActionAdjustDown:
		if prev.Mode != domain.ModeSetting {
			return
		}
		if prev.Duration.Configured() == next.Duration.Configured() {
			e.log.Debug("engine: %s by one %s would leave range, ignored", a, prev.Unit)
			return
		}
		e.log.Debug("engine: configured %s", duration.Format(next.Duration.Configured()))
	case domain.ActionActivate:
		if prev.Mode == domain.ModeSetting {
			e.log.Debug("engine: editing %s", next.Unit)
		}
	}
}

func (e *Engine) apply(ctx context.Context, fx []Effect) {
	for _, f := range fx {
		switch f.Kind {
		case EffectCountdown:
			if f.Seconds == e.lastRendered {
				continue
			}
			e.lastRendered = f.Seconds
			e.display.SetCountdown(duration.Format(f.Seconds))
		case EffectMarker:
			e.display.SetMarker(f.Unit, f.Visible)
		case EffectAlert:
			e.log.Info("engine: time is up")
			if err := e.alerter.Alert(ctx, e.pattern); err != nil {
				e.log.Error("engine: alert failed: %v", err)
			}
		case EffectClock:
			e.display.SetClock(FormatClock(f.At, e.clock24h))
		case EffectMode:
			if md, ok := e.display.(domain.ModeDisplay); ok {
				md.SetMode(f.Mode)
			}
		}
	}
}

// FormatClock renders the wall-clock line, e.g. "March  1   14:05".
func FormatClock(t time.Time, use24h bool) string {
	if use24h {
		return t.Format(clockFormat24)
	}
	return t.Format(clockFormat12)
}
