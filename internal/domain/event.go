package domain

import (
	"fmt"
	"time"
)

// Action is a semantic input event produced by the input dispatcher.
type Action int

const (
	ActionNone Action = iota
	// ActionActivate is a single Select click: start, pause, resume,
	// or cycle the unit while setting.
	ActionActivate
	// ActionToggleSetting is a Select long press.
	ActionToggleSetting
	// ActionLongRelease is the release that ends a long press. It has no
	// effect; it exists so the release is never read as a click.
	ActionLongRelease
	// ActionReset is a Select double click.
	ActionReset
	// ActionAdjustUp is an Up click or repeat.
	ActionAdjustUp
	// ActionAdjustDown is a Down click or repeat.
	ActionAdjustDown
)

// String returns a human-readable action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionActivate:
		return "activate"
	case ActionToggleSetting:
		return "toggle_setting"
	case ActionLongRelease:
		return "long_release"
	case ActionReset:
		return "reset"
	case ActionAdjustUp:
		return "adjust_up"
	case ActionAdjustDown:
		return "adjust_down"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// EventKind classifies an Event.
type EventKind int

const (
	// EventTick is the once-per-second time event.
	EventTick EventKind = iota
	// EventAction carries a semantic button action.
	EventAction
	// EventMinute signals that the wall-clock minute changed.
	EventMinute
	// EventSet types a configured duration directly. Only honoured while
	// setting.
	EventSet
)

// String returns a human-readable event kind.
func (k EventKind) String() string {
	switch k {
	case EventTick:
		return "tick"
	case EventAction:
		return "action"
	case EventMinute:
		return "minute"
	case EventSet:
		return "set"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is one unit of work for the timer state machine.
type Event struct {
	Kind    EventKind
	Action  Action // only for EventAction
	Seconds int    // only for EventSet
	At      time.Time
}

// Tick builds a tick event.
func Tick(at time.Time) Event {
	return Event{Kind: EventTick, At: at}
}

// Press builds an action event.
func Press(a Action, at time.Time) Event {
	return Event{Kind: EventAction, Action: a, At: at}
}

// MinuteChanged builds a clock refresh event.
func MinuteChanged(at time.Time) Event {
	return Event{Kind: EventMinute, At: at}
}

// SetTo builds a direct configured-duration event.
func SetTo(seconds int, at time.Time) Event {
	return Event{Kind: EventSet, Seconds: seconds, At: at}
}

// String returns a compact description for logs.
func (e Event) String() string {
	switch e.Kind {
	case EventAction:
		return "action:" + e.Action.String()
	case EventSet:
		return fmt.Sprintf("set:%d", e.Seconds)
	}
	return e.Kind.String()
}
