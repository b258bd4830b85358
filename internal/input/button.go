// Package input turns raw button edges into the semantic actions the timer
// understands. It recognizes single clicks, long presses, double clicks and
// auto-repeat, using timestamps supplied by whoever reads the buttons.
package input

import (
	"fmt"
	"time"
)

// Button identifies one of the three physical buttons.
type Button int

const (
	ButtonSelect Button = iota
	ButtonUp
	ButtonDown
)

// String returns a human-readable button name.
func (b Button) String() string {
	switch b {
	case ButtonSelect:
		return "select"
	case ButtonUp:
		return "up"
	case ButtonDown:
		return "down"
	default:
		return fmt.Sprintf("button(%d)", int(b))
	}
}

// Edge is a raw press or release of a button.
type Edge struct {
	Button  Button
	Pressed bool
	At      time.Time
}

// Gesture windows. These match the later generation of the watch app.
const (
	// LongClickDelay is how long Select must be held to toggle setting mode.
	LongClickDelay = 700 * time.Millisecond
	// RepeatInterval is the auto-repeat period for a held Up or Down.
	RepeatInterval = 300 * time.Millisecond
	// InputTick is the dispatcher poll period.
	InputTick = 30 * time.Millisecond
	// MultiClickTicks is the double-click window in input ticks.
	MultiClickTicks = 10
)

// Timing holds the gesture windows used by a Dispatcher.
type Timing struct {
	LongPress       time.Duration
	Repeat          time.Duration
	InputTick       time.Duration
	MultiClickTicks int
}

// DefaultTiming returns the standard gesture windows.
func DefaultTiming() Timing {
	return Timing{
		LongPress:       LongClickDelay,
		Repeat:          RepeatInterval,
		InputTick:       InputTick,
		MultiClickTicks: MultiClickTicks,
	}
}

// MultiClick returns the double-click window as a duration.
func (t Timing) MultiClick() time.Duration {
	return time.Duration(t.MultiClickTicks) * t.InputTick
}
