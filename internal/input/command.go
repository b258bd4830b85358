package input

import (
	"fmt"
	"time"

	"github.com/hammamikhairi/wristtimer/internal/domain"
)

// CommandKind classifies what a keyboard or console user asked for.
type CommandKind int

const (
	CommandUnknown CommandKind = iota
	// CommandGesture performs a button gesture.
	CommandGesture
	// CommandSet types a configured duration directly.
	CommandSet
	CommandStatus
	CommandHelp
	CommandQuit
)

// String returns a human-readable command kind.
func (k CommandKind) String() string {
	switch k {
	case CommandGesture:
		return "gesture"
	case CommandSet:
		return "set"
	case CommandStatus:
		return "status"
	case CommandHelp:
		return "help"
	case CommandQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Gesture is a complete button gesture, for input sources that cannot
// observe separate press and release edges.
type Gesture int

const (
	GestureClick Gesture = iota
	GestureLongPress
	GestureDoubleClick
	// GestureHold keeps the button down for Count repeat periods.
	GestureHold
)

// String returns a human-readable gesture.
func (g Gesture) String() string {
	switch g {
	case GestureClick:
		return "click"
	case GestureLongPress:
		return "long"
	case GestureDoubleClick:
		return "double"
	case GestureHold:
		return "hold"
	default:
		return fmt.Sprintf("gesture(%d)", int(g))
	}
}

// Command is one parsed user request.
type Command struct {
	Kind    CommandKind
	Button  Button
	Gesture Gesture
	Count   int    // repeats for GestureHold
	Seconds int    // for CommandSet
	Raw     string // original input, kept for unknown commands
}

// Click returns a single-click gesture command.
func Click(b Button) Command {
	return Command{Kind: CommandGesture, Button: b, Gesture: GestureClick}
}

// LongPress returns a long-press gesture command.
func LongPress(b Button) Command {
	return Command{Kind: CommandGesture, Button: b, Gesture: GestureLongPress}
}

// DoubleClick returns a double-click gesture command.
func DoubleClick(b Button) Command {
	return Command{Kind: CommandGesture, Button: b, Gesture: GestureDoubleClick}
}

// Hold returns a gesture that keeps b down long enough for count actions.
func Hold(b Button, count int) Command {
	return Command{Kind: CommandGesture, Button: b, Gesture: GestureHold, Count: count}
}

// Perform synthesizes the edges of a gesture starting at now and feeds
// them through the dispatcher. A long press or hold moves the dispatcher's
// clock into the future by the length of the gesture.
func (d *Dispatcher) Perform(cmd Command, now time.Time) []domain.Action {
	if cmd.Kind != CommandGesture {
		return nil
	}

	var out []domain.Action
	tap := func(at time.Time) {
		out = append(out, d.Feed(Edge{Button: cmd.Button, Pressed: true, At: at})...)
		out = append(out, d.Feed(Edge{Button: cmd.Button, Pressed: false, At: at})...)
	}

	switch cmd.Gesture {
	case GestureClick:
		tap(now)
	case GestureDoubleClick:
		tap(now)
		tap(now)
	case GestureLongPress:
		out = append(out, d.Feed(Edge{Button: cmd.Button, Pressed: true, At: now})...)
		out = append(out, d.Feed(Edge{Button: cmd.Button, Pressed: false, At: now.Add(d.timing.LongPress)})...)
	case GestureHold:
		n := cmd.Count
		if n < 1 {
			n = 1
		}
		release := now.Add(time.Duration(n-1) * d.timing.Repeat)
		out = append(out, d.Feed(Edge{Button: cmd.Button, Pressed: true, At: now})...)
		out = append(out, d.Feed(Edge{Button: cmd.Button, Pressed: false, At: release})...)
	}
	return out
}
