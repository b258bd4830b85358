package domain

import "fmt"

// Mode is the timer's current operating mode. Exactly one is active.
type Mode int

const (
	// ModeIdle shows the configured duration. Entered after the alarm
	// fires or the timer is reset.
	ModeIdle Mode = iota
	// ModeSetting lets the user edit the configured duration.
	ModeSetting
	// ModePaused freezes a countdown mid-flight.
	ModePaused
	// ModeRunning decrements the remaining duration once per tick.
	ModeRunning
)

// String returns a human-readable mode.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeSetting:
		return "setting"
	case ModePaused:
		return "paused"
	case ModeRunning:
		return "running"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Unit selects which magnitude an adjustment affects while setting.
// The order matches the left-to-right fields of the HH:MM:SS display.
type Unit int

const (
	UnitHour Unit = iota
	UnitMinute
	UnitSecond
)

// unitCount is the size of the Unit cycle.
const unitCount = 3

// Next returns the following unit in the Hour → Minute → Second cycle.
func (u Unit) Next() Unit {
	return (u + 1) % unitCount
}

// Magnitude returns the number of seconds one adjustment step represents.
func (u Unit) Magnitude() int {
	switch u {
	case UnitHour:
		return 60 * 60
	case UnitMinute:
		return 60
	case UnitSecond:
		return 1
	default:
		panic(fmt.Sprintf("domain: unknown unit %d", int(u)))
	}
}

// String returns a human-readable unit.
func (u Unit) String() string {
	switch u {
	case UnitHour:
		return "hour"
	case UnitMinute:
		return "minute"
	case UnitSecond:
		return "second"
	default:
		return fmt.Sprintf("unit(%d)", int(u))
	}
}
