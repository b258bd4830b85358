// Package duration holds the configured and remaining countdown values in
// whole seconds and renders them as fixed-width HH:MM:SS text.
package duration

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hammamikhairi/wristtimer/internal/domain"
)

const (
	// Limit is the exclusive upper bound for the configured duration.
	// Two hour digits on the display allow at most 99:59:59.
	Limit = 100 * 60 * 60
	// Default is used when nothing valid has been persisted.
	Default = 5 * 60
)

// Model holds the configured duration and the live countdown value.
// The zero value is a valid 0-second model.
type Model struct {
	configured int
	remaining  int
}

// New returns a model configured to seconds, or to Default if seconds
// is out of range.
func New(seconds int) Model {
	if !InRange(seconds) {
		seconds = Default
	}
	return Model{configured: seconds, remaining: seconds}
}

// InRange reports whether seconds is a valid configured duration.
func InRange(seconds int) bool {
	return seconds >= 0 && seconds < Limit
}

// Configured returns the duration the timer resets to.
func (m Model) Configured() int { return m.configured }

// Remaining returns the live countdown value.
func (m Model) Remaining() int { return m.remaining }

// SetConfigured stores seconds and mirrors it into the remaining value.
// Out-of-range values are rejected and leave the model unchanged.
func (m *Model) SetConfigured(seconds int) error {
	if !InRange(seconds) {
		return fmt.Errorf("%d seconds: %w", seconds, domain.ErrOutOfRange)
	}
	m.configured = seconds
	m.remaining = seconds
	return nil
}

// AdjustConfigured shifts the configured duration by delta seconds with
// SetConfigured semantics: a result outside the range is rejected, not
// clamped.
func (m *Model) AdjustConfigured(delta int) error {
	return m.SetConfigured(m.configured + delta)
}

// Reset copies the configured duration into the remaining value.
func (m *Model) Reset() {
	m.remaining = m.configured
}

// Decrement counts the remaining value down by one second and returns it.
// Decrementing past zero is a programming error.
func (m *Model) Decrement() int {
	if m.remaining <= 0 {
		panic(fmt.Sprintf("duration: decrement with remaining=%d", m.remaining))
	}
	m.remaining--
	return m.remaining
}

// Format renders the remaining value.
func (m Model) Format() string {
	return Format(m.remaining)
}

// Format renders seconds as zero-padded HH:MM:SS.
func Format(seconds int) string {
	if seconds < 0 {
		panic(fmt.Sprintf("duration: format negative value %d", seconds))
	}
	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Parse reads "H:M:S", "M:S" or plain seconds. Minutes and seconds
// fields must be below 60 when a larger field is present. A value that
// reaches Limit is reported as domain.ErrOutOfRange.
func Parse(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("parse duration: empty input")
	}

	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("parse duration %q: too many fields", text)
	}

	total := 0
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("parse duration %q: bad field %q", text, p)
		}
		// Every field after the first is a base-60 digit.
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("parse duration %q: field %q must be below 60", text, p)
		}
		// Both operands stay below Limit, so this cannot overflow.
		if n >= Limit {
			return 0, fmt.Errorf("parse duration %q: %w", text, domain.ErrOutOfRange)
		}
		total = total*60 + n
		if total >= Limit {
			return 0, fmt.Errorf("parse duration %q: %w", text, domain.ErrOutOfRange)
		}
	}
	return total, nil
}
