package domain

import "context"

// KeyTotalSeconds is the persistence key for the configured duration.
const KeyTotalSeconds = "total_seconds"

// Display renders the watch face. Implementations can draw to a terminal,
// a 1-bit frame buffer, an OLED panel, or a console prompt. Calls arrive
// from the timer's event loop and must not block for long.
type Display interface {
	SetTitle(text string)
	SetCountdown(text string)
	SetClock(text string)
	// SetMarker draws or hides the "unit selected" bar under one field of
	// the countdown.
	SetMarker(unit Unit, visible bool)
}

// ModeDisplay is an optional interface for displays that also show the
// current mode.
type ModeDisplay interface {
	SetMode(mode Mode)
}

// Alerter plays an alert pattern. Alert must return promptly; playback
// happens in the background.
type Alerter interface {
	Alert(ctx context.Context, pattern VibePattern) error
}

// IntStore persists small integers by key. Implementations can be
// in-memory, a YAML file, or SQLite.
type IntStore interface {
	// LoadInt returns the stored value and true, or false when the key
	// has never been saved.
	LoadInt(ctx context.Context, key string) (int, bool, error)
	SaveInt(ctx context.Context, key string, value int) error
	Close() error
}
