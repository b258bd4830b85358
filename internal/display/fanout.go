package display

import "github.com/hammamikhairi/wristtimer/internal/domain"

// Compile-time interface checks.
var (
	_ domain.Display     = Fanout(nil)
	_ domain.ModeDisplay = Fanout(nil)
)

// Fanout drives several displays with the same calls, in order.
type Fanout []domain.Display

// SetTitle implements domain.Display.
func (f Fanout) SetTitle(text string) {
	for _, d := range f {
		d.SetTitle(text)
	}
}

// SetCountdown implements domain.Display.
func (f Fanout) SetCountdown(text string) {
	for _, d := range f {
		d.SetCountdown(text)
	}
}

// SetClock implements domain.Display.
func (f Fanout) SetClock(text string) {
	for _, d := range f {
		d.SetClock(text)
	}
}

// SetMarker implements domain.Display.
func (f Fanout) SetMarker(unit domain.Unit, visible bool) {
	for _, d := range f {
		d.SetMarker(unit, visible)
	}
}

// SetMode forwards to the members that show the mode.
func (f Fanout) SetMode(mode domain.Mode) {
	for _, d := range f {
		if md, ok := d.(domain.ModeDisplay); ok {
			md.SetMode(mode)
		}
	}
}
