package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hammamikhairi/wristtimer/internal/domain"
	"github.com/hammamikhairi/wristtimer/internal/logger"
)

// --- Fakes ---

type markerCall struct {
	unit    domain.Unit
	visible bool
}

type recordingDisplay struct {
	title      string
	countdowns []string
	clocks     []string
	markers    []markerCall
	modes      []domain.Mode
}

func (d *recordingDisplay) SetTitle(text string)     { d.title = text }
func (d *recordingDisplay) SetCountdown(text string) { d.countdowns = append(d.countdowns, text) }
func (d *recordingDisplay) SetClock(text string)     { d.clocks = append(d.clocks, text) }
func (d *recordingDisplay) SetMarker(u domain.Unit, visible bool) {
	d.markers = append(d.markers, markerCall{u, visible})
}
func (d *recordingDisplay) SetMode(m domain.Mode) { d.modes = append(d.modes, m) }

func (d *recordingDisplay) lastCountdown() string {
	if len(d.countdowns) == 0 {
		return ""
	}
	return d.countdowns[len(d.countdowns)-1]
}

type countingAlerter struct {
	calls   int
	pattern domain.VibePattern
	err     error
}

func (a *countingAlerter) Alert(_ context.Context, p domain.VibePattern) error {
	a.calls++
	a.pattern = p
	return a.err
}

func setupEngine(opts ...Option) (*Engine, *recordingDisplay, *countingAlerter) {
	d := &recordingDisplay{}
	a := &countingAlerter{}
	log := logger.New(logger.LevelOff, nil)
	return New(d, a, log, opts...), d, a
}

// --- Tests ---

func TestEngineStartPaintsFace(t *testing.T) {
	e, d, _ := setupEngine(WithClock24h(true))
	e.Start(context.Background(), t0)

	if d.title != DefaultTitle {
		t.Fatalf("expected title %q, got %q", DefaultTitle, d.title)
	}
	if d.lastCountdown() != "00:05:00" {
		t.Fatalf("expected 00:05:00, got %q", d.lastCountdown())
	}
	if len(d.clocks) != 1 || d.clocks[0] != "March  1   14:05" {
		t.Fatalf("unexpected clock %v", d.clocks)
	}
	if len(d.markers) != 1 || d.markers[0].visible {
		t.Fatalf("expected hidden marker, got %v", d.markers)
	}
	if len(d.modes) != 1 || d.modes[0] != domain.ModeIdle {
		t.Fatalf("expected idle mode, got %v", d.modes)
	}
}

func TestEngineSetRunAndAlert(t *testing.T) {
	ctx := context.Background()
	e, d, a := setupEngine(WithConfigured(300))
	e.Start(ctx, t0)

	e.Handle(ctx, domain.Press(domain.ActionToggleSetting, t0))
	e.Handle(ctx, domain.Press(domain.ActionAdjustUp, t0))
	if e.Configured() != 360 {
		t.Fatalf("expected 360 configured, got %d", e.Configured())
	}
	if d.lastCountdown() != "00:06:00" {
		t.Fatalf("expected 00:06:00, got %q", d.lastCountdown())
	}

	e.Handle(ctx, domain.Press(domain.ActionToggleSetting, t0))
	if s := e.State(); s.Mode != domain.ModeIdle || s.Duration.Remaining() != 360 {
		t.Fatalf("expected idle with 360, got %s with %d", s.Mode, s.Duration.Remaining())
	}

	e.Handle(ctx, domain.Press(domain.ActionActivate, t0))
	if e.State().Mode != domain.ModeRunning {
		t.Fatalf("expected running, got %s", e.State().Mode)
	}

	for i := 0; i < 360; i++ {
		e.Handle(ctx, domain.Tick(t0))
	}
	if e.State().Mode != domain.ModeIdle {
		t.Fatalf("expected idle after 360 ticks, got %s", e.State().Mode)
	}
	if a.calls != 1 {
		t.Fatalf("expected exactly one alert, got %d", a.calls)
	}
	if len(a.pattern) != len(domain.AlarmFinished) {
		t.Fatalf("expected alarm pattern, got %v", a.pattern)
	}
	if d.lastCountdown() != "00:00:00" {
		t.Fatalf("expected 00:00:00 at zero, got %q", d.lastCountdown())
	}

	// The next idle tick restores the configured value, without a new alert.
	e.Handle(ctx, domain.Tick(t0))
	e.Handle(ctx, domain.Tick(t0))
	if a.calls != 1 {
		t.Fatalf("alert re-fired, got %d", a.calls)
	}
	if d.lastCountdown() != "00:06:00" {
		t.Fatalf("expected 00:06:00 after idle tick, got %q", d.lastCountdown())
	}
}

func TestEngineSkipsUnchangedCountdown(t *testing.T) {
	ctx := context.Background()
	e, d, _ := setupEngine()
	e.Start(ctx, t0)

	for i := 0; i < 10; i++ {
		e.Handle(ctx, domain.Tick(t0))
	}
	if len(d.countdowns) != 1 {
		t.Fatalf("expected one countdown write for idle ticks, got %d", len(d.countdowns))
	}

	e.Handle(ctx, domain.Press(domain.ActionActivate, t0))
	e.Handle(ctx, domain.Tick(t0))
	if len(d.countdowns) != 2 || d.lastCountdown() != "00:04:59" {
		t.Fatalf("expected a second write for 00:04:59, got %v", d.countdowns)
	}
}

func TestEngineBlinksMarkerWhileSetting(t *testing.T) {
	ctx := context.Background()
	e, d, _ := setupEngine()
	e.Start(ctx, t0)
	d.markers = nil

	e.Handle(ctx, domain.Press(domain.ActionToggleSetting, t0))
	e.Handle(ctx, domain.Tick(t0))
	e.Handle(ctx, domain.Tick(t0))
	e.Handle(ctx, domain.Press(domain.ActionToggleSetting, t0))

	want := []markerCall{
		{domain.UnitMinute, true},
		{domain.UnitMinute, false},
		{domain.UnitMinute, true},
		{domain.UnitMinute, false},
	}
	if len(d.markers) != len(want) {
		t.Fatalf("expected %v, got %v", want, d.markers)
	}
	for i := range want {
		if d.markers[i] != want[i] {
			t.Fatalf("marker %d: expected %v, got %v", i, want[i], d.markers[i])
		}
	}
}

func TestEngineMinuteRefreshesClock(t *testing.T) {
	ctx := context.Background()
	e, d, _ := setupEngine()
	e.Start(ctx, t0)

	e.Handle(ctx, domain.MinuteChanged(t0.Add(61*time.Minute)))
	if len(d.clocks) != 2 || d.clocks[1] != "March  1   03:06" {
		t.Fatalf("unexpected clocks %v", d.clocks)
	}
}

func TestEngineAlertErrorIsLogged(t *testing.T) {
	ctx := context.Background()
	e, _, a := setupEngine(WithConfigured(1))
	a.err = errors.New("no audio device")
	e.Start(ctx, t0)

	e.Handle(ctx, domain.Press(domain.ActionActivate, t0))
	e.Handle(ctx, domain.Tick(t0))
	if e.State().Mode != domain.ModeIdle || a.calls != 1 {
		t.Fatalf("expected idle after one failed alert, got %s, %d calls", e.State().Mode, a.calls)
	}
}

func TestEngineWithoutModeDisplay(t *testing.T) {
	type onlyDisplay struct{ domain.Display }
	rec := &recordingDisplay{}
	e := New(onlyDisplay{rec}, &countingAlerter{}, logger.New(logger.LevelOff, nil))

	ctx := context.Background()
	e.Start(ctx, t0)
	e.Handle(ctx, domain.Press(domain.ActionActivate, t0))
	if len(rec.modes) != 0 {
		t.Fatalf("SetMode reached a display that does not expose it: %v", rec.modes)
	}
}

func TestEngineRestoreAndOptions(t *testing.T) {
	e, d, a := setupEngine(WithTitle("tea"), WithPattern(domain.VibePattern{100}))
	e.Restore(90)
	ctx := context.Background()
	e.Start(ctx, t0)

	if d.title != "tea" {
		t.Fatalf("expected custom title, got %q", d.title)
	}
	if d.lastCountdown() != "00:01:30" {
		t.Fatalf("expected 00:01:30, got %q", d.lastCountdown())
	}

	e.Restore(-5)
	if e.Configured() != 300 {
		t.Fatalf("expected default for invalid restore, got %d", e.Configured())
	}

	e.Restore(1)
	e.Handle(ctx, domain.Press(domain.ActionActivate, t0))
	e.Handle(ctx, domain.Tick(t0))
	if len(a.pattern) != 1 {
		t.Fatalf("expected custom pattern, got %v", a.pattern)
	}
}

func TestFormatClock(t *testing.T) {
	evening := t0.Add(6 * time.Hour)
	if got := FormatClock(evening, true); got != "March  1   20:05" {
		t.Fatalf("unexpected 24h clock %q", got)
	}
	if got := FormatClock(evening, false); got != "March  1   08:05" {
		t.Fatalf("unexpected 12h clock %q", got)
	}
}
