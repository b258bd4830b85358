package timer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/wristtimer/internal/domain"
	"github.com/hammamikhairi/wristtimer/internal/duration"
	"github.com/hammamikhairi/wristtimer/internal/engine"
	"github.com/hammamikhairi/wristtimer/internal/input"
	"github.com/hammamikhairi/wristtimer/internal/logger"
	"github.com/hammamikhairi/wristtimer/internal/storage"
)

// mockDisplay records what the loop draws.
type mockDisplay struct {
	mu         sync.Mutex
	countdowns []string
	clocks     []string
}

func (m *mockDisplay) SetTitle(string) {}

func (m *mockDisplay) SetCountdown(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countdowns = append(m.countdowns, text)
}

func (m *mockDisplay) SetClock(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clocks = append(m.clocks, text)
}

func (m *mockDisplay) SetMarker(domain.Unit, bool) {}

func (m *mockDisplay) clockCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clocks)
}

// mockAlerter counts alerts.
type mockAlerter struct {
	mu    sync.Mutex
	count int
}

func (m *mockAlerter) Alert(context.Context, domain.VibePattern) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count++
	return nil
}

func (m *mockAlerter) alerts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// failingStore fails every call.
type failingStore struct{}

func (failingStore) LoadInt(context.Context, string) (int, bool, error) {
	return 0, false, errors.New("disk on fire")
}
func (failingStore) SaveInt(context.Context, string, int) error { return errors.New("disk on fire") }
func (failingStore) Close() error                               { return nil }

var fastTiming = input.Timing{
	LongPress:       80 * time.Millisecond,
	Repeat:          40 * time.Millisecond,
	InputTick:       5 * time.Millisecond,
	MultiClickTicks: 2,
}

type harness struct {
	runner  *Runner
	display *mockDisplay
	alerter *mockAlerter
	cancel  context.CancelFunc
	done    chan error
}

func startRunner(t *testing.T, store domain.IntStore, opts ...Option) *harness {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	h := &harness{display: &mockDisplay{}, alerter: &mockAlerter{}, done: make(chan error, 1)}

	eng := engine.New(h.display, h.alerter, log)
	disp := input.NewDispatcher(log, input.WithTiming(fastTiming))
	opts = append([]Option{WithTickInterval(20 * time.Millisecond), WithInputTick(fastTiming.InputTick)}, opts...)
	h.runner = New(eng, disp, store, log, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- h.runner.Run(ctx) }()
	t.Cleanup(cancel)
	return h
}

func (h *harness) stop(t *testing.T) error {
	t.Helper()
	h.cancel()
	select {
	case err := <-h.done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
		return nil
	}
}

func (h *harness) do(t *testing.T, cmd input.Command) Status {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	st, err := h.runner.Do(ctx, cmd)
	if err != nil {
		t.Fatalf("do %s: %v", cmd.Kind, err)
	}
	return st
}

func TestRunnerCountsDownAndAlertsOnce(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewMemoryStore(log)
	ctx := context.Background()
	if err := store.SaveInt(ctx, domain.KeyTotalSeconds, 2); err != nil {
		t.Fatalf("save: %v", err)
	}

	h := startRunner(t, store)
	h.do(t, input.Click(input.ButtonSelect))

	// Click resolves after the 10ms window, then two 20ms ticks reach zero.
	time.Sleep(300 * time.Millisecond)

	st := h.do(t, input.Command{Kind: input.CommandStatus})
	if st.Mode != domain.ModeIdle {
		t.Fatalf("expected idle after countdown, got %s", st.Mode)
	}
	if got := h.alerter.alerts(); got != 1 {
		t.Fatalf("expected exactly one alert, got %d", got)
	}

	if err := h.stop(t); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRunnerSavesConfiguredOnShutdown(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewMemoryStore(log)
	h := startRunner(t, store)

	if st := h.do(t, input.LongPress(input.ButtonSelect)); st.Mode != domain.ModeSetting {
		t.Fatalf("expected setting, got %s", st.Mode)
	}
	if st := h.do(t, input.Click(input.ButtonUp)); st.Configured != 360 {
		t.Fatalf("expected 360 after up, got %d", st.Configured)
	}
	if st := h.do(t, input.Command{Kind: input.CommandSet, Seconds: 754}); st.Configured != 754 {
		t.Fatalf("expected 754 after set, got %d", st.Configured)
	}

	if err := h.stop(t); err != nil {
		t.Fatalf("run: %v", err)
	}

	v, ok, err := store.LoadInt(context.Background(), domain.KeyTotalSeconds)
	if err != nil || !ok || v != 754 {
		t.Fatalf("expected 754 saved, got %d %v %v", v, ok, err)
	}
}

func TestRunnerLongPressFromEdges(t *testing.T) {
	h := startRunner(t, nil)
	ctx := context.Background()

	if err := h.runner.Submit(ctx, input.Edge{Button: input.ButtonSelect, Pressed: true, At: time.Now()}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// The input poll fires the long press while the button is still down.
	time.Sleep(200 * time.Millisecond)
	if st := h.do(t, input.Command{Kind: input.CommandStatus}); st.Mode != domain.ModeSetting {
		t.Fatalf("expected setting while held, got %s", st.Mode)
	}

	if err := h.runner.Submit(ctx, input.Edge{Button: input.ButtonSelect, At: time.Now()}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if st := h.do(t, input.Command{Kind: input.CommandStatus}); st.Mode != domain.ModeSetting {
		t.Fatalf("release must not leave setting, got %s", st.Mode)
	}

	if err := h.stop(t); err != nil {
		t.Fatalf("run without store: %v", err)
	}
}

func TestRunnerStoreErrors(t *testing.T) {
	h := startRunner(t, failingStore{})

	if st := h.do(t, input.Command{Kind: input.CommandStatus}); st.Configured != 300 {
		t.Fatalf("expected default after load error, got %d", st.Configured)
	}
	if err := h.stop(t); err == nil {
		t.Fatal("expected save error on shutdown")
	}
}

func TestRunnerWarnsOnOutOfRangeSavedDuration(t *testing.T) {
	for _, saved := range []int{-5, 360000, 1 << 40} {
		var out bytes.Buffer
		log := logger.New(logger.LevelNormal, &out)
		store := storage.NewMemoryStore(logger.New(logger.LevelOff, nil))
		if err := store.SaveInt(context.Background(), domain.KeyTotalSeconds, saved); err != nil {
			t.Fatalf("save: %v", err)
		}

		eng := engine.New(&mockDisplay{}, &mockAlerter{}, log)
		r := New(eng, input.NewDispatcher(log), store, log, WithTickInterval(time.Hour))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- r.Run(ctx) }()

		reqCtx, reqCancel := context.WithTimeout(context.Background(), time.Second)
		st, err := r.Do(reqCtx, input.Command{Kind: input.CommandStatus})
		reqCancel()
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		cancel()
		if err := <-done; err != nil {
			t.Fatalf("run: %v", err)
		}

		if st.Configured != duration.Default {
			t.Fatalf("saved %d: expected default %d, got %d", saved, duration.Default, st.Configured)
		}
		if !strings.Contains(out.String(), "[WRN]") || !strings.Contains(out.String(), "out of range") {
			t.Fatalf("saved %d: expected a warning, log was %q", saved, out.String())
		}
	}
}

func TestRunnerRefreshesClockEachMinute(t *testing.T) {
	var mu sync.Mutex
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(30 * time.Second)
		return clock
	}

	h := startRunner(t, nil, WithNow(now))
	time.Sleep(200 * time.Millisecond)

	if h.display.clockCount() < 2 {
		t.Fatalf("expected clock refreshes, got %d", h.display.clockCount())
	}
	_ = h.stop(t)
}

func TestRunnerRejectsSecondRun(t *testing.T) {
	h := startRunner(t, nil)
	h.do(t, input.Command{Kind: input.CommandStatus}) // loop is up

	if err := h.runner.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	_ = h.stop(t)
}

func TestMinuteWatcher(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 10, 0, time.UTC)
	var w minuteWatcher

	steps := []struct {
		at   time.Time
		want bool
	}{
		{base, false},
		{base.Add(20 * time.Second), false},
		{base.Add(50 * time.Second), true},
		{base.Add(55 * time.Second), false},
		{base.Add(3 * time.Minute), true},
	}
	for i, s := range steps {
		if got := w.Observe(s.at); got != s.want {
			t.Fatalf("step %d: expected %v, got %v", i, s.want, got)
		}
	}
}

func TestStatusString(t *testing.T) {
	st := Status{Mode: domain.ModeRunning, Remaining: 61, Configured: 300}
	if got := st.String(); got != "running 00:01:01 of 00:05:00" {
		t.Fatalf("unexpected %q", got)
	}
	st = Status{Mode: domain.ModeSetting, Unit: domain.UnitHour, Configured: 3600}
	if got := st.String(); got != "setting 01:00:00, editing hours" {
		t.Fatalf("unexpected %q", got)
	}
}
