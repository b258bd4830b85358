// Package timer runs the event loop that owns the timer engine: one
// goroutine feeding it second ticks, button actions and clock refreshes.
package timer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/wristtimer/internal/domain"
	"github.com/hammamikhairi/wristtimer/internal/duration"
	"github.com/hammamikhairi/wristtimer/internal/engine"
	"github.com/hammamikhairi/wristtimer/internal/input"
	"github.com/hammamikhairi/wristtimer/internal/logger"
)

// ErrAlreadyRunning is returned by Run when the loop is already active.
var ErrAlreadyRunning = errors.New("runner already running")

// Option configures the runner.
type Option func(*Runner)

// WithTickInterval sets the countdown tick period.
func WithTickInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.tickInterval = d
	}
}

// WithInputTick sets how often held buttons and open click windows are
// polled.
func WithInputTick(d time.Duration) Option {
	return func(r *Runner) {
		r.inputTick = d
	}
}

// WithNow overrides the wall clock.
func WithNow(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// Status is a snapshot of the timer, for faces that print it.
type Status struct {
	Mode       domain.Mode
	Unit       domain.Unit
	Remaining  int
	Configured int
}

// String renders the status as one line.
func (s Status) String() string {
	if s.Mode == domain.ModeSetting {
		return fmt.Sprintf("%s %s, editing %ss", s.Mode, duration.Format(s.Configured), s.Unit)
	}
	return fmt.Sprintf("%s %s of %s", s.Mode, duration.Format(s.Remaining), duration.Format(s.Configured))
}

type request struct {
	cmd   input.Command
	reply chan Status
}

// Runner is the single owner of the engine and the input dispatcher.
// Other goroutines reach it through Submit and Do.
type Runner struct {
	engine     *engine.Engine
	dispatcher *input.Dispatcher
	store      domain.IntStore
	log        *logger.Logger

	tickInterval time.Duration
	inputTick    time.Duration
	now          func() time.Time

	edges    chan input.Edge
	requests chan request
	minutes  minuteWatcher

	mu      sync.Mutex
	running bool
}

// New creates a runner. The store may be nil, in which case nothing is
// loaded or saved.
func New(eng *engine.Engine, dispatcher *input.Dispatcher, store domain.IntStore, log *logger.Logger, opts ...Option) *Runner {
	r := &Runner{
		engine:       eng,
		dispatcher:   dispatcher,
		store:        store,
		log:          log,
		tickInterval: 1 * time.Second,
		inputTick:    input.InputTick,
		now:          time.Now,
		edges:        make(chan input.Edge, 16),
		requests:     make(chan request),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run loads the configured duration, paints the face and processes events
// until ctx is cancelled. It saves the configured duration on the way out.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	r.load(ctx)

	now := r.now()
	r.engine.Start(ctx, now)
	r.minutes.Observe(now)

	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()
	poll := time.NewTicker(r.inputTick)
	defer poll.Stop()

	r.log.Info("timer loop started (tick=%s, input=%s)", r.tickInterval, r.inputTick)

	for {
		select {
		case <-ctx.Done():
			r.log.Info("timer loop stopped")
			return r.save(context.WithoutCancel(ctx))
		case <-ticker.C:
			now := r.now()
			r.engine.Handle(ctx, domain.Tick(now))
			if r.minutes.Observe(now) {
				r.engine.Handle(ctx, domain.MinuteChanged(now))
			}
		case <-poll.C:
			r.dispatch(ctx, r.dispatcher.Advance(r.now()))
		case e := <-r.edges:
			r.log.Debug("timer: %s pressed=%v", e.Button, e.Pressed)
			r.dispatch(ctx, r.dispatcher.Feed(e))
		case req := <-r.requests:
			r.perform(ctx, req.cmd)
			req.reply <- r.status()
		}
	}
}

// Submit hands a raw button edge to the loop.
func (r *Runner) Submit(ctx context.Context, e input.Edge) error {
	select {
	case r.edges <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs a command on the loop and returns the status after it. Gestures
// are synthesized through the dispatcher; set only applies while setting.
func (r *Runner) Do(ctx context.Context, cmd input.Command) (Status, error) {
	req := request{cmd: cmd, reply: make(chan Status, 1)}
	select {
	case r.requests <- req:
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
	select {
	case st := <-req.reply:
		return st, nil
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
}

func (r *Runner) perform(ctx context.Context, cmd input.Command) {
	switch cmd.Kind {
	case input.CommandGesture:
		r.log.Debug("timer: %s %s", cmd.Gesture, cmd.Button)
		r.dispatch(ctx, r.dispatcher.Perform(cmd, r.now()))
	case input.CommandSet:
		r.engine.Handle(ctx, domain.SetTo(cmd.Seconds, r.now()))
	}
}

func (r *Runner) dispatch(ctx context.Context, actions []domain.Action) {
	for _, a := range actions {
		r.engine.Handle(ctx, domain.Press(a, r.now()))
	}
}

func (r *Runner) status() Status {
	s := r.engine.State()
	return Status{
		Mode:       s.Mode,
		Unit:       s.Unit,
		Remaining:  s.Duration.Remaining(),
		Configured: s.Duration.Configured(),
	}
}

func (r *Runner) load(ctx context.Context) {
	if r.store == nil {
		return
	}
	v, ok, err := r.store.LoadInt(ctx, domain.KeyTotalSeconds)
	switch {
	case err != nil:
		r.log.Warn("timer: loading configured duration: %v", err)
	case !ok:
		r.log.Debug("timer: no saved duration, using %s", duration.Format(r.engine.Configured()))
	case !duration.InRange(v):
		r.log.Warn("timer: saved duration %d is out of range, using %s", v, duration.Format(r.engine.Configured()))
	default:
		r.engine.Restore(v)
	}
}

func (r *Runner) save(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	if err := r.store.SaveInt(ctx, domain.KeyTotalSeconds, r.engine.Configured()); err != nil {
		return fmt.Errorf("saving configured duration: %w", err)
	}
	r.log.Debug("timer: saved configured duration %s", duration.Format(r.engine.Configured()))
	return nil
}
