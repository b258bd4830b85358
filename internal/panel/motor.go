package panel

import (
	"context"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/hammamikhairi/wristtimer/internal/domain"
	"github.com/hammamikhairi/wristtimer/internal/logger"
)

// Compile-time interface check.
var _ domain.Alerter = (*Motor)(nil)

// Output is the part of gpio.PinOut the motor needs.
type Output interface {
	Out(l gpio.Level) error
}

// Motor drives a vibration motor through a GPIO pin, high for "on"
// segments of a pattern.
type Motor struct {
	pin Output
	log *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewMotor wraps an output pin.
func NewMotor(pin Output, log *logger.Logger) *Motor {
	return &Motor{pin: pin, log: log}
}

// Alert starts the pattern and returns. A new alert interrupts the
// previous one.
func (m *Motor) Alert(ctx context.Context, pattern domain.VibePattern) error {
	m.Stop()

	playCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	m.mu.Lock()
	m.cancel, m.done = cancel, done
	m.mu.Unlock()

	go m.play(playCtx, pattern, done)
	return nil
}

// Stop interrupts the current pattern and waits for the pin to go low.
func (m *Motor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (m *Motor) play(ctx context.Context, pattern domain.VibePattern, done chan struct{}) {
	defer close(done)
	defer m.set(gpio.Low)

	for i, seg := range pattern {
		level := gpio.Low
		if pattern.On(i) {
			level = gpio.High
		}
		m.set(level)

		t := time.NewTimer(seg)
		select {
		case <-ctx.Done():
			t.Stop()
			m.log.Debug("motor: interrupted")
			return
		case <-t.C:
		}
	}
}

func (m *Motor) set(l gpio.Level) {
	if err := m.pin.Out(l); err != nil {
		m.log.Error("motor: driving pin %s: %v", l, err)
	}
}
