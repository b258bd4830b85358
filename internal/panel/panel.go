// Package panel talks to the watch hardware through periph.io: an SSD1306
// display on I²C, three active-low buttons and a vibration motor on GPIO.
package panel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"

	"github.com/hammamikhairi/wristtimer/internal/frame"
	"github.com/hammamikhairi/wristtimer/internal/input"
	"github.com/hammamikhairi/wristtimer/internal/logger"
)

// Config names the bus and pins. Pin names are anything gpioreg knows,
// e.g. "GPIO17".
type Config struct {
	Bus       string // I²C bus, "" for the first one
	PinSelect string
	PinUp     string
	PinDown   string
	PinMotor  string // optional
}

// DefaultConfig matches a common Raspberry Pi wiring.
func DefaultConfig() Config {
	return Config{
		PinSelect: "GPIO17",
		PinUp:     "GPIO27",
		PinDown:   "GPIO22",
		PinMotor:  "GPIO18",
	}
}

// pollTimeout bounds each edge wait so Watch notices cancellation.
const pollTimeout = 100 * time.Millisecond

// buttonPin is the part of gpio.PinIn a button watcher needs.
type buttonPin interface {
	WaitForEdge(timeout time.Duration) bool
	Read() gpio.Level
}

// Panel owns the opened hardware.
type Panel struct {
	bus     i2c.BusCloser
	dev     *ssd1306.Dev
	buttons map[input.Button]buttonPin
	motor   *Motor
	log     *logger.Logger
}

// Open initializes the host drivers and claims the display and pins.
func Open(cfg Config, log *logger.Logger) (*Panel, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}

	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", cfg.Bus, err)
	}

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("init ssd1306: %w", err)
	}

	p := &Panel{
		bus:     bus,
		dev:     dev,
		buttons: make(map[input.Button]buttonPin),
		log:     log,
	}

	for b, name := range map[input.Button]string{
		input.ButtonSelect: cfg.PinSelect,
		input.ButtonUp:     cfg.PinUp,
		input.ButtonDown:   cfg.PinDown,
	} {
		pin := gpioreg.ByName(name)
		if pin == nil {
			p.Close()
			return nil, fmt.Errorf("%s button pin %q: not found", b, name)
		}
		if err := pin.In(gpio.PullUp, gpio.BothEdges); err != nil {
			p.Close()
			return nil, fmt.Errorf("%s button pin %q: %w", b, name, err)
		}
		p.buttons[b] = pin
	}

	if cfg.PinMotor != "" {
		pin := gpioreg.ByName(cfg.PinMotor)
		if pin == nil {
			p.Close()
			return nil, fmt.Errorf("motor pin %q: not found", cfg.PinMotor)
		}
		if err := pin.Out(gpio.Low); err != nil {
			p.Close()
			return nil, fmt.Errorf("motor pin %q: %w", cfg.PinMotor, err)
		}
		p.motor = NewMotor(pin, log)
	}

	log.Info("panel ready: ssd1306 %v on %q", dev.Bounds().Size(), cfg.Bus)
	return p, nil
}

// Sink returns the display for frame.Renderer.
func (p *Panel) Sink() frame.Sink {
	return p.dev
}

// Layout returns the layout matching the display size.
func (p *Panel) Layout() frame.Layout {
	l := frame.OLED
	l.Size = p.dev.Bounds().Size()
	return l
}

// Motor returns the vibration motor, or nil when no motor pin is set.
func (p *Panel) Motor() *Motor {
	return p.motor
}

// Watch reports button edges to emit until ctx is cancelled. Buttons are
// active low. Blocks; run it on its own goroutine.
func (p *Panel) Watch(ctx context.Context, emit func(input.Edge)) {
	watchButtons(ctx, p.buttons, emit, p.log)
}

func watchButtons(ctx context.Context, pins map[input.Button]buttonPin, emit func(input.Edge), log *logger.Logger) {
	var wg sync.WaitGroup
	for b, pin := range pins {
		wg.Add(1)
		go func(b input.Button, pin buttonPin) {
			defer wg.Done()
			watchPin(ctx, b, pin, emit)
		}(b, pin)
	}
	log.Debug("panel: watching %d buttons", len(pins))
	wg.Wait()
}

// watchPin turns level changes into edges, dropping repeats of the same
// level that contact bounce produces.
func watchPin(ctx context.Context, b input.Button, pin buttonPin, emit func(input.Edge)) {
	pressed := pin.Read() == gpio.Low
	for ctx.Err() == nil {
		if !pin.WaitForEdge(pollTimeout) {
			continue
		}
		now := pin.Read() == gpio.Low
		if now == pressed {
			continue
		}
		pressed = now
		emit(input.Edge{Button: b, Pressed: pressed, At: time.Now()})
	}
}

// Close stops the motor, blanks the display and releases the bus.
func (p *Panel) Close() error {
	var errs []error
	if p.motor != nil {
		p.motor.Stop()
	}
	if p.dev != nil {
		if err := p.dev.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt display: %w", err))
		}
	}
	if err := p.bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close i2c bus: %w", err))
	}
	return errors.Join(errs...)
}
