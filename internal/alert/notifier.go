// Package alert plays the "time is up" pattern: as a tone, as a printed
// banner, or both.
package alert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hammamikhairi/wristtimer/internal/domain"
	"github.com/hammamikhairi/wristtimer/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.Alerter = (*Banner)(nil)
	_ domain.Alerter = (*NoOp)(nil)
	_ domain.Alerter = Chain(nil)
)

// UrgentFunc prints one urgent line. Matches display.UI.PrintUrgent and
// display.Console.PrintUrgent, which style it.
type UrgentFunc func(text string)

// Banner prints an urgent line when the timer finishes.
type Banner struct {
	log     *logger.Logger
	urgent  UrgentFunc
	message string
}

// NewBanner creates a printing alerter. If urgent is nil, the message is
// printed unstyled to stdout.
func NewBanner(log *logger.Logger, urgent UrgentFunc) *Banner {
	if urgent == nil {
		urgent = func(text string) { fmt.Println(text) }
	}
	return &Banner{log: log, urgent: urgent, message: DefaultMessage}
}

// Alert prints the banner.
func (b *Banner) Alert(ctx context.Context, pattern domain.VibePattern) error {
	b.log.Debug("banner: %s", b.message)
	b.urgent(b.message)
	return nil
}

// NoOp only logs. Used when sound is disabled and no other alerter is
// available.
type NoOp struct {
	log *logger.Logger
}

// NewNoOp creates a silent alerter.
func NewNoOp(log *logger.Logger) *NoOp {
	return &NoOp{log: log}
}

// Alert logs the pattern it would have played.
func (n *NoOp) Alert(ctx context.Context, pattern domain.VibePattern) error {
	n.log.Debug("alert no-op: would play %v", []time.Duration(pattern))
	return nil
}

// Chain alerts through every member in order and joins their errors.
type Chain []domain.Alerter

// Alert calls every alerter, even after one fails.
func (c Chain) Alert(ctx context.Context, pattern domain.VibePattern) error {
	var errs []error
	for _, a := range c {
		if err := a.Alert(ctx, pattern); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
