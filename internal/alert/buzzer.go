package alert

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/wristtimer/internal/domain"
	"github.com/hammamikhairi/wristtimer/internal/logger"
)

// Compile-time interface check.
var _ domain.Alerter = (*Buzzer)(nil)

// BuzzerOption configures the buzzer.
type BuzzerOption func(*Buzzer)

// WithTone sets the square-wave frequency and amplitude.
func WithTone(hz, amplitude int) BuzzerOption {
	return func(b *Buzzer) {
		b.hz = hz
		b.amplitude = amplitude
	}
}

// Buzzer plays alert patterns as a tone on the default audio device.
type Buzzer struct {
	ctx       *oto.Context
	log       *logger.Logger
	hz        int
	amplitude int

	mu     sync.Mutex
	active *oto.Player // currently playing, nil when idle
}

// NewBuzzer initializes the system audio context. Returns an error if the
// audio device is unavailable. oto allows one context per process.
func NewBuzzer(log *logger.Logger, opts ...BuzzerOption) (*Buzzer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-readyChan

	b := &Buzzer{
		ctx:       ctx,
		log:       log,
		hz:        DefaultToneHz,
		amplitude: DefaultAmplitude,
	}
	for _, opt := range opts {
		opt(b)
	}

	log.Debug("buzzer initialized (rate=%d, tone=%dHz)", SampleRate, b.hz)
	return b, nil
}

// Alert starts playing the pattern and returns immediately. A new alert
// interrupts one still playing.
func (b *Buzzer) Alert(ctx context.Context, pattern domain.VibePattern) error {
	pcm := Synthesize(pattern, b.hz, b.amplitude, SampleRate)

	b.Stop()
	player := b.ctx.NewPlayer(bytes.NewReader(pcm))

	b.mu.Lock()
	b.active = player
	b.mu.Unlock()

	player.Play()
	b.log.Debug("buzzer: playing %s pattern (%d bytes)", pattern.Total(), len(pcm))

	go b.wait(ctx, player)
	return nil
}

// Stop interrupts the current alert, if any. Safe to call concurrently
// and when nothing is playing.
func (b *Buzzer) Stop() {
	b.mu.Lock()
	active := b.active
	b.mu.Unlock()

	if active != nil {
		active.Pause()
		b.log.Debug("buzzer: interrupted")
	}
}

// wait closes the player when playback ends or ctx is cancelled.
func (b *Buzzer) wait(ctx context.Context, player *oto.Player) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
		case <-ticker.C:
		}
	}

	b.mu.Lock()
	if b.active == player {
		b.active = nil
	}
	b.mu.Unlock()

	if err := player.Close(); err != nil {
		b.log.Warn("buzzer: closing player: %v", err)
	}
}
