package alert

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/hammamikhairi/wristtimer/internal/domain"
	"github.com/hammamikhairi/wristtimer/internal/logger"
)

func TestSynthesizeLength(t *testing.T) {
	pcm := Synthesize(domain.AlarmFinished, DefaultToneHz, DefaultAmplitude, SampleRate)

	// 1.5s of pattern at 24kHz, two bytes per sample.
	want := int(domain.AlarmFinished.Total()/time.Millisecond) * SampleRate / 1000 * 2
	if len(pcm) != want {
		t.Fatalf("expected %d bytes, got %d", want, len(pcm))
	}
}

func TestSynthesizeOnOff(t *testing.T) {
	pattern := domain.VibePattern{10 * time.Millisecond, 10 * time.Millisecond}
	pcm := Synthesize(pattern, 1000, 500, 8000)
	if len(pcm) != 320 {
		t.Fatalf("expected 160 samples, got %d bytes", len(pcm))
	}

	sample := func(i int) int16 {
		return int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}

	// 1kHz at 8kHz: four samples high, four low.
	for i, want := range []int16{500, 500, 500, 500, -500, -500, -500, -500, 500} {
		if got := sample(i); got != want {
			t.Fatalf("sample %d: expected %d, got %d", i, want, got)
		}
	}
	for i := 80; i < 160; i++ {
		if sample(i) != 0 {
			t.Fatalf("expected silence at sample %d, got %d", i, sample(i))
		}
	}
}

func TestSynthesizeEmpty(t *testing.T) {
	if pcm := Synthesize(nil, DefaultToneHz, DefaultAmplitude, SampleRate); len(pcm) != 0 {
		t.Fatalf("expected no audio, got %d bytes", len(pcm))
	}
}

func TestBannerPrints(t *testing.T) {
	var lines []string
	b := NewBanner(logger.New(logger.LevelOff, nil), func(text string) {
		lines = append(lines, text)
	})

	if err := b.Alert(context.Background(), domain.AlarmFinished); err != nil {
		t.Fatalf("alert: %v", err)
	}
	if len(lines) != 1 || lines[0] != DefaultMessage {
		t.Fatalf("unexpected output %q", lines)
	}
}

type countingAlerter struct {
	calls int
	err   error
}

func (c *countingAlerter) Alert(context.Context, domain.VibePattern) error {
	c.calls++
	return c.err
}

func TestChainCallsEveryMember(t *testing.T) {
	boom := errors.New("boom")
	first := &countingAlerter{err: boom}
	second := &countingAlerter{}
	chain := Chain{first, NewNoOp(logger.New(logger.LevelOff, nil)), second}

	err := chain.Alert(context.Background(), domain.AlarmFinished)
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if first.calls != 1 || second.calls != 1 {
		t.Fatalf("expected each member once, got %d and %d", first.calls, second.calls)
	}

	if err := (Chain{second}).Alert(context.Background(), nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestWithToneOverridesDefaults(t *testing.T) {
	b := &Buzzer{hz: DefaultToneHz, amplitude: DefaultAmplitude}
	WithTone(880, 4000)(b)
	if b.hz != 880 || b.amplitude != 4000 {
		t.Fatalf("expected 880 Hz at 4000, got %d Hz at %d", b.hz, b.amplitude)
	}
}
