package duration

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hammamikhairi/wristtimer/internal/domain"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00:00"},
		{1, "00:00:01"},
		{59, "00:00:59"},
		{60, "00:01:00"},
		{300, "00:05:00"},
		{3599, "00:59:59"},
		{3600, "01:00:00"},
		{36 * 3600, "36:00:00"},
		{Limit - 1, "99:59:59"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Format(tt.seconds); got != tt.want {
				t.Fatalf("Format(%d): expected %s, got %s", tt.seconds, tt.want, got)
			}
		})
	}
}

func TestSetConfiguredRoundTripsThroughFormat(t *testing.T) {
	// Walk the range with a stride that still touches every field value.
	for s := 0; s < Limit; s += 7 {
		var m Model
		if err := m.SetConfigured(s); err != nil {
			t.Fatalf("SetConfigured(%d): %v", s, err)
		}
		want := fmt.Sprintf("%02d:%02d:%02d", s/3600, s/60%60, s%60)
		if got := m.Format(); got != want {
			t.Fatalf("seconds=%d: expected %s, got %s", s, want, got)
		}
		back, err := Parse(m.Format())
		if err != nil || back != s {
			t.Fatalf("seconds=%d: parse back gave %d, %v", s, back, err)
		}
	}
}

func TestSetConfiguredRejectsOutOfRange(t *testing.T) {
	m := New(300)
	for _, bad := range []int{-1, -3600, Limit, Limit + 1} {
		err := m.SetConfigured(bad)
		if !errors.Is(err, domain.ErrOutOfRange) {
			t.Fatalf("SetConfigured(%d): expected ErrOutOfRange, got %v", bad, err)
		}
		if m.Configured() != 300 || m.Remaining() != 300 {
			t.Fatalf("SetConfigured(%d) changed the model: %+v", bad, m)
		}
	}
}

func TestAdjustConfiguredKeepsValueOnOverflow(t *testing.T) {
	starts := []int{0, 1, 59, 300, 3600, Limit - 1}
	deltas := []int{-Limit, -3601, Limit, 2 * Limit}

	for _, start := range starts {
		for _, delta := range deltas {
			if InRange(start + delta) {
				continue
			}
			m := New(start)
			if err := m.AdjustConfigured(delta); err == nil {
				t.Fatalf("start=%d delta=%d: expected rejection", start, delta)
			}
			if m.Configured() != start {
				t.Fatalf("start=%d delta=%d: configured changed to %d", start, delta, m.Configured())
			}
		}
	}
}

func TestAdjustConfiguredMirrorsRemaining(t *testing.T) {
	m := New(300)
	m.Decrement()

	if err := m.AdjustConfigured(60); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if m.Configured() != 360 || m.Remaining() != 360 {
		t.Fatalf("expected 360/360, got %d/%d", m.Configured(), m.Remaining())
	}

	// Down from 00:00:30 by a minute is rejected.
	m = New(30)
	if err := m.AdjustConfigured(-60); err == nil {
		t.Fatal("expected rejection below zero")
	}
	if m.Configured() != 30 {
		t.Fatalf("expected 30, got %d", m.Configured())
	}
}

func TestNewFallsBackToDefault(t *testing.T) {
	if got := New(-5).Configured(); got != Default {
		t.Fatalf("expected default %d, got %d", Default, got)
	}
	if got := New(Limit).Configured(); got != Default {
		t.Fatalf("expected default %d, got %d", Default, got)
	}
	if got := New(0).Configured(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestDecrementAndReset(t *testing.T) {
	m := New(2)
	if got := m.Decrement(); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := m.Decrement(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}

	m.Reset()
	if m.Remaining() != 2 {
		t.Fatalf("expected reset to 2, got %d", m.Remaining())
	}
}

func TestDecrementPastZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when decrementing past zero")
		}
	}()
	m := New(0)
	m.Decrement()
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"90", 90, false},
		{"5:00", 300, false},
		{"1:02:03", 3723, false},
		{" 00:00:07 ", 7, false},
		{"99:59:59", Limit - 1, false},
		{"", 0, true},
		{"1:60", 0, true},
		{"a:00", 0, true},
		{"1:2:3:4", 0, true},
		{"-5", 0, true},
		{"100:00:00", 0, true},
		{"360000", 0, true},
		{"307445734561825861:00", 0, true},
		{"9223372036854775807", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestParseOverflowIsOutOfRange(t *testing.T) {
	for _, in := range []string{"307445734561825861:00", "100:00:00", "9999999:59"} {
		if _, err := Parse(in); !errors.Is(err, domain.ErrOutOfRange) {
			t.Fatalf("%s: expected ErrOutOfRange, got %v", in, err)
		}
	}
}
