package domain

import "time"

// VibePattern is a sequence of alternating on/off segments, starting with
// "on". An odd length ends on an "on" segment.
type VibePattern []time.Duration

// AlarmFinished is played once when a countdown reaches zero.
var AlarmFinished = VibePattern{
	300 * time.Millisecond, // on
	150 * time.Millisecond,
	150 * time.Millisecond, // on
	150 * time.Millisecond,
	300 * time.Millisecond, // on
	150 * time.Millisecond,
	300 * time.Millisecond, // on
}

// Total returns the full length of the pattern.
func (p VibePattern) Total() time.Duration {
	var total time.Duration
	for _, d := range p {
		total += d
	}
	return total
}

// On reports whether segment i is an "on" segment.
func (p VibePattern) On(i int) bool {
	return i%2 == 0
}
