package timer

import "time"

// minuteWatcher reports when the wall-clock minute changes between
// observations. The zero value has seen nothing yet.
type minuteWatcher struct {
	last time.Time
	seen bool
}

// Observe records t and returns true when its minute differs from the
// previous observation. The first observation only primes the watcher.
func (w *minuteWatcher) Observe(t time.Time) bool {
	m := t.Truncate(time.Minute)
	if !w.seen {
		w.last, w.seen = m, true
		return false
	}
	if m.Equal(w.last) {
		return false
	}
	w.last = m
	return true
}
