package standup

import "time"

// DefaultSilenceWindow is the quiet period that ends a spoken answer
const DefaultSilenceWindow = 4000 * time.Millisecond

// SilenceMonitor signals a likely finished answer after sustained quiet.
// It never fires for typed input.
type SilenceMonitor struct {
	window         time.Duration
	lastFragmentAt time.Time
	armed          bool
	manual         bool
}

// NewSilenceMonitor creates a monitor with the given quiet window
func NewSilenceMonitor(window time.Duration) SilenceMonitor {
	if window <= 0 {
		window = DefaultSilenceWindow
	}
	return SilenceMonitor{window: window}
}

// Arm starts watching a new listening phase
func (s *SilenceMonitor) Arm(now time.Time, manual bool) {
	s.armed = true
	s.manual = manual
	s.lastFragmentAt = now
}

// Observe records a fragment arrival
func (s *SilenceMonitor) Observe(now time.Time) {
	s.lastFragmentAt = now
}

// Tick reports whether the quiet threshold was crossed with something in the buffer
func (s *SilenceMonitor) Tick(now time.Time, bufferNonEmpty bool) bool {
	if !s.armed || s.manual || !bufferNonEmpty {
		return false
	}
	return now.Sub(s.lastFragmentAt) > s.window
}

// Reset disarms the monitor
func (s *SilenceMonitor) Reset() {
	s.armed = false
	s.manual = false
	s.lastFragmentAt = time.Time{}
}
