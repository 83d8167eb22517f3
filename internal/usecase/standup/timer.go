package standup

import "time"

// TurnTimer tracks a member's hard speaking limit.
//
// The timer is armed when listening begins and restarts its count at the first
// non-empty fragment, so latency before the member speaks is not charged. A member
// who never speaks is measured from arming, which bounds an empty turn to the limit.
type TurnTimer struct {
	limit     time.Duration
	armedAt   time.Time
	startedAt time.Time
	armed     bool
	started   bool
	fired     bool
}

// Arm prepares the timer for a new listening phase
func (t *TurnTimer) Arm(now time.Time, limit time.Duration) {
	*t = TurnTimer{limit: limit, armedAt: now, armed: true}
}

// Start begins counting. Later calls are ignored.
func (t *TurnTimer) Start(now time.Time) {
	if !t.armed || t.started {
		return
	}
	t.started = true
	t.startedAt = now
}

// Tick reports true exactly once, on the first tick at or past the limit
func (t *TurnTimer) Tick(now time.Time) bool {
	if !t.armed || t.fired {
		return false
	}
	if t.Elapsed(now) >= t.limit {
		t.fired = true
		return true
	}
	return false
}

// Elapsed is the charged speaking time so far
func (t *TurnTimer) Elapsed(now time.Time) time.Duration {
	if !t.armed {
		return 0
	}
	from := t.armedAt
	if t.started {
		from = t.startedAt
	}
	if now.Before(from) {
		return 0
	}
	return now.Sub(from)
}

// Remaining is the time left before the limit, never negative
func (t *TurnTimer) Remaining(now time.Time) time.Duration {
	if !t.armed {
		return 0
	}
	left := t.limit - t.Elapsed(now)
	if left < 0 {
		return 0
	}
	return left
}

// Started reports whether the member has begun speaking
func (t *TurnTimer) Started() bool { return t.started }

// Fired reports whether the limit was reached
func (t *TurnTimer) Fired() bool { return t.fired }

// Reset stops the timer and clears all flags
func (t *TurnTimer) Reset() {
	*t = TurnTimer{}
}
