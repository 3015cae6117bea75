package battle

// SessionClock tracks the displayed phase timer. The tier is a pure
// function of the value, so re-applying the same seconds is a no-op for
// the caller and nothing accumulates between calls.
type SessionClock struct {
	seconds int
	set     bool
}

// TierFor derives the severity bucket for a remaining-seconds value.
func TierFor(seconds int) Tier {
	switch {
	case seconds <= 10:
		return TierCritical
	case seconds <= 30:
		return TierWarning
	default:
		return TierNormal
	}
}

// Set updates the displayed time, clamping negatives to zero, and reports
// whether the visible value actually changed.
func (c *SessionClock) Set(seconds int) bool {
	if seconds < 0 {
		seconds = 0
	}
	if c.set && c.seconds == seconds {
		return false
	}
	c.seconds = seconds
	c.set = true
	return true
}

func (c *SessionClock) Seconds() int { return c.seconds }

func (c *SessionClock) Tier() Tier { return TierFor(c.seconds) }

func (c *SessionClock) reset() { *c = SessionClock{} }
