package battle

import "time"

// oneShot is a delayed callback pinned to the session generation it was
// scheduled under. If the session moves on (new Start or Close bumps the
// generation) the callback is dropped unfired. This is the staleness guard
// for the deploy-prompt auto-hide and the pre-results pause.
type oneShot struct {
	fireAt time.Time
	gen    uint64
	fn     func(now time.Time)
}

type delayQueue struct {
	pending []oneShot
}

func (q *delayQueue) schedule(at time.Time, gen uint64, fn func(now time.Time)) {
	q.pending = append(q.pending, oneShot{fireAt: at, gen: gen, fn: fn})
}

// tick fires every due callback still matching the current generation and
// discards stale ones. Callbacks may schedule further one-shots.
func (q *delayQueue) tick(now time.Time, gen uint64) {
	var due []oneShot
	keep := q.pending[:0]
	for _, o := range q.pending {
		switch {
		case o.gen != gen:
			// superseded session, drop silently
		case !o.fireAt.After(now):
			due = append(due, o)
		default:
			keep = append(keep, o)
		}
	}
	q.pending = keep
	for _, o := range due {
		o.fn(now)
	}
}

func (q *delayQueue) reset() { q.pending = nil }
