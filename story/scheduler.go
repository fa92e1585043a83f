package story

// Scheduler defers walker notifications. Notification after successful
// transition never happens within the call that requested it, so listener
// could request next transition right away without unbounded recursion.
type Scheduler interface {
	// After arranges for fn to be called once ticks have passed.
	After(ticks int, fn func())
}

type scheduled struct {
	at uint64
	fn func()
}

// TickScheduler is driven by host loop calling Tick. It is not safe for
// concurrent use, host drives it from single goroutine.
type TickScheduler struct {
	now   uint64
	queue []scheduled
}

func NewTickScheduler() *TickScheduler {
	return &TickScheduler{}
}

// After queues fn, it runs on ticks-th Tick from now. Delays shorter than one
// tick are rounded up.
func (s *TickScheduler) After(ticks int, fn func()) {
	ticks = max(ticks, 1)
	s.queue = append(s.queue, scheduled{at: s.now + uint64(ticks), fn: fn})
}

// Tick advances time and runs callbacks which became due in the order they
// were scheduled. Callbacks scheduled while running are never run on the
// same tick. Returns number of callbacks run.
func (s *TickScheduler) Tick() int {
	s.now++

	var due, rest []scheduled
	for _, item := range s.queue {
		if item.at <= s.now {
			due = append(due, item)
		} else {
			rest = append(rest, item)
		}
	}
	s.queue = rest

	for _, item := range due {
		item.fn()
	}
	return len(due)
}

// Pending returns number of queued callbacks.
func (s *TickScheduler) Pending() int {
	return len(s.queue)
}

// Drain ticks until nothing is queued or limit ticks passed, whichever comes
// first. Returns number of ticks spent.
func (s *TickScheduler) Drain(limit int) int {
	ticks := 0
	for len(s.queue) > 0 && ticks < limit {
		s.Tick()
		ticks++
	}
	return ticks
}

// Reset drops everything queued.
func (s *TickScheduler) Reset() {
	s.queue = nil
}

// Immediate runs callbacks synchronously ignoring delay.
type Immediate struct{}

func (Immediate) After(_ int, fn func()) {
	fn()
}
