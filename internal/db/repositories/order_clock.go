package repositories

import (
	"sync"
	"time"
)

// orderClock hands out created_at stamps that strictly increase across every
// batch written through it, so listings sorted by created_at follow insertion
// order even when a batch is stamped before the previous one's tail.
type orderClock struct {
	mu   sync.Mutex
	step time.Duration
	last time.Time
	now  func() time.Time
}

func newOrderClock(step time.Duration) *orderClock {
	return &orderClock{step: step, now: time.Now}
}

// reserve returns n stamps, one step apart, all after any stamp issued before.
func (c *orderClock) reserve(n int) []time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := c.now().UTC().Truncate(c.step)
	if !c.last.IsZero() && !start.After(c.last) {
		start = c.last.Add(c.step)
	}

	stamps := make([]time.Time, n)
	for i := range stamps {
		stamps[i] = start.Add(time.Duration(i) * c.step)
	}
	if n > 0 {
		c.last = stamps[n-1]
	}
	return stamps
}
