package preview

import (
	"sync"
	"time"
)

// Coalescer collapses bursts of triggers per key into one callback.
//
// The first Trigger for an idle key schedules the callback; later triggers
// only move the deadline. The callback runs once, no earlier than delay
// after the last trigger.
type Coalescer[K comparable] struct {
	delay time.Duration
	fire  func(K)
	now   func() time.Time

	mu      sync.Mutex
	pending map[K]*slot
	stopped bool
}

type slot struct {
	deadline time.Time
	timer    *time.Timer
}

// NewCoalescer creates a Coalescer calling fire after delay of quiet.
func NewCoalescer[K comparable](delay time.Duration, fire func(K)) *Coalescer[K] {
	return &Coalescer[K]{
		delay:   delay,
		fire:    fire,
		now:     time.Now,
		pending: make(map[K]*slot),
	}
}

// Trigger schedules or postpones the callback for key.
func (c *Coalescer[K]) Trigger(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	deadline := c.now().Add(c.delay)
	if s, ok := c.pending[key]; ok {
		s.deadline = deadline
		return
	}

	s := &slot{deadline: deadline}
	c.pending[key] = s
	s.timer = time.AfterFunc(c.delay, func() { c.expire(key, s) })
}

func (c *Coalescer[K]) expire(key K, s *slot) {
	c.mu.Lock()
	if c.pending[key] != s {
		c.mu.Unlock()
		return
	}
	if wait := s.deadline.Sub(c.now()); wait > 0 {
		s.timer = time.AfterFunc(wait, func() { c.expire(key, s) })
		c.mu.Unlock()
		return
	}
	delete(c.pending, key)
	c.mu.Unlock()

	c.fire(key)
}

// Pending reports whether a callback is scheduled for key.
func (c *Coalescer[K]) Pending(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[key]
	return ok
}

// Stop cancels every scheduled callback. Later triggers are ignored.
func (c *Coalescer[K]) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	for key, s := range c.pending {
		s.timer.Stop()
		delete(c.pending, key)
	}
}
