// Package testfixtures provides deterministic helpers shared by tests.
package testfixtures

import (
	"sync"
	"time"
)

// ReferenceTime returns the instant test clocks start from when none is
// given: noon UTC on a Monday, so weekday arithmetic in tests starts at the
// top of the week.
func ReferenceTime() time.Time {
	return time.Date(2024, time.January, 8, 12, 0, 0, 0, time.UTC)
}

// ReferenceWeek returns an instant within the reference week: days after the
// reference Monday, at the given wall clock UTC.
func ReferenceWeek(daysAfterMonday, hour, minute int) time.Time {
	base := ReferenceTime()
	return time.Date(base.Year(), base.Month(), base.Day()+daysAfterMonday,
		hour, minute, 0, 0, time.UTC)
}

// Clock is a manually driven time source for tests. It is safe for
// concurrent use.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock returns a clock set to start, or to ReferenceTime when start is
// the zero value.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

// Now reports the clock's current instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowFunc adapts the clock to the now-function form services are built with.
// A nil clock yields the real time.Now.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d and returns the new instant.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	c.current = c.current.Add(d)
	updated := c.current
	c.mu.Unlock()
	return updated
}
