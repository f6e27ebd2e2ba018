package services

import "time"

// Clock tells the time. Bound as a singleton.
type Clock interface {
	Now() time.Time
	BootedAt() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct {
	booted time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{booted: time.Now()}
}

func (c *SystemClock) Now() time.Time      { return time.Now() }
func (c *SystemClock) BootedAt() time.Time { return c.booted }
