// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package clock abstracts the current time so that expiry logic can be
exercised in tests without real delays.

Usage:

	clk := clock.System()
	expiresAt := clk.Now().Add(time.Hour)

Tests use [Fixed] and move it forward explicitly with [FixedClock.Advance].
*/
package clock

import (
	"sync"
	"time"
)

// Clock is a source of the current time.
type Clock interface {
	Now() time.Time
}

// # System Clock

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns a [Clock] backed by [time.Now].
func System() Clock {
	return systemClock{}
}

// # Fixed Clock

// FixedClock is a manually driven [Clock]. It is safe for concurrent use.
type FixedClock struct {
	mu  sync.RWMutex
	now time.Time
}

// Fixed returns a [FixedClock] frozen at t.
func Fixed(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

// Now returns the frozen instant.
func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}
