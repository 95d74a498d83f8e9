// Package sim is a simulated board: every hal driver, backed by memory, for
// running scripts on a workstation and for tests.
package sim

import (
	"sync"
	"time"
)

// Clock is board time backed by the host clock. Yield sleeps briefly so a
// wait loop does not spin a CPU, then runs the yield hooks.
type Clock struct {
	start time.Time
	hooks hookList
}

// NewClock starts a clock at zero.
func NewClock() *Clock {
	return &Clock{start: time.Now()}
}

func (c *Clock) Millis() int64 { return time.Since(c.start).Milliseconds() }
func (c *Clock) Micros() int64 { return time.Since(c.start).Microseconds() }
func (c *Clock) Now() time.Time { return time.Now() }

func (c *Clock) Delay(d time.Duration) {
	time.Sleep(d)
	c.hooks.run()
}

func (c *Clock) Yield() {
	time.Sleep(time.Millisecond)
	c.hooks.run()
}

// OnYield adds a hook run after every Delay and Yield.
func (c *Clock) OnYield(hook func()) {
	c.hooks.add(hook)
}

// ManualClock only moves when Delay, Yield or Advance is called, so tests
// are deterministic. Each Yield advances it by Step.
type ManualClock struct {
	mu      sync.Mutex
	epoch   time.Time
	elapsed time.Duration
	delays  []time.Duration
	hooks   hookList

	// Step is how far one Yield moves the clock (1ms if zero).
	Step time.Duration
}

// NewManualClock creates a clock whose wall time starts at epoch.
func NewManualClock(epoch time.Time) *ManualClock {
	return &ManualClock{epoch: epoch}
}

func (c *ManualClock) Millis() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed.Milliseconds()
}

func (c *ManualClock) Micros() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed.Microseconds()
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch.Add(c.elapsed)
}

// Delay advances the clock by d and records it.
func (c *ManualClock) Delay(d time.Duration) {
	c.mu.Lock()
	c.elapsed += d
	c.delays = append(c.delays, d)
	c.mu.Unlock()
	c.hooks.run()
}

func (c *ManualClock) Yield() {
	c.mu.Lock()
	step := c.Step
	if step <= 0 {
		step = time.Millisecond
	}
	c.elapsed += step
	c.mu.Unlock()
	c.hooks.run()
}

// Advance moves the clock without running hooks.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.elapsed += d
	c.mu.Unlock()
}

// Delays lists every Delay call so far.
func (c *ManualClock) Delays() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.delays...)
}

// OnYield adds a hook run after every Delay and Yield.
func (c *ManualClock) OnYield(hook func()) {
	c.hooks.add(hook)
}

type hookList struct {
	mu    sync.Mutex
	hooks []func()
}

func (h *hookList) add(hook func()) {
	h.mu.Lock()
	h.hooks = append(h.hooks, hook)
	h.mu.Unlock()
}

func (h *hookList) run() {
	h.mu.Lock()
	hooks := append([]func(){}, h.hooks...)
	h.mu.Unlock()
	for _, hook := range hooks {
		hook()
	}
}
