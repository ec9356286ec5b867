package sim

import "time"

// FrameDuration is the nominal tick length at 60 ticks per second.
const FrameDuration = time.Second / 60

// Clock accumulates simulation time. Every cooldown in the engine is compared
// against Now, never against the wall clock.
type Clock struct {
	now   time.Duration
	ticks uint64
}

// Advance moves the clock forward by dt and returns the new time. Non-positive
// steps count as one nominal frame.
func (c *Clock) Advance(dt time.Duration) time.Duration {
	if dt <= 0 {
		dt = FrameDuration
	}
	c.now += dt
	c.ticks++
	return c.now
}

// Now returns the accumulated simulation time.
func (c *Clock) Now() time.Duration {
	return c.now
}

// Ticks returns how many steps have been taken.
func (c *Clock) Ticks() uint64 {
	return c.ticks
}
