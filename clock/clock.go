// Package clock paces instruction execution against wall time. It owns
// only timing state: a reference instant and the tick count measured
// since that reference.
package clock

import "time"

// Mode selects how Wait behaves.
type Mode int

const (
	// RealTime throttles Wait to the configured speed.
	RealTime Mode = iota
	// Unthrottled makes Wait return immediately.
	Unthrottled
)

// Default6502Hz is the nominal frequency used when none is specified.
const Default6502Hz = 1000000

// maxTicks bounds the running tick counter. It's reset well before a
// uint32 could overflow so long runs never wrap the counter.
const maxTicks = ^uint32(0) - uint32(^uint16(0)) - 1

// Clock paces calls to Wait so that, in RealTime mode, the cumulative
// elapsed wall time tracks ticks_since_reference * interval.
type Clock struct {
	mode     Mode
	interval time.Duration
	ref      time.Time
	ticks    uint32
}

// New creates a Clock of the given mode at the given nominal speed (Hz).
// speed is ignored in Unthrottled mode.
func New(mode Mode, speedHz int) *Clock {
	if speedHz <= 0 {
		speedHz = Default6502Hz
	}
	return &Clock{
		mode:     mode,
		interval: time.Second / time.Duration(speedHz),
		ref:      time.Now(),
	}
}

// Wait blocks (in RealTime mode) until the elapsed wall time since the
// reference instant catches up with ticks*interval. If the caller is
// chronically late the reference is re-anchored to now and the counter
// reset, rather than attempting to catch up.
func (c *Clock) Wait(ticks uint16) {
	c.ticks += uint32(ticks)
	if c.mode == Unthrottled {
		if c.ticks > maxTicks {
			c.reset()
		}
		return
	}

	next := c.ref.Add(c.interval * time.Duration(c.ticks))
	now := time.Now()
	if now.After(next) {
		// We're late. Don't try to catch up, just re-anchor.
		c.reset()
		return
	}
	time.Sleep(next.Sub(now))

	if c.ticks > maxTicks {
		c.reset()
	}
}

func (c *Clock) reset() {
	c.ref = time.Now()
	c.ticks = 0
}
