// Package timer provides the one-second session countdown.
package timer

// Countdown counts whole seconds down to zero. It has no clock of its own;
// the caller delivers one Tick per elapsed second.
type Countdown struct {
	remaining int
	running   bool
}

// Start resets the countdown to seconds and begins accepting ticks.
func (c *Countdown) Start(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	c.remaining = seconds
	c.running = true
}

// Tick decrements the countdown and reports expiry. It returns true exactly
// once per Start, on the tick that reaches zero.
func (c *Countdown) Tick() bool {
	if !c.running {
		return false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining == 0 {
		c.running = false
		return true
	}
	return false
}

// Cancel stops the countdown without expiring it.
func (c *Countdown) Cancel() {
	c.running = false
}

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Running reports whether ticks are being accepted.
func (c *Countdown) Running() bool {
	return c.running
}
