// Package clock paces the fixed-rate simulation loop and keeps a smoothed
// milliseconds-per-tick measurement.
package clock

import "time"

// Clock regulates the server tick rate. Call Start at the top of a tick
// and FinishTick when the tick's work is done; FinishTick sleeps off any
// time left in the tick budget.
type Clock struct {
	microsEMA  float64
	tickMillis int64
	fullTick   time.Duration
	started    time.Time
}

// New creates a Clock with the given tick length in milliseconds.
func New(tickMillis int64) *Clock {
	return &Clock{
		tickMillis: tickMillis,
		fullTick:   time.Duration(tickMillis) * time.Millisecond,
	}
}

// Start marks the beginning of a tick.
func (c *Clock) Start() {
	c.started = time.Now()
}

// FinishTick folds the elapsed tick time into the EMA and sleeps for the
// remainder of the tick budget, if any.
func (c *Clock) FinishTick() {
	elapsed := time.Since(c.started)
	c.microsEMA = (99*c.microsEMA + float64(elapsed.Microseconds())) / 100

	if elapsed < c.fullTick {
		time.Sleep(c.fullTick - elapsed)
	}
}

// MSPT returns the smoothed milliseconds-per-tick measurement.
func (c *Clock) MSPT() float64 {
	return c.microsEMA / 1000
}

// TPS returns the effective ticks per second for the current MSPT: the
// configured rate while the server keeps up, the degraded rate otherwise.
func (c *Clock) TPS() float64 {
	mspt := c.MSPT()
	if mspt < float64(c.tickMillis) {
		return c.MaxTPS()
	}
	return 1000 / mspt
}

// MaxTPS returns the configured upper bound on ticks per second.
func (c *Clock) MaxTPS() float64 {
	return 1000 / float64(c.tickMillis)
}
