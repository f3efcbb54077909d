// Package timer contains the domain logic of a focus session: the Countdown
// engine that owns remaining time and the tick driver, and the Controller
// state machine that binds it to a display and to the hosting application.
//
// Maintenance notes:
//   - Neither Countdown nor Controller is safe for concurrent use. All calls,
//     including tick callbacks delivered by the Scheduler, must happen on one
//     goroutine. The application uses control.Loop for that.
//   - A Scheduler must guarantee that a tick callback never runs after Stop
//     on its Ticker has returned. Countdown relies on this to keep exactly
//     one tick driver per running session.
package timer

import "time"

// Ticker is a running periodic task obtained from a Scheduler.
type Ticker interface {
	Stop()
}

// Scheduler starts periodic tasks. The callback is invoked on the same
// goroutine that owns the Countdown.
type Scheduler interface {
	Every(period time.Duration, fn func()) Ticker
}

// Countdown tracks remaining time in integer milliseconds and drives it down
// by TickPeriod while running.
type Countdown struct {
	sched Scheduler

	total     int64
	remaining int64
	ticker    Ticker
	ended     bool

	// OnProgress receives the remaining fraction whenever it changes.
	OnProgress func(fraction float64)
	// OnEnd is called once when the remaining time reaches zero.
	OnEnd func()
}

// NewCountdown creates a stopped countdown configured for minutes.
func NewCountdown(sched Scheduler, minutes float64) *Countdown {
	c := &Countdown{sched: sched}
	c.Configure(minutes)
	return c
}

// Configure resets the remaining time to the given duration. Non-positive
// durations clamp to zero. It does not start or stop the tick driver;
// callers pause first.
func (c *Countdown) Configure(minutes float64) {
	c.total = MinutesToMillis(minutes)
	c.remaining = c.total
	c.ended = false
	c.emitProgress()
}

// SetRunning starts or stops the tick driver. Calling it with the current
// value has no effect.
func (c *Countdown) SetRunning(running bool) {
	if running == c.Running() {
		return
	}
	if !running {
		c.stopTicker()
		return
	}
	if c.ended {
		return
	}
	c.ticker = c.sched.Every(TickPeriod, c.tick)
}

// Running reports whether a tick driver is active.
func (c *Countdown) Running() bool {
	return c.ticker != nil
}

// Remaining returns the remaining time in milliseconds.
func (c *Countdown) Remaining() int64 {
	return c.remaining
}

// Total returns the configured duration in milliseconds.
func (c *Countdown) Total() int64 {
	return c.total
}

// Ended reports whether the current configuration has run to zero.
func (c *Countdown) Ended() bool {
	return c.ended
}

// Progress returns the remaining fraction in [0,1].
func (c *Countdown) Progress() float64 {
	if c.ended {
		return 0
	}
	if c.total <= 0 {
		return 1
	}
	return float64(c.remaining) / float64(c.total)
}

func (c *Countdown) tick() {
	if c.ended {
		return
	}
	c.remaining -= tickMillis
	if c.remaining > 0 {
		c.emitProgress()
		return
	}

	c.remaining = 0
	c.ended = true
	c.stopTicker()
	c.emitProgress()
	if c.OnEnd != nil {
		c.OnEnd()
	}
}

func (c *Countdown) stopTicker() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

func (c *Countdown) emitProgress() {
	if c.OnProgress != nil {
		c.OnProgress(c.Progress())
	}
}
