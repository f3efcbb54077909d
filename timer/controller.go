package timer

import (
	"fmt"
	"log"
	"math"
)

// Host is the hosting application notified about session outcomes.
type Host interface {
	// OnTimerEnd is called after a session ran to zero and the controller
	// has returned to idle.
	OnTimerEnd()
	// ClearSubject is called when the user cancels the session.
	ClearSubject()
	// NotifyAlertFailure surfaces a failed completion alert to the user.
	// It must not block.
	NotifyAlertFailure(err error)
}

// Display is the minimal interface the controller expects from the UI side.
type Display interface {
	SetProgress(fraction float64)
	SetTime(minutes, seconds int)
	SetRunning(running bool)
	// SetKeepAwake keeps the screen on while a session is running.
	SetKeepAwake(on bool)
}

// Alerter performs the device feedback at the end of a session.
type Alerter interface {
	Alert() error
}

// Session describes the most recently finished or cancelled session.
type Session struct {
	Minutes   float64
	ElapsedMs int64
	Started   bool
	Completed bool
}

// Controller owns the session state and binds a Countdown to a Display.
type Controller struct {
	countdown *Countdown
	host      Host
	display   Display
	alerter   Alerter

	defaultMinutes float64
	minutes        float64
	state          SessionState
	progress       float64
	started        bool
	mounted        bool
	awake          bool
	last           Session
}

// NewController creates an idle controller. defaultMinutes is used at start
// and after every session; a non-positive value falls back to DefaultMinutes.
func NewController(sched Scheduler, host Host, display Display, alerter Alerter, defaultMinutes float64) *Controller {
	if defaultMinutes <= 0 || math.IsNaN(defaultMinutes) {
		defaultMinutes = DefaultMinutes
	}
	c := &Controller{
		host:           host,
		display:        display,
		alerter:        alerter,
		defaultMinutes: defaultMinutes,
		minutes:        defaultMinutes,
		state:          StateIdle,
		progress:       1,
	}
	c.countdown = &Countdown{sched: sched, OnProgress: c.onProgress, OnEnd: c.onCountdownEnd}
	return c
}

// Start mounts the controller: the countdown is configured with the default
// duration and the display receives its initial values.
func (c *Controller) Start() {
	if c.mounted {
		return
	}
	c.mounted = true
	c.reset(c.defaultMinutes)
}

// Stop unmounts the controller and releases the tick driver. The session is
// discarded without notifying the host.
func (c *Controller) Stop() {
	if !c.mounted {
		return
	}
	c.mounted = false
	c.countdown.SetRunning(false)
	c.keepAwake(false)
	if c.state == StateRunning {
		c.state = StatePaused
	}
}

// SelectDuration replaces the duration of an idle or paused session. It is
// ignored while running.
func (c *Controller) SelectDuration(minutes float64) {
	if c.state == StateRunning {
		log.Printf("Ignoring duration %.2f min: session is running", minutes)
		return
	}
	c.reset(minutes)
}

// ToggleRun flips between running and paused. It is ignored while the
// controller is not mounted.
func (c *Controller) ToggleRun() {
	if !c.mounted {
		log.Printf("Ignoring toggle: timer is not mounted")
		return
	}
	running := c.state != StateRunning
	if running {
		c.state = StateRunning
		c.started = true
	} else {
		c.state = StatePaused
	}
	c.countdown.SetRunning(running)
	c.keepAwake(running)
	if c.display != nil {
		c.display.SetRunning(running)
	}
}

// Cancel stops the countdown, tells the host the subject is cleared and
// returns to idle with the default duration.
func (c *Controller) Cancel() {
	c.countdown.SetRunning(false)
	c.keepAwake(false)
	c.last = Session{
		Minutes:   c.minutes,
		ElapsedMs: c.countdown.Total() - c.countdown.Remaining(),
		Started:   c.started,
	}
	wasRunning := c.state == StateRunning
	c.reset(c.defaultMinutes)
	if wasRunning && c.display != nil {
		c.display.SetRunning(false)
	}
	c.host.ClearSubject()
}

// State returns the current session state.
func (c *Controller) State() SessionState {
	return c.state
}

// Minutes returns the selected duration.
func (c *Controller) Minutes() float64 {
	return c.minutes
}

// DefaultMinutes returns the duration used after a session ends.
func (c *Controller) DefaultMinutes() float64 {
	return c.defaultMinutes
}

// Progress returns the last progress fraction forwarded to the display.
func (c *Controller) Progress() float64 {
	return c.progress
}

// Remaining returns the remaining time in milliseconds.
func (c *Controller) Remaining() int64 {
	return c.countdown.Remaining()
}

// LastSession describes the session that most recently ended or was
// cancelled.
func (c *Controller) LastSession() Session {
	return c.last
}

func (c *Controller) reset(minutes float64) {
	c.minutes = ClampMinutes(minutes)
	c.state = StateIdle
	c.started = false
	c.countdown.Configure(minutes)
	c.progress = 1
}

func (c *Controller) onProgress(fraction float64) {
	c.progress = fraction
	if c.display == nil {
		return
	}
	c.display.SetProgress(fraction)
	c.display.SetTime(SplitClock(c.countdown.Remaining()))
}

func (c *Controller) onCountdownEnd() {
	log.Printf("Timer ended after %.2f min", c.minutes)
	c.state = StateCompleted
	c.keepAwake(false)
	c.last = Session{
		Minutes:   c.minutes,
		ElapsedMs: c.countdown.Total(),
		Started:   true,
		Completed: true,
	}

	if err := c.alert(); err != nil {
		log.Printf("Alert error: %v", err)
		c.host.NotifyAlertFailure(err)
	}

	c.reset(c.defaultMinutes)
	if c.display != nil {
		c.display.SetRunning(false)
	}
	c.host.OnTimerEnd()
}

func (c *Controller) keepAwake(on bool) {
	if c.awake == on {
		return
	}
	c.awake = on
	if c.display != nil {
		c.display.SetKeepAwake(on)
	}
}

// alert runs the Alerter. A panic is reported as an error.
func (c *Controller) alert() (err error) {
	if c.alerter == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("alert panicked: %v", r)
		}
	}()
	return c.alerter.Alert()
}
