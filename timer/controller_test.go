package timer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) count(event string) int {
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func (r *recorder) index(event string) int {
	for i, e := range r.events {
		if e == event {
			return i
		}
	}
	return -1
}

type fakeDisplay struct {
	*recorder
	time     string
	progress float64
	running  bool
	awake    bool
}

func (d *fakeDisplay) SetProgress(f float64) {
	d.progress = f
	d.add("progress:%.2f", f)
}

func (d *fakeDisplay) SetTime(m, s int) {
	d.time = FormatClock(m, s)
	d.add("time:%s", d.time)
}

func (d *fakeDisplay) SetRunning(running bool) {
	d.running = running
	d.add("running:%t", running)
}

func (d *fakeDisplay) SetKeepAwake(on bool) {
	d.awake = on
	d.add("awake:%t", on)
}

type fakeHost struct {
	*recorder
	alertErr error
}

func (h *fakeHost) OnTimerEnd()   { h.add("end") }
func (h *fakeHost) ClearSubject() { h.add("clear") }
func (h *fakeHost) NotifyAlertFailure(err error) {
	h.alertErr = err
	h.add("alert-failed")
}

type fakeAlerter struct {
	*recorder
	err   error
	panic bool
}

func (a *fakeAlerter) Alert() error {
	a.add("alert")
	if a.panic {
		panic("no speaker")
	}
	return a.err
}

type harness struct {
	sched   *fakeScheduler
	rec     *recorder
	display *fakeDisplay
	host    *fakeHost
	alerter *fakeAlerter
	ctrl    *Controller
}

func newHarness(t *testing.T, defaultMinutes float64) *harness {
	t.Helper()
	rec := &recorder{}
	h := &harness{
		sched:   &fakeScheduler{},
		rec:     rec,
		display: &fakeDisplay{recorder: rec},
		host:    &fakeHost{recorder: rec},
		alerter: &fakeAlerter{recorder: rec},
	}
	h.ctrl = NewController(h.sched, h.host, h.display, h.alerter, defaultMinutes)
	h.ctrl.Start()
	return h
}

func TestControllerStartShowsDefault(t *testing.T) {
	h := newHarness(t, 0.1)

	assert.Equal(t, StateIdle, h.ctrl.State())
	assert.Equal(t, "00:06", h.display.time)
	assert.Equal(t, 1.0, h.display.progress)
	assert.Empty(t, h.sched.tickers)
}

func TestControllerInvalidDefaultFallsBack(t *testing.T) {
	h := newHarness(t, -4)
	assert.Equal(t, DefaultMinutes, h.ctrl.DefaultMinutes())
}

func TestControllerSelectDurationWhileIdle(t *testing.T) {
	h := newHarness(t, 0.1)

	h.ctrl.SelectDuration(15)

	assert.Equal(t, "15:00", h.display.time)
	assert.Equal(t, 1.0, h.display.progress)
	assert.Equal(t, 1.0, h.ctrl.Progress())
	assert.Equal(t, 15.0, h.ctrl.Minutes())
	assert.Equal(t, StateIdle, h.ctrl.State())
}

func TestControllerSelectDurationIgnoredWhileRunning(t *testing.T) {
	h := newHarness(t, 0.1)
	h.ctrl.SelectDuration(10)
	h.ctrl.ToggleRun()
	h.sched.tick(2)

	h.ctrl.SelectDuration(20)

	assert.Equal(t, 10.0, h.ctrl.Minutes())
	assert.Equal(t, int64(598000), h.ctrl.Remaining())
	assert.Equal(t, StateRunning, h.ctrl.State())
}

func TestControllerSelectDurationWhilePaused(t *testing.T) {
	h := newHarness(t, 0.1)
	h.ctrl.SelectDuration(10)
	h.ctrl.ToggleRun()
	h.sched.tick(2)
	h.ctrl.ToggleRun()
	require.Equal(t, StatePaused, h.ctrl.State())

	h.ctrl.SelectDuration(20)

	assert.Equal(t, StateIdle, h.ctrl.State())
	assert.Equal(t, "20:00", h.display.time)
	assert.Equal(t, 1.0, h.ctrl.Progress())
	assert.Empty(t, h.sched.active())
}

func TestControllerToggleRun(t *testing.T) {
	h := newHarness(t, 0.1)
	h.ctrl.SelectDuration(10)

	h.ctrl.ToggleRun()
	assert.Equal(t, StateRunning, h.ctrl.State())
	assert.True(t, h.display.running)
	assert.Len(t, h.sched.active(), 1)

	h.sched.tick(3)
	h.ctrl.ToggleRun()
	assert.Equal(t, StatePaused, h.ctrl.State())
	assert.False(t, h.display.running)
	assert.Empty(t, h.sched.active())
	assert.Equal(t, "09:57", h.display.time)

	h.sched.tick(5)
	h.ctrl.ToggleRun()
	h.sched.tick(1)
	assert.Equal(t, int64(596000), h.ctrl.Remaining())
}

func TestControllerCompletesShortSession(t *testing.T) {
	h := newHarness(t, 0.1)
	h.ctrl.ToggleRun()
	h.sched.tick(5)
	require.Zero(t, h.rec.count("end"))

	h.sched.tick(1)

	assert.Equal(t, 1, h.rec.count("end"))
	assert.Equal(t, 1, h.rec.count("alert"))
	assert.Equal(t, StateIdle, h.ctrl.State())
	assert.Equal(t, 0.1, h.ctrl.Minutes())
	assert.Equal(t, 1.0, h.ctrl.Progress())
	assert.Equal(t, "00:06", h.display.time)
	assert.False(t, h.display.running)
	assert.Empty(t, h.sched.active())

	zero := h.rec.index("progress:0.00")
	end := h.rec.index("end")
	require.NotEqual(t, -1, zero)
	assert.Less(t, zero, h.rec.index("alert"))
	assert.Less(t, zero, end)

	last := h.ctrl.LastSession()
	assert.True(t, last.Completed)
	assert.Equal(t, int64(6000), last.ElapsedMs)

	// More ticks after the end do nothing.
	h.sched.tick(10)
	assert.Equal(t, 1, h.rec.count("end"))
}

func TestControllerEndResetsToDefault(t *testing.T) {
	h := newHarness(t, 0.1)
	h.ctrl.SelectDuration(0.05)
	h.ctrl.ToggleRun()
	h.sched.tick(3)

	assert.Equal(t, 1, h.rec.count("end"))
	assert.Equal(t, 0.1, h.ctrl.Minutes())
	assert.Equal(t, int64(6000), h.ctrl.Remaining())
	assert.Equal(t, 0.05, h.ctrl.LastSession().Minutes)
}

func TestControllerCancelMidRun(t *testing.T) {
	h := newHarness(t, 0.1)
	h.ctrl.SelectDuration(10)
	h.ctrl.ToggleRun()
	h.sched.tick(4)

	h.ctrl.Cancel()
	mark := len(h.rec.events)
	h.sched.tick(10)

	assert.Equal(t, 1, h.rec.count("clear"))
	assert.Equal(t, StateIdle, h.ctrl.State())
	assert.Equal(t, 0.1, h.ctrl.Minutes())
	assert.Empty(t, h.sched.active())
	assert.Len(t, h.rec.events, mark, "no events after cancel: %v", h.rec.events[mark:])
	assert.False(t, h.display.running)

	last := h.ctrl.LastSession()
	assert.True(t, last.Started)
	assert.False(t, last.Completed)
	assert.Equal(t, int64(4000), last.ElapsedMs)
}

func TestControllerCancelWhileIdle(t *testing.T) {
	h := newHarness(t, 0.1)
	h.ctrl.Cancel()

	assert.Equal(t, 1, h.rec.count("clear"))
	assert.False(t, h.ctrl.LastSession().Started)
	assert.Zero(t, h.rec.count("running:false"))
}

func TestControllerAlertFailureDoesNotBlockEnd(t *testing.T) {
	h := newHarness(t, 0.1)
	h.alerter.err = errors.New("vibration unavailable")
	h.ctrl.ToggleRun()
	h.sched.tick(6)

	assert.Equal(t, 1, h.rec.count("alert-failed"))
	assert.EqualError(t, h.host.alertErr, "vibration unavailable")
	assert.Equal(t, 1, h.rec.count("end"))
	assert.Equal(t, StateIdle, h.ctrl.State())
}

func TestControllerAlertPanicIsRecovered(t *testing.T) {
	h := newHarness(t, 0.1)
	h.alerter.panic = true
	h.ctrl.ToggleRun()

	require.NotPanics(t, func() { h.sched.tick(6) })
	assert.Equal(t, 1, h.rec.count("alert-failed"))
	assert.Equal(t, 1, h.rec.count("end"))
	assert.Equal(t, StateIdle, h.ctrl.State())
}

func TestControllerStopReleasesDriver(t *testing.T) {
	h := newHarness(t, 0.1)
	h.ctrl.SelectDuration(10)
	h.ctrl.ToggleRun()
	h.sched.tick(1)

	h.ctrl.Stop()
	h.ctrl.Stop()

	assert.Empty(t, h.sched.active())
	assert.Equal(t, StatePaused, h.ctrl.State())
	assert.Zero(t, h.rec.count("clear"))
	assert.Zero(t, h.rec.count("end"))

	h.ctrl.ToggleRun()
	assert.Empty(t, h.sched.active())

	h.ctrl.Start()
	assert.Equal(t, StateIdle, h.ctrl.State())
	assert.Equal(t, 0.1, h.ctrl.Minutes())
}

func TestControllerSelectNegativeDurationClamps(t *testing.T) {
	h := newHarness(t, 0.1)

	h.ctrl.SelectDuration(-5)

	assert.Equal(t, 0.0, h.ctrl.Minutes())
	assert.Zero(t, h.ctrl.Remaining())
	assert.Equal(t, "00:00", h.display.time)
	assert.Equal(t, 1.0, h.ctrl.Progress())
}

func TestControllerKeepAwake(t *testing.T) {
	t.Run("pause", func(t *testing.T) {
		h := newHarness(t, 0.1)
		h.ctrl.SelectDuration(10)
		assert.Zero(t, h.rec.count("awake:true"))

		h.ctrl.ToggleRun()
		assert.True(t, h.display.awake)
		h.ctrl.ToggleRun()
		assert.False(t, h.display.awake)
		assert.Equal(t, 1, h.rec.count("awake:true"))
		assert.Equal(t, 1, h.rec.count("awake:false"))
	})

	t.Run("cancel", func(t *testing.T) {
		h := newHarness(t, 0.1)
		h.ctrl.ToggleRun()
		h.ctrl.Cancel()
		assert.False(t, h.display.awake)
		assert.Equal(t, 1, h.rec.count("awake:false"))
		assert.Less(t, h.rec.index("awake:false"), h.rec.index("clear"))
	})

	t.Run("end", func(t *testing.T) {
		h := newHarness(t, 0.1)
		h.ctrl.ToggleRun()
		h.sched.tick(6)
		assert.False(t, h.display.awake)
		assert.Equal(t, 1, h.rec.count("awake:false"))
		assert.Less(t, h.rec.index("awake:false"), h.rec.index("end"))
	})

	t.Run("unmount", func(t *testing.T) {
		h := newHarness(t, 0.1)
		h.ctrl.ToggleRun()
		h.ctrl.Stop()
		assert.False(t, h.display.awake)
		assert.Equal(t, 1, h.rec.count("awake:false"))
	})

	t.Run("idle cancel leaves the screen alone", func(t *testing.T) {
		h := newHarness(t, 0.1)
		h.ctrl.Cancel()
		h.ctrl.Stop()
		assert.Zero(t, h.rec.count("awake:false"))
	})
}

func TestSessionStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "paused", StatePaused.String())
	assert.Equal(t, "completed", StateCompleted.String())
}
