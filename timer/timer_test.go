package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTicker struct {
	fn      func()
	stopped bool
}

func (t *fakeTicker) Stop() { t.stopped = true }

// fakeScheduler fires ticks only when told to.
type fakeScheduler struct {
	tickers []*fakeTicker
	periods []time.Duration
}

func (s *fakeScheduler) Every(period time.Duration, fn func()) Ticker {
	t := &fakeTicker{fn: fn}
	s.tickers = append(s.tickers, t)
	s.periods = append(s.periods, period)
	return t
}

func (s *fakeScheduler) active() []*fakeTicker {
	var out []*fakeTicker
	for _, t := range s.tickers {
		if !t.stopped {
			out = append(out, t)
		}
	}
	return out
}

func (s *fakeScheduler) tick(n int) {
	for i := 0; i < n; i++ {
		for _, t := range s.active() {
			t.fn()
		}
	}
}

func TestCountdownConfigureReportsFullProgress(t *testing.T) {
	for _, minutes := range []float64{0.1, 1, 2.5, 10, 15, 20} {
		var got []float64
		c := NewCountdown(&fakeScheduler{}, 1)
		c.OnProgress = func(f float64) { got = append(got, f) }

		c.Configure(minutes)

		require.Equal(t, []float64{1}, got, "minutes=%v", minutes)
		assert.Equal(t, 1.0, c.Progress())
		assert.Equal(t, MinutesToMillis(minutes), c.Remaining())
		assert.Equal(t, int64(minutes*60000), c.Total())
	}
}

func TestCountdownNonPositiveDurationClampsToZero(t *testing.T) {
	for _, minutes := range []float64{0, -1, -0.5} {
		c := NewCountdown(&fakeScheduler{}, minutes)
		assert.Zero(t, c.Remaining())
		assert.Zero(t, c.Total())
		assert.Equal(t, 1.0, c.Progress())
	}
}

func TestCountdownTicksAreExact(t *testing.T) {
	sched := &fakeScheduler{}
	c := NewCountdown(sched, 2)
	c.SetRunning(true)
	require.Equal(t, []time.Duration{TickPeriod}, sched.periods)

	for k := 1; k <= 120; k++ {
		sched.tick(1)
		assert.Equal(t, int64(120000-k*1000), c.Remaining(), "after %d ticks", k)
	}
	assert.True(t, c.Ended())
}

func TestCountdownNeverGoesNegative(t *testing.T) {
	sched := &fakeScheduler{}
	c := NewCountdown(sched, 0.0125) // 750ms

	var progress []float64
	c.OnProgress = func(f float64) { progress = append(progress, f) }
	c.SetRunning(true)
	sched.tick(3)

	assert.Zero(t, c.Remaining())
	assert.Equal(t, []float64{0}, progress)
	assert.False(t, c.Running())
	for _, f := range progress {
		assert.GreaterOrEqual(t, f, 0.0)
		assert.LessOrEqual(t, f, 1.0)
	}
}

func TestCountdownPauseResumePreservesRemaining(t *testing.T) {
	sched := &fakeScheduler{}
	c := NewCountdown(sched, 1)
	c.SetRunning(true)
	sched.tick(10)

	c.SetRunning(false)
	assert.False(t, c.Running())
	sched.tick(5)
	assert.Equal(t, int64(50000), c.Remaining())

	c.SetRunning(true)
	sched.tick(1)
	assert.Equal(t, int64(49000), c.Remaining())
	assert.Len(t, sched.active(), 1)
}

func TestCountdownSetRunningIsIdempotent(t *testing.T) {
	sched := &fakeScheduler{}
	c := NewCountdown(sched, 1)

	c.SetRunning(true)
	c.SetRunning(true)
	assert.Len(t, sched.tickers, 1)

	c.SetRunning(false)
	c.SetRunning(false)
	assert.Empty(t, sched.active())
}

func TestCountdownCompletesOnce(t *testing.T) {
	sched := &fakeScheduler{}
	c := NewCountdown(sched, 0.05) // 3s

	ends := 0
	c.OnEnd = func() { ends++ }
	c.SetRunning(true)
	ticker := sched.tickers[0]
	sched.tick(3)

	require.Equal(t, 1, ends)
	assert.True(t, ticker.stopped)

	// A late callback from a driver that did not honor Stop must not end
	// the session again.
	ticker.fn()
	ticker.fn()
	assert.Equal(t, 1, ends)
	assert.Zero(t, c.Remaining())

	c.SetRunning(true)
	assert.False(t, c.Running())
}

func TestCountdownProgressPrecedesEnd(t *testing.T) {
	sched := &fakeScheduler{}
	c := NewCountdown(sched, 0.1)

	var events []string
	c.OnProgress = func(f float64) {
		if f == 0 {
			events = append(events, "progress:0")
		}
	}
	c.OnEnd = func() { events = append(events, "end") }
	c.SetRunning(true)
	sched.tick(6)

	assert.Equal(t, []string{"progress:0", "end"}, events)
	assert.Equal(t, 0.0, c.Progress())
}

func TestCountdownConfigureWhileRunningKeepsDriver(t *testing.T) {
	sched := &fakeScheduler{}
	c := NewCountdown(sched, 1)
	c.SetRunning(true)
	sched.tick(2)

	c.Configure(2)
	assert.True(t, c.Running())
	assert.Equal(t, int64(120000), c.Remaining())
	sched.tick(1)
	assert.Equal(t, int64(119000), c.Remaining())
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		millis int64
		want   string
	}{
		{0, "00:00"},
		{6000, "00:06"},
		{59999, "00:59"},
		{15 * 60000, "15:00"},
		{61 * 60000, "61:00"},
		{-5, "00:00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatMillis(tc.millis))
	}
}

func TestMinutesToMillis(t *testing.T) {
	assert.Equal(t, int64(6000), MinutesToMillis(0.1))
	assert.Equal(t, int64(600000), MinutesToMillis(10))
	assert.Equal(t, int64(0), MinutesToMillis(-3))
}
