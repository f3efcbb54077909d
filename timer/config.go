package timer

import (
	"image/color"
	"time"
)

// SessionState defines the possible states of a focus session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateRunning
	StatePaused
	StateCompleted
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

// TickPeriod is the fixed interval between two countdown ticks.
const TickPeriod = time.Second

const (
	tickMillis     int64 = int64(TickPeriod / time.Millisecond)
	millisInMinute int64 = 60000
)

// DefaultMinutes is the duration a session falls back to after it ends or is
// cancelled, unless the host configures another one.
const DefaultMinutes = 0.1

// PresetMinutes are the durations offered as quick-select buttons.
var PresetMinutes = []float64{10, 15, 20}

// UI constants
const (
	FontSizeTime  float32 = 48.0 // Countdown
	FontSizeTitle float32 = 16.0
	FontSizeTask  float32 = 24.0

	// Dimensions
	WindowWidth       = 360
	WindowHeight      = 640
	ToggleButtonSize  = 120
	HistoryListHeight = 240
	CornerRadius      = 15.0
	SpacingLarge      = 24

	FadeDuration   = 200 * time.Millisecond
	RunningOpacity = 0.5
)

var (
	// BackgroundColor is the base background of the timer screen.
	BackgroundColor = color.NRGBA{R: 0x25, G: 0x2c, B: 0x6a, A: 0xff}
	// CountdownColor is the translucent panel behind the countdown text.
	CountdownColor = color.NRGBA{R: 94, G: 132, B: 226, A: 0x33}
	// ProgressColor fills the progress bar.
	ProgressColor = color.NRGBA{R: 0x5e, G: 0x84, B: 0xe2, A: 0xff}
	// TrackColor is the empty part of the progress bar.
	TrackColor = color.NRGBA{R: 0xd3, G: 0xd3, B: 0xd3, A: 0xff}
	// AccentRed marks destructive controls.
	AccentRed = color.NRGBA{R: 231, G: 76, B: 60, A: 0xff}
)
