package timer

import (
	"fmt"
	"math"
)

// ClampMinutes returns minutes, or 0 when it is not positive.
func ClampMinutes(minutes float64) float64 {
	if minutes <= 0 || math.IsNaN(minutes) {
		return 0
	}
	return minutes
}

// MinutesToMillis converts a duration in minutes into whole milliseconds.
// Fractional minutes are allowed; non-positive values clamp to 0.
func MinutesToMillis(minutes float64) int64 {
	return int64(math.Round(ClampMinutes(minutes) * float64(millisInMinute)))
}

// SplitClock breaks a number of milliseconds into the minutes and seconds
// shown on the countdown. Minutes are not wrapped at 60.
func SplitClock(millis int64) (minutes, seconds int) {
	if millis < 0 {
		millis = 0
	}
	totalSec := millis / 1000
	return int(totalSec / 60), int(totalSec % 60)
}

// FormatClock converts minutes and seconds into a mm:ss string.
func FormatClock(minutes, seconds int) string {
	if minutes < 0 {
		minutes = 0
	}
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// FormatMillis converts a number of milliseconds into a mm:ss string.
func FormatMillis(millis int64) string {
	return FormatClock(SplitClock(millis))
}
