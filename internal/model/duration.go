package model

import (
	"fmt"
	"time"
)

// DurationMinutes returns the elapsed whole minutes between departure and
// arrival. When the arrival clock-time precedes the departure clock-time the
// flight is assumed to have crossed midnight and exactly 24 hours are added,
// once. Flights spanning more than one day therefore under-report; that
// limitation is deliberate and relied upon by existing data.
//
// Sub-minute remainders are truncated. The result is never negative.
func DurationMinutes(departure, arrival time.Time) int {
	elapsed := arrival.Sub(departure)
	if elapsed < 0 {
		elapsed += 24 * time.Hour
	}
	// Full timestamps more than a day apart in the wrong order are still
	// negative after the single correction; clamp rather than store a
	// negative count.
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / time.Minute)
}

// FormatDuration renders a whole-minute count as a display string:
// "2h 30m", "2h", "30m", or "0m". Negative input is clamped to "0m".
func FormatDuration(totalMinutes int) string {
	if totalMinutes <= 0 {
		return "0m"
	}
	hours := totalMinutes / 60
	minutes := totalMinutes % 60
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
