// Package period
package period

import (
	"errors"
	"time"
)

// ParseWindow parses a report window string (e.g., "24h", "7d") to time.Duration
func ParseWindow(window string) (time.Duration, error) {
	switch window {
	case "1h":
		return time.Hour, nil
	case "6h":
		return 6 * time.Hour, nil
	case "12h":
		return 12 * time.Hour, nil
	case "24h":
		return 24 * time.Hour, nil
	case "7d":
		return 7 * 24 * time.Hour, nil
	case "30d":
		return 30 * 24 * time.Hour, nil
	case "90d":
		return 90 * 24 * time.Hour, nil
	default:
		return 0, errors.New("unsupported report window")
	}
}

// IsValidWindow checks whether a report window string is supported
func IsValidWindow(window string) bool {
	_, err := ParseWindow(window)
	return err == nil
}

// SupportedWindows returns all supported report windows
func SupportedWindows() []string {
	return []string{"1h", "6h", "12h", "24h", "7d", "30d", "90d"}
}

// Bounds returns the half-open interval [end-window, end) for a report
// window ending at end.
func Bounds(end time.Time, window string) (time.Time, time.Time, error) {
	dur, err := ParseWindow(window)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return end.Add(-dur), end, nil
}
