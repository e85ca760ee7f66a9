package utils

import (
	"fmt"
	"time"
)

// FormatAge renders d in its largest whole unit: 42s, 5m, 3h
func FormatAge(d time.Duration) string {
	seconds := int64(d / time.Second)
	if seconds < 0 {
		seconds = -seconds
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds >= 3600 {
		return fmt.Sprintf("%dh", seconds/3600)
	}
	return fmt.Sprintf("%dm", seconds/60)
}

// FormatLatency renders milliseconds as 85ms or 1.2s
func FormatLatency(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%.0fms", ms)
	}
	return fmt.Sprintf("%.1fs", ms/1000)
}
