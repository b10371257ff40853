package util

import (
	"fmt"
	"time"
)

// FormatMeanSD formats a mean and standard deviation as "50.12 ± 4.98".
func FormatMeanSD(mean, sd float64) string {
	return fmt.Sprintf("%.2f ± %.2f", mean, sd)
}

// FormatDateTime formats a time in UTC as "2006-01-02 15:04".
func FormatDateTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}

// TruncateID shortens a UUID-like identifier for table output.
func TruncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
