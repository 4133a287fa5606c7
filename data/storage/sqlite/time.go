package sqlite

import (
	"strings"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// DATETIME columns come back from the driver as time.Time, which
// database/sql renders as RFC3339 when scanning into a string:
// "2025-08-05T10:15:43Z" instead of "2025-08-05 10:15:43"
func tryParseTime(s string) (time.Time, error) {
	if strings.Contains(s, "T") {
		return time.Parse(time.RFC3339Nano, s)
	}
	return time.ParseInLocation(timeLayout, s, time.UTC)
}
