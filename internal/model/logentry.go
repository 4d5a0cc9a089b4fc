package model

import (
	"fmt"
	"time"
)

// DefaultDetails is the detail text recorded for every positive detection.
const DefaultDetails = "Seizure detected"

// timestampLayout is ISO-8601 local time without a zone offset.
const timestampLayout = "2006-01-02T15:04:05"

// LogEntry is one record in the seizure log.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Details   string `json:"details"`
}

// NewLogEntry builds an entry stamped with t in the local clock.
func NewLogEntry(t time.Time, details string) LogEntry {
	return LogEntry{Timestamp: FormatTimestamp(t), Details: details}
}

// FormatTimestamp renders t in local time with microsecond precision.
// The fractional part is omitted when it is zero.
func FormatTimestamp(t time.Time) string {
	t = t.Local()
	s := t.Format(timestampLayout)
	if us := t.Nanosecond() / 1000; us != 0 {
		s += fmt.Sprintf(".%06d", us)
	}
	return s
}

// ParseTimestamp is the inverse of FormatTimestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(timestampLayout, s, time.Local)
}
