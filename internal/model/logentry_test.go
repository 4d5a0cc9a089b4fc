package model

import (
	"testing"
	"time"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2026, 3, 1, 9, 5, 7, 0, time.Local), "2026-03-01T09:05:07"},
		{time.Date(2026, 3, 1, 9, 5, 7, 123456789, time.Local), "2026-03-01T09:05:07.123456"},
		{time.Date(2026, 3, 1, 9, 5, 7, 1000, time.Local), "2026-03-01T09:05:07.000001"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.in); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseTimestampRoundTrip(t *testing.T) {
	in := time.Date(2026, 10, 17, 23, 59, 59, 500000000, time.Local)
	got, err := ParseTimestamp(FormatTimestamp(in))
	if err != nil {
		t.Fatalf("ParseTimestamp error: %v", err)
	}
	if !got.Equal(in) {
		t.Errorf("round trip = %v, want %v", got, in)
	}
}

func TestNewLogEntry(t *testing.T) {
	e := NewLogEntry(time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local), DefaultDetails)
	if e.Details != "Seizure detected" {
		t.Errorf("Details = %q", e.Details)
	}
	if e.Timestamp != "2026-01-02T03:04:05" {
		t.Errorf("Timestamp = %q", e.Timestamp)
	}
}
