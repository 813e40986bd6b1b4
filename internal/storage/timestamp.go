package storage

import (
	"fmt"
	"time"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/logger"
)

// FormatTimestamp renders an instant for a TEXT column. The zero time is stored as "".
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

// ParseTimestamp is the inverse of FormatTimestamp
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

// TimestampOrZero parses a stored timestamp, logging and returning the zero time when it is
// unreadable. Normalize repairs the zeroed fields that matter.
func TimestampOrZero(s, field, jobID string) time.Time {
	t, err := ParseTimestamp(s)
	if err != nil {
		logger.Warn("Ignored unreadable timestamp", "field", field, "job", jobID, "error", err)
		return time.Time{}
	}
	return t
}
