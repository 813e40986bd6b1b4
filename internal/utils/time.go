package utils

import (
	"fmt"
	"time"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, timeStr)
}

// ParseTimeToMinutes parses a time string (HH:MM) and returns the number of minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	t, err := ParseTime(timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatMinutes renders minutes from midnight as HH:MM.
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AtMinutes returns the instant on day's calendar date at the given minutes from midnight,
// in day's location. Days beyond the current one are reached with offsetDays.
func AtMinutes(day time.Time, offsetDays, minutes int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d+offsetDays, minutes/60, minutes%60, 0, 0, day.Location())
}

// Clock formats an instant as HH:MM, or "--:--" for the zero time.
func Clock(t time.Time) string {
	if t.IsZero() {
		return "--:--"
	}
	return t.Format(constants.TimeFormat)
}

// FromEpochMillis converts a JavaScript timestamp to a time.Time. Zero stays zero.
func FromEpochMillis(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := ParseTime(timeStr)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
