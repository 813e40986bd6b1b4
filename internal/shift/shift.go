// Package shift resolves the two fixed daily working windows against a point in time.
package shift

import (
	"fmt"
	"time"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/utils"
)

const (
	KeyMorning   = "morning"
	KeyAfternoon = "afternoon"
)

// Window is a daily time-of-day range in minutes from midnight, end exclusive.
type Window struct {
	Key   string
	Name  string
	Start int
	End   int
}

// Label renders the window as "Morning 09:30-13:00"
func (w Window) Label() string {
	return fmt.Sprintf("%s %s-%s", w.Name, utils.FormatMinutes(w.Start), utils.FormatMinutes(w.End))
}

// Shift is a window pinned to a concrete day.
type Shift struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Upcoming bool      `json:"upcoming"`
	NextDay  bool      `json:"next_day"`
}

// Length returns the duration of the shift
func (s Shift) Length() time.Duration {
	return s.End.Sub(s.Start)
}

// Contains reports whether t is inside the shift, start inclusive and end exclusive
func (s Shift) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

// Calendar holds the morning and afternoon windows of every day.
type Calendar struct {
	Morning   Window
	Afternoon Window
}

// NewCalendar validates that both windows are non-empty, inside one day, and in order.
func NewCalendar(morning, afternoon Window) (Calendar, error) {
	for _, w := range []Window{morning, afternoon} {
		if w.Start < 0 || w.End > 24*60 {
			return Calendar{}, fmt.Errorf("%s window must fall within one day", w.Key)
		}
		if w.Start >= w.End {
			return Calendar{}, fmt.Errorf("%s window must start before it ends", w.Key)
		}
	}
	if morning.End > afternoon.Start {
		return Calendar{}, fmt.Errorf("morning window must end before the afternoon window starts")
	}
	return Calendar{Morning: morning, Afternoon: afternoon}, nil
}

// Default returns the 09:30-13:00 and 17:30-22:00 calendar
func Default() Calendar {
	cal, err := FromSettings(models.DefaultSettings())
	if err != nil {
		panic(err)
	}
	return cal
}

// FromSettings builds a calendar from the HH:MM values of the shop settings.
func FromSettings(s models.Settings) (Calendar, error) {
	parse := func(name, value string) (int, error) {
		m, err := utils.ParseTimeToMinutes(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q: expected HH:MM", name, value)
		}
		return m, nil
	}

	ms, err := parse("morning start", s.MorningStart)
	if err != nil {
		return Calendar{}, err
	}
	me, err := parse("morning end", s.MorningEnd)
	if err != nil {
		return Calendar{}, err
	}
	as, err := parse("afternoon start", s.AfternoonStart)
	if err != nil {
		return Calendar{}, err
	}
	ae, err := parse("afternoon end", s.AfternoonEnd)
	if err != nil {
		return Calendar{}, err
	}

	return NewCalendar(
		Window{Key: KeyMorning, Name: "Morning", Start: ms, End: me},
		Window{Key: KeyAfternoon, Name: "Afternoon", Start: as, End: ae},
	)
}

// Resolve returns the shift that now is inside of, or the next one to begin. Past the
// afternoon window that is the following day's morning.
func (c Calendar) Resolve(now time.Time) Shift {
	pin := func(w Window, offsetDays int) Shift {
		return Shift{
			Key:   w.Key,
			Label: w.Label(),
			Start: utils.AtMinutes(now, offsetDays, w.Start),
			End:   utils.AtMinutes(now, offsetDays, w.End),
		}
	}

	morning := pin(c.Morning, 0)
	afternoon := pin(c.Afternoon, 0)

	switch {
	case morning.Contains(now):
		return morning
	case afternoon.Contains(now):
		return afternoon
	case now.Before(morning.Start):
		morning.Upcoming = true
		return morning
	case now.Before(afternoon.Start):
		afternoon.Upcoming = true
		return afternoon
	}

	next := pin(c.Morning, 1)
	next.Upcoming = true
	next.NextDay = true
	next.Label = fmt.Sprintf("%s (next day) %s-%s", c.Morning.Name,
		utils.FormatMinutes(c.Morning.Start), utils.FormatMinutes(c.Morning.End))
	return next
}
