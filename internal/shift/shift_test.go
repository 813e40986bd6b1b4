package shift

import (
	"testing"
	"time"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
)

var art = time.FixedZone("ART", -3*60*60)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, time.March, day, hour, minute, 0, 0, art)
}

func TestResolve(t *testing.T) {
	cal := Default()

	tests := []struct {
		name      string
		now       time.Time
		wantKey   string
		wantStart time.Time
		wantEnd   time.Time
		upcoming  bool
		nextDay   bool
	}{
		{"before morning", at(10, 7, 45), KeyMorning, at(10, 9, 30), at(10, 13, 0), true, false},
		{"morning start is inclusive", at(10, 9, 30), KeyMorning, at(10, 9, 30), at(10, 13, 0), false, false},
		{"inside morning", at(10, 11, 15), KeyMorning, at(10, 9, 30), at(10, 13, 0), false, false},
		{"morning end is exclusive", at(10, 13, 0), KeyAfternoon, at(10, 17, 30), at(10, 22, 0), true, false},
		{"between shifts", at(10, 15, 0), KeyAfternoon, at(10, 17, 30), at(10, 22, 0), true, false},
		{"afternoon start is inclusive", at(10, 17, 30), KeyAfternoon, at(10, 17, 30), at(10, 22, 0), false, false},
		{"inside afternoon", at(10, 21, 59), KeyAfternoon, at(10, 17, 30), at(10, 22, 0), false, false},
		{"afternoon end rolls to next morning", at(10, 22, 0), KeyMorning, at(11, 9, 30), at(11, 13, 0), true, true},
		{"late night", at(10, 23, 50), KeyMorning, at(11, 9, 30), at(11, 13, 0), true, true},
		{"month boundary", at(31, 23, 0), KeyMorning,
			time.Date(2026, time.April, 1, 9, 30, 0, 0, art), time.Date(2026, time.April, 1, 13, 0, 0, 0, art), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cal.Resolve(tt.now)
			if got.Key != tt.wantKey {
				t.Errorf("Key = %q, want %q", got.Key, tt.wantKey)
			}
			if !got.Start.Equal(tt.wantStart) || !got.End.Equal(tt.wantEnd) {
				t.Errorf("window = %v-%v, want %v-%v", got.Start, got.End, tt.wantStart, tt.wantEnd)
			}
			if got.Upcoming != tt.upcoming {
				t.Errorf("Upcoming = %v, want %v", got.Upcoming, tt.upcoming)
			}
			if got.NextDay != tt.nextDay {
				t.Errorf("NextDay = %v, want %v", got.NextDay, tt.nextDay)
			}
			if got.Start.After(got.End) {
				t.Error("start after end")
			}
			// The window either contains now or starts after it.
			if !got.Contains(tt.now) && !got.Start.After(tt.now) {
				t.Errorf("window %v-%v neither contains nor follows %v", got.Start, got.End, tt.now)
			}
		})
	}
}

func TestResolve_Labels(t *testing.T) {
	cal := Default()

	if got := cal.Resolve(at(10, 10, 0)).Label; got != "Morning 09:30-13:00" {
		t.Errorf("morning label = %q", got)
	}
	if got := cal.Resolve(at(10, 18, 0)).Label; got != "Afternoon 17:30-22:00" {
		t.Errorf("afternoon label = %q", got)
	}
	if got := cal.Resolve(at(10, 22, 30)).Label; got != "Morning (next day) 09:30-13:00" {
		t.Errorf("next day label = %q", got)
	}
}

func TestResolve_AcrossADay(t *testing.T) {
	cal := Default()
	start := at(12, 0, 0)
	for now := start; now.Before(start.Add(24 * time.Hour)); now = now.Add(7 * time.Minute) {
		got := cal.Resolve(now)
		if got.End.Before(got.Start) {
			t.Fatalf("Resolve(%v) end before start", now)
		}
		if got.Upcoming == got.Contains(now) {
			t.Fatalf("Resolve(%v) upcoming=%v but contains=%v", now, got.Upcoming, got.Contains(now))
		}
	}
}

func TestFromSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Settings)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*models.Settings) {}},
		{name: "custom windows", mutate: func(s *models.Settings) {
			s.MorningStart, s.MorningEnd, s.AfternoonStart, s.AfternoonEnd = "08:00", "12:00", "12:00", "20:00"
		}},
		{name: "bad format", mutate: func(s *models.Settings) { s.MorningStart = "9am" }, wantErr: true},
		{name: "inverted window", mutate: func(s *models.Settings) { s.AfternoonEnd = "17:00" }, wantErr: true},
		{name: "overlapping windows", mutate: func(s *models.Settings) { s.MorningEnd = "18:00" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := models.DefaultSettings()
			tt.mutate(&s)
			_, err := FromSettings(s)
			if (err != nil) != tt.wantErr {
				t.Errorf("FromSettings() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
