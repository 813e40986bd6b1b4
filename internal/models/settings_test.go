package models

import (
	"testing"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/constants"
)

func TestSettingsMapRoundTrip(t *testing.T) {
	in := Settings{
		MorningStart:   "09:00",
		MorningEnd:     "12:30",
		AfternoonStart: "16:00",
		AfternoonEnd:   "21:00",
		WarningMinutes: 10,
		Timezone:       "America/Argentina/Cordoba",
	}

	out, err := MapToSettings(SettingsToMap(in))
	if err != nil {
		t.Fatalf("MapToSettings() error = %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestMapToSettings(t *testing.T) {
	t.Run("missing warning threshold takes the default", func(t *testing.T) {
		s, err := MapToSettings(map[string]string{constants.SettingMorningStart: "09:30"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.WarningMinutes != constants.DefaultWarningMinutes {
			t.Errorf("WarningMinutes = %d, want %d", s.WarningMinutes, constants.DefaultWarningMinutes)
		}
	})

	t.Run("malformed warning threshold", func(t *testing.T) {
		if _, err := MapToSettings(map[string]string{constants.SettingWarningMinutes: "five"}); err == nil {
			t.Error("expected an error for a non-numeric threshold")
		}
	})
}

func TestApplyDefaultSettings(t *testing.T) {
	s := Settings{WarningMinutes: 0}
	ApplyDefaultSettings(&s)

	want := DefaultSettings()
	want.WarningMinutes = 0
	if s != want {
		t.Errorf("ApplyDefaultSettings() = %+v, want %+v", s, want)
	}

	s = Settings{WarningMinutes: -3}
	ApplyDefaultSettings(&s)
	if s.WarningMinutes != constants.DefaultWarningMinutes {
		t.Errorf("negative threshold not replaced, got %d", s.WarningMinutes)
	}
}
