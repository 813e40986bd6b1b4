package models

import (
	"fmt"
	"strconv"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/constants"
)

// Settings represents the shop policy
type Settings struct {
	MorningStart   string `json:"morning_start"`   // e.g. "09:30"
	MorningEnd     string `json:"morning_end"`     // e.g. "13:00"
	AfternoonStart string `json:"afternoon_start"` // e.g. "17:30"
	AfternoonEnd   string `json:"afternoon_end"`   // e.g. "22:00"
	WarningMinutes int    `json:"warning_minutes"` // overage still reported as at risk
	Timezone       string `json:"timezone"`        // IANA timezone name, or "Local"
}

// DefaultSettings returns the built-in shop policy
func DefaultSettings() Settings {
	return Settings{
		MorningStart:   constants.DefaultMorningStart,
		MorningEnd:     constants.DefaultMorningEnd,
		AfternoonStart: constants.DefaultAfternoonStart,
		AfternoonEnd:   constants.DefaultAfternoonEnd,
		WarningMinutes: constants.DefaultWarningMinutes,
		Timezone:       constants.DefaultTimezone,
	}
}

// MapToSettings converts stored key-value pairs into Settings. Unknown keys are ignored and
// a missing warning threshold takes the default.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{WarningMinutes: constants.DefaultWarningMinutes}

	for key, value := range data {
		switch key {
		case constants.SettingMorningStart:
			settings.MorningStart = value
		case constants.SettingMorningEnd:
			settings.MorningEnd = value
		case constants.SettingAfternoonStart:
			settings.AfternoonStart = value
		case constants.SettingAfternoonEnd:
			settings.AfternoonEnd = value
		case constants.SettingWarningMinutes:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", constants.SettingWarningMinutes, err)
			}
			settings.WarningMinutes = n
		case constants.SettingTimezone:
			settings.Timezone = value
		}
	}
	return settings, nil
}

// SettingsToMap converts Settings into key-value pairs for storage
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingMorningStart:   settings.MorningStart,
		constants.SettingMorningEnd:     settings.MorningEnd,
		constants.SettingAfternoonStart: settings.AfternoonStart,
		constants.SettingAfternoonEnd:   settings.AfternoonEnd,
		constants.SettingWarningMinutes: strconv.Itoa(settings.WarningMinutes),
		constants.SettingTimezone:       settings.Timezone,
	}
}

// ApplyDefaultSettings fills empty fields with the built-in policy.
// A zero warning threshold is a valid choice and is kept.
func ApplyDefaultSettings(settings *Settings) {
	defaults := DefaultSettings()
	if settings.MorningStart == "" {
		settings.MorningStart = defaults.MorningStart
	}
	if settings.MorningEnd == "" {
		settings.MorningEnd = defaults.MorningEnd
	}
	if settings.AfternoonStart == "" {
		settings.AfternoonStart = defaults.AfternoonStart
	}
	if settings.AfternoonEnd == "" {
		settings.AfternoonEnd = defaults.AfternoonEnd
	}
	if settings.WarningMinutes < 0 {
		settings.WarningMinutes = defaults.WarningMinutes
	}
	if settings.Timezone == "" {
		settings.Timezone = defaults.Timezone
	}
}
