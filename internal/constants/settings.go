package constants

// Setting keys as stored in the settings table
const (
	SettingMorningStart   = "morning_start"
	SettingMorningEnd     = "morning_end"
	SettingAfternoonStart = "afternoon_start"
	SettingAfternoonEnd   = "afternoon_end"
	SettingWarningMinutes = "warning_minutes"
	SettingTimezone       = "timezone"
)

// Default shop policy
const (
	DefaultMorningStart   = "09:30"
	DefaultMorningEnd     = "13:00"
	DefaultAfternoonStart = "17:30"
	DefaultAfternoonEnd   = "22:00"
	// DefaultWarningMinutes is how far past the shift end a projection may land and still be at risk rather than over
	DefaultWarningMinutes = 5
	DefaultTimezone       = "Local"
)
