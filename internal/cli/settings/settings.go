package settings

import (
	"fmt"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/cli"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/validation"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	MorningStart   *string `help:"Start of the morning shift (HH:MM)."`
	MorningEnd     *string `help:"End of the morning shift (HH:MM)."`
	AfternoonStart *string `help:"Start of the afternoon shift (HH:MM)."`
	AfternoonEnd   *string `help:"End of the afternoon shift (HH:MM)."`
	WarningMinutes *int    `help:"Minutes past the shift end still reported as at risk."`
	Timezone       *string `help:"IANA timezone of the shop, or Local."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Fprintln(out, "Current Settings:")
		fmt.Fprintf(out, "  Morning Shift:    %s-%s\n", settings.MorningStart, settings.MorningEnd)
		fmt.Fprintf(out, "  Afternoon Shift:  %s-%s\n", settings.AfternoonStart, settings.AfternoonEnd)
		fmt.Fprintf(out, "  Warning Minutes:  %d min\n", settings.WarningMinutes)
		fmt.Fprintf(out, "  Timezone:         %s\n", settings.Timezone)
		return nil
	}

	updated := false
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
			updated = true
		}
	}
	set(&settings.MorningStart, c.MorningStart)
	set(&settings.MorningEnd, c.MorningEnd)
	set(&settings.AfternoonStart, c.AfternoonStart)
	set(&settings.AfternoonEnd, c.AfternoonEnd)
	set(&settings.Timezone, c.Timezone)
	if c.WarningMinutes != nil {
		settings.WarningMinutes = *c.WarningMinutes
		updated = true
	}

	if !updated {
		fmt.Fprintln(out, "No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	result := validation.New(ctx.Catalog).ValidateSettings(settings)
	if result.HasConflicts() {
		return fmt.Errorf("settings not saved:\n%s", result.FormatReport())
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Fprintln(out, "Settings updated successfully.")
	return nil
}
