package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/catalog"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
)

// newPickerForm asks for a service and, for sequential services, a speed
func newPickerForm(c *catalog.Catalog, fm *PickerFormModel) *huh.Form {
	title := "Start service"
	if fm.Mode == PickQueue {
		title = "Add to queue"
	}

	services := make([]huh.Option[string], 0, len(c.List()))
	for _, svc := range c.List() {
		label := svc.Label
		if svc.IsParallel() {
			label = fmt.Sprintf("%s (parallel, %d min)", svc.Label, svc.FixedMinutes)
		}
		services = append(services, huh.NewOption(label, svc.ID))
	}

	speeds := make([]huh.Option[models.Speed], 0, len(models.Speeds))
	for _, sp := range models.Speeds {
		speeds = append(speeds, huh.NewOption(sp.Label(), sp))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(services...).
				Value(&fm.Service),
		),
		huh.NewGroup(
			huh.NewSelect[models.Speed]().
				Title("Speed").
				DescriptionFunc(func() string {
					return fmt.Sprintf("%s: %d / %d / %d min", c.Label(fm.Service),
						c.Duration(fm.Service, models.SpeedFast),
						c.Duration(fm.Service, models.SpeedNormal),
						c.Duration(fm.Service, models.SpeedSlow))
				}, &fm.Service).
				Options(speeds...).
				Value(&fm.Speed),
		).WithHideFunc(func() bool {
			svc, ok := c.Lookup(fm.Service)
			return ok && svc.IsParallel()
		}),
	).WithTheme(huh.ThemeDracula())
}
