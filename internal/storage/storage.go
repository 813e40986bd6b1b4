// Package storage persists the shop policy and the live shop state.
package storage

import (
	"github.com/google/uuid"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/logger"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
)

// LoadStateOrDefault reads the saved state and repairs it. A state that cannot be read is
// replaced by the empty state so the shop can keep working.
func LoadStateOrDefault(p Provider) models.State {
	st, err := p.LoadState()
	if err != nil {
		logger.Warn("Failed to load shop state, starting empty", "store", p.GetConfigPath(), "error", err)
		return models.NewState()
	}
	if repairs := st.Normalize(uuid.NewString); repairs > 0 {
		logger.Warn("Repaired stored shop state", "repairs", repairs)
	}
	return st
}

// LoadSettingsOrDefault reads the shop policy and fills anything missing with the defaults
func LoadSettingsOrDefault(p Provider) models.Settings {
	settings, err := p.GetSettings()
	if err != nil {
		logger.Warn("Failed to load settings, using defaults", "error", err)
		return models.DefaultSettings()
	}
	models.ApplyDefaultSettings(&settings)
	return settings
}
