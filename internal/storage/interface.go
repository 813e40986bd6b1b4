package storage

import (
	"errors"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
)

var (
	ErrNotInitialized     = errors.New("storage not initialized, run 'turnos init' first")
	ErrUnsupportedVersion = errors.New("stored state was written by a newer version of turnos")
	ErrCorrupt            = errors.New("stored data is not valid JSON")
)

// Provider persists the shop policy and the shop state
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// State
	LoadState() (models.State, error)
	SaveState(models.State) error

	// Utils
	GetConfigPath() string
}

// SchemaProvider is implemented by stores backed by a migrated SQL schema
type SchemaProvider interface {
	// SchemaVersion returns the applied schema version and the latest one this binary ships
	SchemaVersion() (current, latest int, err error)
	// Migrate applies pending migrations and returns how many ran
	Migrate(logFn func(string)) (int, error)
}
