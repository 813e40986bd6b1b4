package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "turnos"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/turnos/turnos.db"
	Version            = "v0.3.0"

	// EnvConnection overrides --config with a storage target (usually a PostgreSQL URL)
	EnvConnection = "TURNOS_DB_CONNECTION"

	// ConfigKeyring selects the connection string stored in the OS keyring
	ConfigKeyring = "keyring"

	// LegacyStorageKey is the localStorage key used by the browser version of the app
	LegacyStorageKey = "barber_turnos_v1"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "turnos-"
	BackupFileSuffix = ".db"

	// Server constants
	DefaultAddr         = "127.0.0.1:8080"
	DefaultTickInterval = time.Second
	ShutdownTimeout     = 10 * time.Second

	// TUI constants
	FlashDuration = 2 * time.Second

	// Session States
	StateBoard SessionState = iota
	StatePicking
	StateConfirmReset
)
