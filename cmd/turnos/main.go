package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/cli"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/cli/backups"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/cli/jobs"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/cli/settings"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/cli/system"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/constants"
	apperrors "github.com/francojjuarez61-dev/Barber-turnos/internal/errors"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/keyring"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/logger"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/storage"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/storage/postgres"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/utils"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Store file (.db or .json), PostgreSQL connection string, or 'keyring'. Credentials must NOT be embedded in connection strings; use TURNOS_DB_CONNECTION, .pgpass or the OS keyring instead." type:"string" default:"~/.config/turnos/turnos.db"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd     `cmd:"" help:"Initialize turnos storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive board." default:"1"`
	Serve    system.ServeCmd    `cmd:"" help:"Serve the board over HTTP."`
	Import   system.ImportCmd   `cmd:"" help:"Import a JSON export of the shop."`
	Status   jobs.StatusCmd     `cmd:"" help:"Show the chair, the queue and the projected end."`
	Services jobs.ServicesCmd   `cmd:"" help:"List the service catalog."`
	Start    jobs.StartCmd      `cmd:"" help:"Seat a client, or queue them when the chair is busy."`
	Enqueue  jobs.EnqueueCmd    `cmd:"" help:"Add a client to the end of the queue."`
	Parallel jobs.ParallelCmd   `cmd:"" help:"Start a color or perm that processes on its own."`
	Next     jobs.NextCmd       `cmd:"" help:"Seat the first client in the queue."`
	Finish   jobs.FinishCmd     `cmd:"" help:"Finish the client in the chair."`

	FinishParallel jobs.FinishParallelCmd `cmd:"" name:"finish-parallel" help:"Finish a parallel job."`

	Remove   jobs.RemoveCmd       `cmd:"" help:"Remove a client from the queue."`
	Up       jobs.UpCmd           `cmd:"" help:"Move a queued client one place forward."`
	Down     jobs.DownCmd         `cmd:"" help:"Move a queued client one place back."`
	Reset    jobs.ResetCmd        `cmd:"" help:"Clear the chair, the queue and the parallel jobs."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage shift hours and warnings."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage store backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Report whether the OS keyring is usable."`
	} `cmd:"" help:"Manage the connection string in the OS keyring."`
}

// resolveTarget turns --config and the environment into a store path or connection string.
// Targets from the environment or the keyring are trusted to carry a password.
func resolveTarget(config string) (target string, trusted bool, err error) {
	if env := os.Getenv(constants.EnvConnection); env != "" {
		return env, true, nil
	}
	if config == constants.ConfigKeyring {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			return "", false, err
		}
		return connStr, true, nil
	}
	return utils.ExpandHome(config), false, nil
}

func isPostgres(target string) bool {
	return postgres.IsConnString(target) || strings.Contains(target, "host=")
}

func openStore(target string, trusted bool) (storage.Provider, error) {
	if trusted && isPostgres(target) {
		return postgres.New(target), nil
	}
	return cli.OpenStore(target)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Walk-in queue and shift projection for a one-chair barber shop"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":      constants.Version,
			"default_addr": constants.DefaultAddr,
		},
	)
	command := ctx.Command()

	// Keyring commands manage the target itself, so they run without a store
	if strings.HasPrefix(command, "keyring") {
		if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: filepath.Dir(utils.ExpandHome(constants.DefaultConfigPath))}); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
		}
		apperrors.Fatal(ctx.Run(&cli.Context{Debug: CLI.Debug}))
		return
	}

	target, trusted, err := resolveTarget(CLI.Config)
	if err != nil {
		apperrors.Fatalf("failed to read connection string from keyring: %v", err)
	}

	configDir := filepath.Dir(target)
	if isPostgres(target) {
		configDir = filepath.Dir(utils.ExpandHome(constants.DefaultConfigPath))
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store, err := openStore(target, trusted)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	// init, migrate and doctor handle loading themselves
	switch command {
	case "init", "migrate", "doctor":
	default:
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	appCtx := &cli.Context{
		Store: store,
		Debug: CLI.Debug,
	}
	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}
