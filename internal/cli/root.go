package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/backup"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/catalog"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/constants"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/logger"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/scheduler"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/shift"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/storage"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/storage/postgres"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/storage/sqlite"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/utils"
)

type Context struct {
	Store   storage.Provider
	Catalog *catalog.Catalog
	Debug   bool

	// Out, Err and In default to the process streams when nil
	Out io.Writer
	Err io.Writer
	In  io.Reader

	// Now replaces time.Now for the shop clock
	Now func() time.Time
}

// OpenStore picks the storage implementation for a --config target
func OpenStore(target string) (storage.Provider, error) {
	if postgres.IsConnString(target) {
		if valid, err := postgres.ValidateConnString(target); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: store it with '%s keyring set', export %s or use .pgpass",
					err, constants.AppName, constants.EnvConnection)
			}
			return nil, err
		}
		return postgres.New(target), nil
	}
	if strings.HasSuffix(strings.ToLower(target), ".json") {
		return storage.NewJSONStore(target), nil
	}
	return sqlite.NewStore(target), nil
}

func (c *Context) Stdout() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

func (c *Context) Stderr() io.Writer {
	if c.Err != nil {
		return c.Err
	}
	return os.Stderr
}

func (c *Context) Stdin() io.Reader {
	if c.In != nil {
		return c.In
	}
	return os.Stdin
}

func (c *Context) catalog() *catalog.Catalog {
	if c.Catalog == nil {
		c.Catalog = catalog.Default()
	}
	return c.Catalog
}

// OpenScheduler builds the shop scheduler from the stored policy and state. The clock runs in
// the configured timezone.
func (c *Context) OpenScheduler() (*scheduler.Scheduler, error) {
	settings := storage.LoadSettingsOrDefault(c.Store)

	cal, err := shift.FromSettings(settings)
	if err != nil {
		return nil, fmt.Errorf("invalid shift settings: %w", err)
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}

	now := c.Now
	if now == nil {
		now = time.Now
	}

	return scheduler.New(c.Store,
		scheduler.WithState(storage.LoadStateOrDefault(c.Store)),
		scheduler.WithCatalog(c.catalog()),
		scheduler.WithCalendar(cal),
		scheduler.WithWarningMinutes(settings.WarningMinutes),
		scheduler.WithClock(func() time.Time { return now().In(loc) }),
	), nil
}

// ValidateService rejects ids the catalog does not know, listing the valid ones
func (c *Context) ValidateService(id string) error {
	if _, ok := c.catalog().Lookup(id); ok {
		return nil
	}
	return fmt.Errorf("unknown service %q (valid: %s)", id, strings.Join(c.catalog().IDs(), ", "))
}

// Report prints the outcome of an intent. A failed save is a warning: the change stays applied.
func (c *Context) Report(res scheduler.Result, err error) error {
	var saveErr *scheduler.SaveError
	if err != nil && !errors.As(err, &saveErr) {
		return err
	}

	switch {
	case res.Changed && res.JobID != "":
		fmt.Fprintf(c.Stdout(), "✓ %s (%s)\n", res.Message, res.JobID)
	case res.Changed:
		fmt.Fprintf(c.Stdout(), "✓ %s\n", res.Message)
	default:
		fmt.Fprintf(c.Stdout(), "ℹ %s, nothing changed\n", res.Message)
	}

	if saveErr != nil {
		fmt.Fprintf(c.Stderr(), "Warning: %v\n", saveErr)
	}
	return nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if err := c.Backup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Backup snapshots file-backed stores. PostgreSQL is backed up with the server's own tools.
func (c *Context) Backup() error {
	if _, ok := c.Store.(*postgres.Store); ok {
		logger.Debug("Skipping backup of PostgreSQL store")
		return nil
	}
	_, err := backup.NewManager(c.Store.GetConfigPath()).CreateBackup()
	return err
}
