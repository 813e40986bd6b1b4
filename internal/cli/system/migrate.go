package system

import (
	"fmt"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/cli"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/storage"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()

	migrator, ok := ctx.Store.(storage.SchemaProvider)
	if !ok {
		// The JSON store upgrades old documents on load; saving writes the current version.
		if err := ctx.Store.Load(); err != nil {
			return fmt.Errorf("failed to load store: %w", err)
		}
		settings, err := ctx.Store.GetSettings()
		if err != nil {
			return err
		}
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to rewrite store: %w", err)
		}
		fmt.Fprintln(out, "JSON store rewritten in the current format.")
		return nil
	}

	count, err := migrator.Migrate(func(msg string) {
		fmt.Fprintln(out, msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Fprintln(out, "No migrations to apply. Database is up to date.")
	} else {
		fmt.Fprintf(out, "\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
