package system

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/cli"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/storage"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/validation"
)

// ImportCmd loads a JSON store file or an export of the browser app into the current store
type ImportCmd struct {
	File         string `arg:"" help:"JSON file to import." type:"existingfile"`
	WithSettings bool   `help:"Also replace the shop settings with the ones in the file."`
	Yes          bool   `help:"Replace a non-empty shop state without asking." short:"y"`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()

	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}
	doc, err := storage.DecodeDocument(data)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", c.File, err)
	}
	if c.WithSettings {
		if result := validation.New(ctx.Catalog).ValidateSettings(doc.Settings); result.HasConflicts() {
			return fmt.Errorf("settings in %s not imported:\n%s", c.File, result.FormatReport())
		}
	}
	st := doc.State
	if repairs := st.Normalize(uuid.NewString); repairs > 0 {
		fmt.Fprintf(out, "Repaired %d problem(s) in the imported state\n", repairs)
	}

	current, err := ctx.Store.LoadState()
	if err == nil && !current.IsEmpty() && !c.Yes {
		fmt.Fprintln(out, "⚠️  The shop already has clients in the chair, the queue or in parallel.")
		fmt.Fprint(out, "Replace them with the imported state? [y/N]: ")
		response, _ := bufio.NewReader(ctx.Stdin()).ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(out, "Import cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	if c.WithSettings {
		if err := ctx.Store.SaveSettings(doc.Settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}
	if err := ctx.Store.SaveState(st); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	active := 0
	if st.Active != nil {
		active = 1
	}
	fmt.Fprintf(out, "✓ Imported %d in the chair, %d queued, %d parallel\n", active, len(st.Queue), len(st.Parallel))
	return nil
}
