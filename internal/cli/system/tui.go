package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/cli"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	// Backup on startup, after the store loaded successfully
	ctx.PerformAutomaticBackup()

	sched, err := ctx.OpenScheduler()
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(sched, tui.WithBeforeReset(ctx.Backup)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("board exited: %w", err)
	}
	return nil
}
