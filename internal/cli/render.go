package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/catalog"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/projection"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/utils"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	levelStyles = map[projection.Level]lipgloss.Style{
		projection.OnTime: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		projection.AtRisk: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		projection.Over:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

// RenderStatus writes a plain board of the shop: shift, projection, chair, queue and
// parallel services. It only reads its arguments.
func RenderStatus(w io.Writer, c *catalog.Catalog, st models.State, p projection.Projection) {
	label := p.Shift.Label
	if p.Shift.Upcoming {
		label += " (off shift)"
	}
	fmt.Fprintf(w, "%s  %s\n", headingStyle.Render(label), utils.Clock(p.Now))
	fmt.Fprintf(w, "Projected end %s · Shift end %s  [%s]\n",
		utils.Clock(p.ProjectedEnd), utils.Clock(p.Shift.End), levelStyles[p.Level].Render(p.Level.Label()))
	fmt.Fprintln(w, p.StatusText())

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("In the chair"))
	if job := st.Active; job != nil {
		started := "--:--"
		if job.StartedAt != nil {
			started = utils.Clock(*job.StartedAt)
		}
		fmt.Fprintf(w, "  %s · %s · %d min  %s → %s\n", c.Label(job.ServiceID), job.Speed.Label(),
			job.PlannedMinutes, started, utils.Clock(p.ActiveEnd))
	} else {
		fmt.Fprintln(w, mutedStyle.Render("  Free"))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("Queue (%d)", len(st.Queue))))
	if len(st.Queue) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  Nobody waiting"))
	}
	for i, job := range st.Queue {
		line := fmt.Sprintf("  %d. %s (%s, %d min)", i+1, c.Label(job.ServiceID), job.Speed.Label(), job.PlannedMinutes)
		if eta, ok := p.QueueETA(job.ID); ok {
			line += fmt.Sprintf("  %s → %s", utils.Clock(eta.Start), utils.Clock(eta.End))
		}
		fmt.Fprintf(w, "%s  %s\n", line, mutedStyle.Render(job.ID))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("Parallel (%d)", len(st.Parallel))))
	if len(st.Parallel) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  Nothing processing"))
	}
	for i, job := range st.Parallel {
		line := fmt.Sprintf("  %s (%d min)", c.Label(job.ServiceID), job.PlannedMinutes)
		if i < len(p.Parallel) {
			line += fmt.Sprintf("  %s → %s", utils.Clock(p.Parallel[i].Start), utils.Clock(p.Parallel[i].End))
		}
		fmt.Fprintf(w, "%s  %s\n", line, mutedStyle.Render(job.ID))
	}
}
