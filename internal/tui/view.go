package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/constants"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StatePicking:
		content = m.form.View()
	case constants.StateConfirmReset:
		content = m.viewConfirmReset()
	default:
		content = m.viewBoard()
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		m.viewFlash(),
		m.help.View(m),
	))
}

func (m Model) viewBoard() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		m.viewActive(),
		m.viewQueue(),
		m.viewParallel(),
	)
}

func (m Model) viewHeader() string {
	p := m.proj
	label := p.Shift.Label
	if p.Shift.Upcoming {
		label += " (off shift)"
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render(label),
		"  ",
		clockStyle.Render(utils.Clock(p.Now)),
	)
	ends := fmt.Sprintf("Projected end %s · Shift end %s  ",
		utils.Clock(p.ProjectedEnd), utils.Clock(p.Shift.End))

	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		ends+chip(p.Level),
		mutedStyle.Render(p.StatusText()),
	)
}

func (m Model) viewActive() string {
	c := m.shop.Catalog()
	title := sectionStyle.Render("In the chair")
	job := m.snapshot.Active
	if job == nil {
		return lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("Free"))
	}

	started := ""
	if job.StartedAt != nil {
		started = utils.Clock(*job.StartedAt)
	}
	card := activeCardStyle.Render(fmt.Sprintf("%s · %s · %d min",
		c.Label(job.ServiceID), job.Speed.Label(), job.PlannedMinutes))
	times := mutedStyle.Render(fmt.Sprintf("started %s → ends %s", started, utils.Clock(m.proj.ActiveEnd)))
	return lipgloss.JoinVertical(lipgloss.Left, title, card, times)
}

func (m Model) viewQueue() string {
	c := m.shop.Catalog()
	var b strings.Builder
	b.WriteString(sectionStyle.Render(fmt.Sprintf("Queue (%d)", len(m.snapshot.Queue))))
	if len(m.snapshot.Queue) == 0 {
		b.WriteString("\n" + mutedStyle.Render("Nobody waiting"))
		return b.String()
	}
	for i, job := range m.snapshot.Queue {
		line := fmt.Sprintf("%d. %s (%s, %d min)", i+1, c.Label(job.ServiceID), job.Speed.Label(), job.PlannedMinutes)
		if eta, ok := m.proj.QueueETA(job.ID); ok {
			line += fmt.Sprintf("  %s → %s", utils.Clock(eta.Start), utils.Clock(eta.End))
		}
		b.WriteString("\n" + m.row(line, m.focus == FocusQueue && i == m.queueCur))
	}
	return b.String()
}

func (m Model) viewParallel() string {
	c := m.shop.Catalog()
	var b strings.Builder
	b.WriteString(sectionStyle.Render(fmt.Sprintf("Parallel (%d)", len(m.snapshot.Parallel))))
	if len(m.snapshot.Parallel) == 0 {
		b.WriteString("\n" + mutedStyle.Render("Nothing processing"))
		return b.String()
	}
	for i, job := range m.snapshot.Parallel {
		line := fmt.Sprintf("%s (%d min)", c.Label(job.ServiceID), job.PlannedMinutes)
		if i < len(m.proj.Parallel) {
			eta := m.proj.Parallel[i]
			line += fmt.Sprintf("  %s → %s", utils.Clock(eta.Start), utils.Clock(eta.End))
		}
		b.WriteString("\n" + m.row(line, m.focus == FocusParallel && i == m.parallelCur))
	}
	return b.String()
}

func (m Model) row(line string, selected bool) string {
	if selected {
		return selectedStyle.Render("> " + line)
	}
	return "  " + line
}

func (m Model) viewFlash() string {
	if m.flash.text == "" {
		return ""
	}
	if m.flash.warning {
		return "\n" + warningStyle.Render(m.flash.text)
	}
	return "\n" + infoStyle.Render(m.flash.text)
}

func (m Model) viewConfirmReset() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		dangerStyle.Render("Clear the chair, the queue and every parallel service?"),
		"",
		"[y] Yes",
		"[n] No",
	)
}
