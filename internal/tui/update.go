package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/constants"
	apperrors "github.com/francojjuarez61-dev/Barber-turnos/internal/errors"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/logger"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/scheduler"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		m.refresh()
		return m, tick()
	}

	switch m.state {
	case constants.StatePicking:
		return m.updatePicking(msg)
	case constants.StateConfirmReset:
		return m.updateConfirmReset(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleBoardKey(msg)
	}
	return m, nil
}

func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Start):
		return m, m.openPicker(PickStart)
	case key.Matches(msg, m.keys.Add):
		return m, m.openPicker(PickQueue)
	case key.Matches(msg, m.keys.Next):
		m.apply(m.shop.StartNext())
	case key.Matches(msg, m.keys.Finish):
		m.apply(m.shop.FinishActive())
	case key.Matches(msg, m.keys.FinishPar):
		if id, ok := m.selectedParallel(); ok {
			m.apply(m.shop.FinishParallel(id))
		} else {
			m.setFlash("No parallel service selected", true)
		}
	case key.Matches(msg, m.keys.Remove):
		if id, ok := m.selectedQueued(); ok {
			m.apply(m.shop.RemoveQueued(id))
		} else {
			m.setFlash(scheduler.MsgQueueEmpty, true)
		}
	case key.Matches(msg, m.keys.MoveUp):
		if id, ok := m.selectedQueued(); ok {
			m.apply(m.shop.MoveQueuedUp(id))
			m.followQueued(id)
		}
	case key.Matches(msg, m.keys.MoveDown):
		if id, ok := m.selectedQueued(); ok {
			m.apply(m.shop.MoveQueuedDown(id))
			m.followQueued(id)
		}
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Tab):
		if m.focus == FocusQueue {
			m.focus = FocusParallel
		} else {
			m.focus = FocusQueue
		}
	case key.Matches(msg, m.keys.Reset):
		m.state = constants.StateConfirmReset
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if m.focus == FocusParallel {
		m.parallelCur = clamp(m.parallelCur+delta, len(m.snapshot.Parallel))
		return
	}
	m.queueCur = clamp(m.queueCur+delta, len(m.snapshot.Queue))
}

// followQueued keeps the cursor on a job after it was moved
func (m *Model) followQueued(id string) {
	if i := m.snapshot.QueueIndex(id); i >= 0 {
		m.queueCur = i
	}
}

func (m *Model) openPicker(mode PickMode) tea.Cmd {
	m.picker = &PickerFormModel{Mode: mode, Speed: models.SpeedNormal}
	m.form = newPickerForm(m.shop.Catalog(), m.picker)
	m.state = constants.StatePicking
	return m.form.Init()
}

func (m Model) updatePicking(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.closePicker()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.completePick()
		m.closePicker()
	case huh.StateAborted:
		m.closePicker()
	}
	return m, cmd
}

// completePick sends the picked service to the scheduler
func (m *Model) completePick() {
	if m.picker == nil || m.picker.Service == "" {
		return
	}
	if m.picker.Mode == PickQueue {
		m.apply(m.shop.EnqueueSequential(m.picker.Service, m.picker.Speed))
		return
	}
	m.apply(m.shop.StartSequential(m.picker.Service, m.picker.Speed))
}

func (m *Model) closePicker() {
	m.form = nil
	m.picker = nil
	m.state = constants.StateBoard
}

func (m Model) updateConfirmReset(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y", "Y":
			warning := ""
			if m.beforeReset != nil {
				if err := m.beforeReset(); err != nil {
					logger.Warn("Backup before reset failed", "error", err)
					warning = apperrors.Warning(err)
				}
			}
			m.apply(m.shop.ResetAll())
			if warning != "" {
				m.setFlash(m.flash.text+" ("+warning+")", true)
			}
			m.state = constants.StateBoard
		case "n", "N", "esc":
			m.state = constants.StateBoard
		}
	}
	return m, nil
}

// apply refreshes the board after an intent and flashes its outcome. A change that was not
// saved stays on screen with a warning.
func (m *Model) apply(res scheduler.Result, err error) {
	m.refresh()
	var saveErr *scheduler.SaveError
	switch {
	case errors.As(err, &saveErr):
		m.setFlash(res.Message+" ("+apperrors.Warning(saveErr)+")", true)
	case err != nil:
		m.setFlash(apperrors.Format(err), true)
	default:
		m.setFlash(res.Message, !res.Changed)
	}
}
