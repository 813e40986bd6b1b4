// Package tui is the terminal board the barber keeps open during the shift.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/catalog"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/constants"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/projection"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/scheduler"
)

// Shop is what the board needs from the scheduler
type Shop interface {
	Catalog() *catalog.Catalog
	Read() (models.State, projection.Projection)
	StartSequential(serviceID string, speed models.Speed) (scheduler.Result, error)
	EnqueueSequential(serviceID string, speed models.Speed) (scheduler.Result, error)
	StartParallel(serviceID string) (scheduler.Result, error)
	FinishActive() (scheduler.Result, error)
	StartNext() (scheduler.Result, error)
	FinishParallel(id string) (scheduler.Result, error)
	RemoveQueued(id string) (scheduler.Result, error)
	MoveQueuedUp(id string) (scheduler.Result, error)
	MoveQueuedDown(id string) (scheduler.Result, error)
	ResetAll() (scheduler.Result, error)
}

// Focus is the list the cursor moves in
type Focus int

const (
	FocusQueue Focus = iota
	FocusParallel
)

// PickMode decides what the picker does with the chosen service
type PickMode int

const (
	PickStart PickMode = iota
	PickQueue
)

// PickerFormModel backs the service and speed picker
type PickerFormModel struct {
	Mode    PickMode
	Service string
	Speed   models.Speed
}

type flash struct {
	text    string
	warning bool
	until   time.Time
}

// Model is the bubbletea model of the board
type Model struct {
	shop        Shop
	beforeReset func() error
	state       constants.SessionState
	keys        KeyMap
	help        help.Model
	form        *huh.Form
	picker      *PickerFormModel
	snapshot    models.State
	proj        projection.Projection
	focus       Focus
	queueCur    int
	parallelCur int
	flash       flash
	quitting    bool
	width       int
	height      int
}

// Option configures a Model
type Option func(*Model)

// WithBeforeReset runs fn after the reset is confirmed and before the state is cleared.
// A failure is shown as a warning and does not stop the reset.
func WithBeforeReset(fn func() error) Option {
	return func(m *Model) { m.beforeReset = fn }
}

func NewModel(shop Shop, opts ...Option) Model {
	m := Model{
		shop:  shop,
		state: constants.StateBoard,
		keys:  DefaultKeyMap(),
		help:  help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refresh()
	return m
}

// TickMsg redraws the board once a second
type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(constants.DefaultTickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) ShortHelp() []key.Binding {
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

// refresh takes a fresh snapshot and projection and keeps the cursors in range
func (m *Model) refresh() {
	m.snapshot, m.proj = m.shop.Read()
	m.queueCur = clamp(m.queueCur, len(m.snapshot.Queue))
	m.parallelCur = clamp(m.parallelCur, len(m.snapshot.Parallel))
	if !m.flash.until.IsZero() && !m.proj.Now.Before(m.flash.until) {
		m.flash = flash{}
	}
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (m *Model) setFlash(text string, warning bool) {
	m.flash = flash{text: text, warning: warning, until: m.proj.Now.Add(constants.FlashDuration)}
}

// selectedQueued returns the id under the queue cursor
func (m Model) selectedQueued() (string, bool) {
	if len(m.snapshot.Queue) == 0 {
		return "", false
	}
	return m.snapshot.Queue[m.queueCur].ID, true
}

// selectedParallel returns the id under the parallel cursor
func (m Model) selectedParallel() (string, bool) {
	if len(m.snapshot.Parallel) == 0 {
		return "", false
	}
	return m.snapshot.Parallel[m.parallelCur].ID, true
}
