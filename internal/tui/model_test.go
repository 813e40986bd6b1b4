package tui

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/constants"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/scheduler"
)

var art = time.FixedZone("ART", -3*60*60)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

type failingSaver struct{}

func (failingSaver) SaveState(models.State) error { return errors.New("disk full") }

func newTestShop(t *testing.T, clock *testClock, saver scheduler.Saver) *scheduler.Scheduler {
	t.Helper()
	n := 0
	return scheduler.New(saver,
		scheduler.WithClock(clock.Now),
		scheduler.WithIDGenerator(func() string { n++; return "job-" + strconv.Itoa(n) }),
	)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		if m, ok = next.(Model); !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

func queueIDs(m Model) string {
	ids := make([]string, 0, len(m.snapshot.Queue))
	for _, j := range m.snapshot.Queue {
		ids = append(ids, j.ID)
	}
	return strings.Join(ids, ",")
}

func TestView_Board(t *testing.T) {
	clock := &testClock{now: time.Date(2026, time.March, 10, 9, 0, 0, 0, art)}
	shop := newTestShop(t, clock, nil)
	if _, err := shop.StartSequential("haircut", models.SpeedNormal); err != nil {
		t.Fatal(err)
	}
	if _, err := shop.EnqueueSequential("haircut_beard", models.SpeedSlow); err != nil {
		t.Fatal(err)
	}
	if _, err := shop.StartParallel("color"); err != nil {
		t.Fatal(err)
	}

	view := NewModel(shop).View()
	for _, want := range []string{
		"Morning 09:30-13:00 (off shift)",
		"09:00",
		"On time",
		"Everything fits inside the shift.",
		"Haircut · Normal · 30 min",
		"1. Haircut + Beard (Slow, 55 min)  10:00 → 10:55",
		"Color (170 min)  09:00 → 11:50",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestView_EmptyBoard(t *testing.T) {
	clock := &testClock{now: time.Date(2026, time.March, 10, 18, 0, 0, 0, art)}
	view := NewModel(newTestShop(t, clock, nil)).View()
	for _, want := range []string{"Afternoon 17:30-22:00", "Free", "Nobody waiting", "Nothing processing"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "(off shift)") {
		t.Error("18:00 is inside the afternoon shift")
	}
}

func TestFinishDoesNotPromote(t *testing.T) {
	clock := &testClock{now: time.Date(2026, time.March, 10, 10, 0, 0, 0, art)}
	shop := newTestShop(t, clock, nil)
	shop.StartSequential("haircut", models.SpeedNormal)
	shop.StartSequential("haircut", models.SpeedFast)

	m := press(t, NewModel(shop), runes("f"))
	if m.snapshot.Active != nil {
		t.Fatalf("chair should be free after finish, got %+v", m.snapshot.Active)
	}
	if m.flash.text != scheduler.MsgFinished || m.flash.warning {
		t.Errorf("flash = %+v", m.flash)
	}

	m = press(t, m, runes("n"))
	if m.snapshot.Active == nil || m.snapshot.Active.ID != "job-2" {
		t.Fatalf("next should start job-2, got %+v", m.snapshot.Active)
	}

	m = press(t, m, runes("n"))
	if m.flash.text != scheduler.MsgChairBusy || !m.flash.warning {
		t.Errorf("no-op should flash a warning, got %+v", m.flash)
	}
}

func TestQueueKeys(t *testing.T) {
	clock := &testClock{now: time.Date(2026, time.March, 10, 10, 0, 0, 0, art)}
	shop := newTestShop(t, clock, nil)
	for i := 0; i < 3; i++ {
		shop.EnqueueSequential("haircut", models.SpeedNormal)
	}
	m := NewModel(shop)

	m = press(t, m, runes("j"), runes("j"), runes("K"))
	if got := queueIDs(m); got != "job-1,job-3,job-2" {
		t.Fatalf("queue = %s", got)
	}
	if m.queueCur != 1 {
		t.Errorf("cursor should follow the moved job, got %d", m.queueCur)
	}

	m = press(t, m, runes("J"))
	if got := queueIDs(m); got != "job-1,job-2,job-3" {
		t.Fatalf("queue = %s", got)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, runes("J"))
	if m.flash.text != scheduler.MsgAtEdge {
		t.Errorf("tail down should be a no-op, flash = %+v", m.flash)
	}

	m = press(t, m, runes("d"))
	if got := queueIDs(m); got != "job-1,job-2" {
		t.Fatalf("queue after remove = %s", got)
	}
	if m.queueCur != 1 {
		t.Errorf("cursor should be clamped to the last job, got %d", m.queueCur)
	}

	m = press(t, m, runes("d"), runes("d"), runes("d"))
	if m.flash.text != scheduler.MsgQueueEmpty {
		t.Errorf("flash = %+v", m.flash)
	}
}

func TestParallelFocus(t *testing.T) {
	clock := &testClock{now: time.Date(2026, time.March, 10, 10, 0, 0, 0, art)}
	shop := newTestShop(t, clock, nil)

	m := press(t, NewModel(shop), runes("x"))
	if m.flash.text != "No parallel service selected" {
		t.Fatalf("flash = %+v", m.flash)
	}

	shop.StartParallel("color")
	shop.StartParallel("perm")
	m = press(t, m, TickMsg(clock.now), tea.KeyMsg{Type: tea.KeyTab}, runes("j"), runes("x"))
	if len(m.snapshot.Parallel) != 1 || m.snapshot.Parallel[0].ID != "job-1" {
		t.Fatalf("parallel = %+v", m.snapshot.Parallel)
	}
	if m.flash.text != scheduler.MsgParallelFinished {
		t.Errorf("flash = %+v", m.flash)
	}
	if m.parallelCur != 0 {
		t.Errorf("cursor should be clamped after finish, got %d", m.parallelCur)
	}
}

func TestPicker(t *testing.T) {
	clock := &testClock{now: time.Date(2026, time.March, 10, 10, 0, 0, 0, art)}
	shop := newTestShop(t, clock, nil)

	m := press(t, NewModel(shop), runes("s"))
	if m.state != constants.StatePicking || m.form == nil || m.picker.Mode != PickStart {
		t.Fatalf("s should open the start picker, state = %v", m.state)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != constants.StateBoard || m.form != nil {
		t.Fatalf("esc should close the picker, state = %v", m.state)
	}

	m = press(t, m, runes("a"))
	if m.picker.Mode != PickQueue {
		t.Fatalf("a should open the queue picker")
	}
	m.picker.Service = "haircut_sealing"
	m.picker.Speed = models.SpeedSlow
	m.completePick()
	m.closePicker()
	if len(m.snapshot.Queue) != 1 || m.snapshot.Queue[0].PlannedMinutes != 70 {
		t.Fatalf("queue = %+v", m.snapshot.Queue)
	}
	if m.snapshot.Active != nil {
		t.Error("add to queue must not take the chair")
	}

	m = press(t, m, runes("s"))
	m.picker.Service = "perm"
	m.completePick()
	if len(m.snapshot.Parallel) != 1 || m.flash.text != scheduler.MsgParallelStarted {
		t.Fatalf("parallel service should start in parallel, flash = %+v", m.flash)
	}
}

func TestResetConfirmation(t *testing.T) {
	clock := &testClock{now: time.Date(2026, time.March, 10, 10, 0, 0, 0, art)}
	shop := newTestShop(t, clock, nil)
	shop.StartSequential("haircut", models.SpeedNormal)
	shop.StartParallel("color")

	backups := 0
	m := NewModel(shop, WithBeforeReset(func() error { backups++; return nil }))

	m = press(t, m, runes("R"))
	if m.state != constants.StateConfirmReset {
		t.Fatalf("R should ask for confirmation")
	}
	if !strings.Contains(m.View(), "[y] Yes") {
		t.Error("confirmation prompt not rendered")
	}
	m = press(t, m, runes("n"))
	if m.state != constants.StateBoard || m.snapshot.IsEmpty() {
		t.Fatal("n should cancel the reset")
	}

	m = press(t, m, runes("R"), runes("y"))
	if !m.snapshot.IsEmpty() {
		t.Fatalf("state should be empty after reset: %+v", m.snapshot)
	}
	if backups != 1 {
		t.Errorf("backups = %d, want 1", backups)
	}
	if m.flash.text != scheduler.MsgReset {
		t.Errorf("flash = %+v", m.flash)
	}
}

func TestResetBackupFailureStillResets(t *testing.T) {
	clock := &testClock{now: time.Date(2026, time.March, 10, 10, 0, 0, 0, art)}
	shop := newTestShop(t, clock, nil)
	shop.StartSequential("haircut", models.SpeedNormal)

	m := NewModel(shop, WithBeforeReset(func() error { return errors.New("no space") }))
	m = press(t, m, runes("R"), runes("y"))
	if !m.snapshot.IsEmpty() {
		t.Fatal("reset should go ahead")
	}
	if !m.flash.warning || !strings.Contains(m.flash.text, "no space") {
		t.Errorf("flash = %+v", m.flash)
	}
}

func TestSaveFailureFlash(t *testing.T) {
	clock := &testClock{now: time.Date(2026, time.March, 10, 10, 0, 0, 0, art)}
	shop := newTestShop(t, clock, failingSaver{})
	shop.StartSequential("haircut", models.SpeedNormal)

	m := press(t, NewModel(shop), runes("f"))
	if m.snapshot.Active != nil {
		t.Fatal("change should be applied even when saving fails")
	}
	if !m.flash.warning || !strings.Contains(m.flash.text, "Warning: finish applied but not saved") {
		t.Errorf("flash = %+v", m.flash)
	}
}

func TestTickRefreshesAndExpiresFlash(t *testing.T) {
	clock := &testClock{now: time.Date(2026, time.March, 10, 12, 50, 0, 0, art)}
	shop := newTestShop(t, clock, nil)
	shop.StartSequential("haircut_sealing", models.SpeedNormal)

	m := press(t, NewModel(shop), runes("n"))
	if m.flash.text == "" {
		t.Fatal("expected a flash")
	}
	if m.proj.Level != "over" {
		t.Fatalf("12:50 + 60 min should be over, got %s", m.proj.Level)
	}

	clock.now = clock.now.Add(constants.FlashDuration + time.Second)
	next, cmd := m.Update(TickMsg(clock.now))
	m = next.(Model)
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if !m.proj.Now.Equal(clock.now) {
		t.Errorf("projection not refreshed: %v", m.proj.Now)
	}
	if m.flash.text != "" {
		t.Errorf("flash should have expired: %+v", m.flash)
	}
}

func TestHelpAndQuit(t *testing.T) {
	clock := &testClock{now: time.Date(2026, time.March, 10, 10, 0, 0, 0, art)}
	m := press(t, NewModel(newTestShop(t, clock, nil)), runes("?"))
	if !m.help.ShowAll {
		t.Fatal("? should expand the help")
	}
	if !strings.Contains(m.View(), "finish parallel") {
		t.Error("full help should list every binding")
	}

	next, cmd := m.Update(runes("q"))
	m = next.(Model)
	if cmd == nil || !m.quitting {
		t.Fatal("q should quit")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}
