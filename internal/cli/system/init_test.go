package system

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/catalog"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/storage"
)

func TestInitCmd_Success(t *testing.T) {
	ctx, out := setupUninitialized(t, "test.db")

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if _, err := os.Stat(ctx.Store.GetConfigPath()); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", ctx.Store.GetConfigPath())
	}
	if !strings.Contains(out.String(), "Initialized turnos storage") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _ := setupUninitialized(t, "test.db")

	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("second init failed (should be idempotent): %v", err)
	}
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, _ := setupTestDB(t)

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	settings.MorningStart = "08:00"
	if err := ctx.Store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init with force failed: %v", err)
	}

	if err := ctx.Store.Load(); err != nil {
		t.Fatalf("failed to load store after force: %v", err)
	}
	settings, err = ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings after force: %v", err)
	}
	if settings.MorningStart != "09:30" {
		t.Errorf("expected default MorningStart '09:30', got %q", settings.MorningStart)
	}
}

func TestInitCmd_ForceWithNonExistentDatabase(t *testing.T) {
	ctx, _ := setupUninitialized(t, "test.db")

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init with force on non-existent database failed: %v", err)
	}
	if _, err := os.Stat(ctx.Store.GetConfigPath()); os.IsNotExist(err) {
		t.Errorf("database file was not created")
	}
}

func TestInitCmd_ForceRejectsSameSource(t *testing.T) {
	ctx, _ := setupTestDB(t)

	err := (&InitCmd{Force: true, Source: ctx.Store.GetConfigPath()}).Run(ctx)
	if err == nil {
		t.Fatal("expected error when source and destination are the same")
	}
}

func TestInitCmd_CopiesFromSource(t *testing.T) {
	sourcePath := filepath.Join(t.TempDir(), "browser.json")
	source := storage.NewJSONStore(sourcePath)
	if err := source.Init(); err != nil {
		t.Fatalf("failed to init source: %v", err)
	}
	settings := models.DefaultSettings()
	settings.WarningMinutes = 9
	if err := source.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save source settings: %v", err)
	}
	st := models.NewState()
	st.Queue = []models.Job{{ID: "q1", ServiceID: catalog.Haircut, Speed: models.SpeedFast, PlannedMinutes: 25}}
	if err := source.SaveState(st); err != nil {
		t.Fatalf("failed to save source state: %v", err)
	}

	ctx, out := setupUninitialized(t, "test.db")
	if err := (&InitCmd{Source: sourcePath}).Run(ctx); err != nil {
		t.Fatalf("init with source failed: %v", err)
	}

	got, err := ctx.Store.GetSettings()
	if err != nil || got.WarningMinutes != 9 {
		t.Errorf("settings = %+v (%v), want warning minutes 9", got, err)
	}
	state, err := ctx.Store.LoadState()
	if err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if len(state.Queue) != 1 || state.Queue[0].ID != "q1" {
		t.Errorf("queue = %+v", state.Queue)
	}
	if !strings.Contains(out.String(), "Copied 1 queued and 0 parallel jobs") {
		t.Errorf("unexpected output %q", out.String())
	}
}
