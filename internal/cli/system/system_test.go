package system

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/cli"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/storage/sqlite"
)

// setupTestDB returns a context on an initialized SQLite store whose output goes to a buffer
func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	ctx, out := setupUninitialized(t, "test.db")
	if err := ctx.Store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	out.Reset()
	return ctx, out
}

func setupUninitialized(t *testing.T, name string) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store, err := cli.OpenStore(filepath.Join(t.TempDir(), name))
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out, Err: out}, out
}

func sqliteStore(t *testing.T, ctx *cli.Context) *sqlite.Store {
	t.Helper()
	s, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		t.Fatalf("store is %T, want *sqlite.Store", ctx.Store)
	}
	return s
}
