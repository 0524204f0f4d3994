package system

import (
	"bytes"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitrack/internal/cli"
	"github.com/julianstephens/habitrack/internal/storage/sqlite"
	"github.com/julianstephens/habitrack/internal/tracker"
)

// newContext returns a context over an uninitialized SQLite store in a temp dir
func newContext(t *testing.T, today time.Time) (*cli.Context, *sqlite.Store, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habits.db"))
	store.SetMigrationLogger(func(string) {})
	t.Cleanup(func() { store.Close() })

	ctx := cli.NewContext(store, tracker.WithClock(func() time.Time { return today }))
	var out bytes.Buffer
	ctx.Out = &out
	return ctx, store, &out
}

func setupTestDB(t *testing.T) (*cli.Context, *sqlite.Store, *bytes.Buffer) {
	t.Helper()
	ctx, store, out := newContext(t, time.Now())
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	return ctx, store, out
}

// execSQL runs query against the database file behind a closed store
func execSQL(t *testing.T, path, query string) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer db.Close()
	if _, err := db.Exec(query); err != nil {
		t.Fatalf("%q failed: %v", query, err)
	}
}
