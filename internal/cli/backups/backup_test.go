package backups

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitrack/internal/backup"
	"github.com/julianstephens/habitrack/internal/cli"
	"github.com/julianstephens/habitrack/internal/storage/postgres"
	"github.com/julianstephens/habitrack/internal/storage/sqlite"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habits.db"))
	store.SetMigrationLogger(func(string) {})
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := cli.NewContext(store)
	var out bytes.Buffer
	ctx.Out = &out
	return ctx, &out
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("unexpected output: %q", out.String())
	}

	out.Reset()
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Backup created: habitrack-") {
		t.Errorf("unexpected output: %q", out.String())
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Available backups (1 total") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestBackupRestore(t *testing.T) {
	ctx, out := setupTestContext(t)

	if _, err := ctx.Tracker.Add("Read"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	name := strings.TrimSpace(strings.TrimPrefix(out.String(), "✓ Backup created:"))

	if err := ctx.Tracker.Delete(1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	t.Run("declined", func(t *testing.T) {
		ctx.In = strings.NewReader("n\n")
		out.Reset()
		if err := (&BackupRestoreCmd{BackupFile: name}).Run(ctx); err != nil {
			t.Fatalf("restore failed: %v", err)
		}
		if !strings.Contains(out.String(), "Restore cancelled.") {
			t.Errorf("unexpected output: %q", out.String())
		}
	})

	t.Run("confirmed", func(t *testing.T) {
		ctx.In = strings.NewReader("yes\n")
		out.Reset()
		if err := (&BackupRestoreCmd{BackupFile: name}).Run(ctx); err != nil {
			t.Fatalf("restore failed: %v", err)
		}
		if !strings.Contains(out.String(), "Database restored successfully") {
			t.Errorf("unexpected output: %q", out.String())
		}

		if err := ctx.Store.Load(); err != nil {
			t.Fatalf("reload failed: %v", err)
		}
		h, err := ctx.Tracker.Get(1)
		if err != nil {
			t.Fatalf("habit not restored: %v", err)
		}
		if h.Name != "Read" {
			t.Errorf("restored habit = %+v", h)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if err := (&BackupRestoreCmd{BackupFile: "nope.db", Yes: true}).Run(ctx); err == nil {
			t.Error("expected error for missing backup")
		}
	})
}

func TestBackupUnsupportedForPostgres(t *testing.T) {
	ctx := cli.NewContext(postgres.New("postgres://user@localhost/habits"))
	if err := (&BackupCreateCmd{}).Run(ctx); !errors.Is(err, backup.ErrUnsupported) {
		t.Errorf("error = %v, want ErrUnsupported", err)
	}
}
