package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitrack/internal/cli"
	"github.com/julianstephens/habitrack/internal/logger"
	"github.com/julianstephens/habitrack/internal/storage"
	"github.com/julianstephens/habitrack/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing SQLite database before initialization."`
	Source string `help:"SQLite path or PostgreSQL connection string to copy habits from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if m, ok := ctx.Store.(storage.Migrator); ok {
		m.SetMigrationLogger(func(msg string) { ctx.Println(msg) })
	}
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized habitrack storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying habits from: %s\n", c.Source)
		count, err := c.copyHabits(ctx)
		if err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		ctx.Printf("Copied %d habit(s).\n", count)
	}

	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return fmt.Errorf("--force is only supported for SQLite storage")
	}

	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absDB, errDB := filepath.Abs(dbPath)
		absSource, errSource := filepath.Abs(c.Source)
		if errDB == nil && errSource == nil && absDB == absSource {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		logger.Info("Deleted existing database", "path", dbPath)
		ctx.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

// copyHabits appends every habit of the source store to the destination,
// keeping streak state. Ids are reassigned by the destination.
func (c *InitCmd) copyHabits(ctx *cli.Context) (int, error) {
	source, err := cli.OpenStore(c.Source)
	if err != nil {
		return 0, err
	}
	if err := source.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	habits, err := source.GetAllHabits()
	if err != nil {
		return 0, fmt.Errorf("failed to read habits from source: %w", err)
	}

	for _, h := range habits {
		id, err := ctx.Store.AddHabit(h.Name)
		if err != nil {
			return 0, fmt.Errorf("failed to add habit %q: %w", h.Name, err)
		}
		h.ID = id
		if err := ctx.Store.UpdateHabit(h); err != nil {
			return 0, fmt.Errorf("failed to copy streak of habit %q: %w", h.Name, err)
		}
	}
	return len(habits), nil
}
