package system

import (
	"fmt"

	"github.com/julianstephens/habitrack/internal/cli"
	"github.com/julianstephens/habitrack/internal/storage"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return fmt.Errorf("storage backend does not support migrations")
	}

	m.SetMigrationLogger(func(msg string) { ctx.Println(msg) })

	if err := m.Migrate(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	runner, err := m.Runner()
	if err != nil {
		return err
	}
	version, err := runner.GetCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	ctx.Printf("Schema version: %d\n", version)
	return nil
}
