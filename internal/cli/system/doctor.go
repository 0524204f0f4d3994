package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitrack/internal/backup"
	"github.com/julianstephens/habitrack/internal/cli"
	"github.com/julianstephens/habitrack/internal/storage"
	"github.com/julianstephens/habitrack/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name        string
	needsDB     bool // skipped when the database is not reachable
	needsSchema bool // skipped while the schema is not up to date
	schema      bool // a failure leaves the habits table unusable
	warning     bool
	run         func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, schema: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, schema: true, run: checkMigrationsComplete},
	{name: "Backups present", warning: true, run: checkBackupsPresent},
	{name: "Data validation", needsDB: true, needsSchema: true, run: checkValidation},
	{name: "Duplicate names", needsDB: true, needsSchema: true, warning: true, run: checkDuplicateNames},
	{name: "Clock/timezone", run: func(ctx *cli.Context) error { return checkClock(ctx.Now()) }},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	schemaReady := true

	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		if c.needsSchema && !schemaReady {
			ctx.Printf("⊘ %s: SKIPPED (schema not up to date)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warning:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if c.schema {
				schemaReady = false
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		if errors.Is(err, storage.ErrSchemaBehind) {
			// reported by the migrations check
			return nil
		}
		return fmt.Errorf("failed to load database: %w", err)
	}
	return nil
}

func versions(ctx *cli.Context) (current, latest int, err error) {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return 0, 0, fmt.Errorf("storage backend does not support migrations")
	}
	runner, err := m.Runner()
	if err != nil {
		return 0, 0, err
	}
	current, err = runner.GetCurrentVersion()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err = runner.GetLatestVersion()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get latest schema version: %w", err)
	}
	return current, latest, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := versions(ctx)
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, err := versions(ctx)
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'habitrack migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if errors.Is(err, backup.ErrUnsupported) {
		return fmt.Errorf("backups are managed outside habitrack for this database")
	}
	if err != nil {
		return err
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habitrack backup create'")
	}
	return nil
}

func validate(ctx *cli.Context) (validation.ValidationResult, error) {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to get habits: %w", err)
	}
	return validation.NewWithClock(ctx.Now).ValidateHabits(habits), nil
}

func checkValidation(ctx *cli.Context) error {
	result, err := validate(ctx)
	if err != nil {
		return err
	}
	if v := result.Violations(); v.HasConflicts() {
		return fmt.Errorf("%d conflict(s) found\n%s", len(v.Conflicts), v.FormatReport())
	}
	return nil
}

// checkDuplicateNames only warns, names are not required to be unique
func checkDuplicateNames(ctx *cli.Context) error {
	result, err := validate(ctx)
	if err != nil {
		return err
	}
	if a := result.Advisories(); a.HasConflicts() {
		return fmt.Errorf("%d habit name(s) used more than once\n%s", len(a.Conflicts), a.FormatReport())
	}
	return nil
}

func checkClock(now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
