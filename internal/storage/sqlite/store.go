package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitrack/internal/logger"
	"github.com/julianstephens/habitrack/internal/migration"
	"github.com/julianstephens/habitrack/internal/storage"
	"github.com/julianstephens/habitrack/migrations"
)

var (
	_ storage.Provider = (*Store)(nil)
	_ storage.Migrator = (*Store)(nil)
)

type Store struct {
	path string
	db   *sql.DB
	// logFn receives migration progress, stdout when nil
	logFn func(string)
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

// SetMigrationLogger redirects migration progress messages
func (s *Store) SetMigrationLogger(fn func(string)) {
	s.logFn = fn
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if s.db == nil {
		db, err := s.open()
		if err != nil {
			return err
		}
		s.db = db
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'habitrack init' first")
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	s.db = db

	if err := s.validateSchemaVersion(); err != nil {
		return err
	}

	return nil
}

func (s *Store) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// single writer, a single connection keeps pragmas and transactions on one handle
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}
	return db, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// tableExists checks if a table exists in the SQLite database.
// The check is case-insensitive to match SQLite's behavior.
func (s *Store) tableExists(tableName string) (bool, error) {
	var count int
	row := s.db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name COLLATE NOCASE = ?", tableName)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) columnExists(tableName, column string) (bool, error) {
	var count int
	row := s.db.QueryRow("SELECT count(*) FROM pragma_table_info(?) WHERE name = ?", tableName, column)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.DriverSQLite), nil
}

// legacyVersion inspects a database written before schema versioning and
// returns the migration version its habits table corresponds to, or 0.
func (s *Store) legacyVersion() (int, error) {
	exists, err := s.tableExists("habits")
	if err != nil || !exists {
		return 0, err
	}
	hasMax, err := s.columnExists("habits", "max_streak")
	if err != nil {
		return 0, err
	}
	if hasMax {
		return 2, nil
	}
	return 1, nil
}

func (s *Store) runMigrations() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}

	// reading the version creates schema_version, so look for it first
	hasVersionTable, err := runner.HasSchemaVersionTable()
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	current := 0
	if hasVersionTable {
		if current, err = runner.GetCurrentVersion(); err != nil {
			return fmt.Errorf("failed to inspect schema: %w", err)
		}
	}
	if current == 0 {
		version, err := s.legacyVersion()
		if err != nil {
			return fmt.Errorf("failed to inspect legacy schema: %w", err)
		}
		if version > 0 {
			logger.Info("Adopting unversioned habits database", "path", s.path, "version", version)
			if err := runner.Baseline(version); err != nil {
				return err
			}
		}
	}

	logFn := s.logFn
	if logFn == nil {
		logFn = func(msg string) { fmt.Println(msg) }
	}
	_, err = runner.ApplyMigrations(logFn)
	return err
}

func (s *Store) validateSchemaVersion() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	if err := runner.ValidateVersion(); err != nil {
		return err
	}

	pending, err := runner.PendingCount()
	if err != nil {
		return err
	}
	if pending > 0 {
		return fmt.Errorf("%w by %d migration(s), run 'habitrack migrate'", storage.ErrSchemaBehind, pending)
	}
	return nil
}

// Runner returns a migration runner bound to the open database
func (s *Store) Runner() (*migration.Runner, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database is not open")
	}
	return s.runner()
}

// Migrate opens the database if needed and applies pending migrations,
// adopting a legacy unversioned database on the way.
func (s *Store) Migrate() error {
	if s.db == nil {
		if _, err := os.Stat(s.path); os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'habitrack init' first")
		}
		db, err := s.open()
		if err != nil {
			return err
		}
		s.db = db
	}
	return s.runMigrations()
}

func (s *Store) GetConfigPath() string {
	return s.path
}
