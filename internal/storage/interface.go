package storage

import (
	"errors"

	apperrors "github.com/julianstephens/habitrack/internal/errors"
	"github.com/julianstephens/habitrack/internal/migration"
	"github.com/julianstephens/habitrack/internal/models"
)

// ErrNotFound is returned (wrapped) when a habit id does not exist
var ErrNotFound = apperrors.ErrNotFound

// ErrSchemaBehind is returned by Load when migrations are pending
var ErrSchemaBehind = errors.New("database schema is behind")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	AddHabit(name string) (int64, error)
	GetHabit(id int64) (models.Habit, error)
	// GetAllHabits returns every habit ordered by id ascending.
	GetAllHabits() ([]models.Habit, error)
	// UpdateHabit writes last_completed, streak and max_streak of the
	// given habit in a single statement. The name is not touched.
	UpdateHabit(models.Habit) error
	DeleteHabit(id int64) error

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by providers backed by a versioned SQL schema
type Migrator interface {
	// Migrate applies pending migrations to an existing database
	Migrate() error
	// Runner exposes the migration runner of an open database
	Runner() (*migration.Runner, error)
	SetMigrationLogger(func(string))
}
