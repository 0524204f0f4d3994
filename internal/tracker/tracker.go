// Package tracker drives habit operations against a store, applying the
// streak engine on check-in.
package tracker

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitrack/internal/logger"
	"github.com/julianstephens/habitrack/internal/models"
	"github.com/julianstephens/habitrack/internal/storage"
	"github.com/julianstephens/habitrack/internal/streak"
	"github.com/julianstephens/habitrack/internal/validation"
)

type Tracker struct {
	store storage.Provider
	clock func() time.Time
}

type Option func(*Tracker)

// WithClock overrides the source of today's date
func WithClock(clock func() time.Time) Option {
	return func(t *Tracker) {
		t.clock = clock
	}
}

func New(store storage.Provider, opts ...Option) *Tracker {
	t := &Tracker{
		store: store,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Add registers a new habit with zeroed streaks.
func (t *Tracker) Add(name string) (models.Habit, error) {
	name, err := validation.HabitName(name)
	if err != nil {
		return models.Habit{}, err
	}

	id, err := t.store.AddHabit(name)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to add habit: %w", err)
	}
	logger.Debug("Habit added", "id", id, "name", name)

	return t.store.GetHabit(id)
}

func (t *Tracker) List() ([]models.Habit, error) {
	habits, err := t.store.GetAllHabits()
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	logger.Debug("Habits listed", "count", len(habits))
	return habits, nil
}

func (t *Tracker) Get(id int64) (models.Habit, error) {
	return t.store.GetHabit(id)
}

// CheckIn records a completion for today. Nothing is written when the
// habit was already completed today.
func (t *Tracker) CheckIn(id int64) (models.Habit, streak.Outcome, error) {
	h, err := t.store.GetHabit(id)
	if err != nil {
		return models.Habit{}, streak.Outcome{}, err
	}

	next, out, err := streak.CheckIn(h, t.clock())
	if err != nil {
		logger.Warn("Check-in rejected", "id", id, "error", err)
		return h, streak.Outcome{}, err
	}

	if out.Persist() {
		if err := t.store.UpdateHabit(next); err != nil {
			return h, streak.Outcome{}, fmt.Errorf("failed to save check-in: %w", err)
		}
	}

	logger.Debug("Habit checked in", "id", id, "outcome", out.Kind, "streak", out.Streak, "max_streak", out.MaxStreak)
	return next, out, nil
}

// Delete permanently removes a habit.
func (t *Tracker) Delete(id int64) error {
	if err := t.store.DeleteHabit(id); err != nil {
		return err
	}
	logger.Debug("Habit deleted", "id", id)
	return nil
}
