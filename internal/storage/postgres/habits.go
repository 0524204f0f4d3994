package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitrack/internal/models"
	"github.com/julianstephens/habitrack/internal/storage"
)

const habitColumns = "id, name, last_completed, streak, max_streak"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var lastCompleted sql.NullTime

	if err := row.Scan(&h.ID, &h.Name, &lastCompleted, &h.Streak, &h.MaxStreak); err != nil {
		return models.Habit{}, err
	}

	if lastCompleted.Valid {
		// DATE columns come back as UTC midnight, keep the calendar date in local time
		y, m, d := lastCompleted.Time.Date()
		t := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
		h.LastCompleted = &t
	}

	return h, nil
}

func (s *Store) AddHabit(name string) (int64, error) {
	var id int64
	err := s.db.QueryRow(`
		INSERT INTO habits (name, last_completed, streak, max_streak)
		VALUES ($1, NULL, 0, 0)
		RETURNING id`, name).Scan(&id)
	return id, err
}

func (s *Store) GetHabit(id int64) (models.Habit, error) {
	row := s.db.QueryRow("SELECT "+habitColumns+" FROM habits WHERE id = $1", id)

	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %d: %w", id, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	rows, err := s.db.Query("SELECT " + habitColumns + " FROM habits ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}

	return habits, rows.Err()
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	var lastCompleted sql.NullString
	if habit.LastCompleted != nil {
		lastCompleted = sql.NullString{String: habit.LastCompletedString(), Valid: true}
	}

	result, err := s.db.Exec(`
		UPDATE habits SET last_completed = $1::date, streak = $2, max_streak = $3
		WHERE id = $4`,
		lastCompleted, habit.Streak, habit.MaxStreak, habit.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("habit %d: %w", habit.ID, storage.ErrNotFound)
	}

	return nil
}

func (s *Store) DeleteHabit(id int64) error {
	result, err := s.db.Exec("DELETE FROM habits WHERE id = $1", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("habit %d: %w", id, storage.ErrNotFound)
	}

	return nil
}
