package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitrack/internal/constants"
	"github.com/julianstephens/habitrack/internal/models"
	"github.com/julianstephens/habitrack/internal/storage"
)

const habitColumns = "id, name, last_completed, streak, max_streak"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var lastCompleted sql.NullString

	if err := row.Scan(&h.ID, &h.Name, &lastCompleted, &h.Streak, &h.MaxStreak); err != nil {
		return models.Habit{}, err
	}

	if lastCompleted.Valid && lastCompleted.String != "" {
		t, err := time.ParseInLocation(constants.DateFormat, lastCompleted.String, time.Local)
		if err != nil {
			return models.Habit{}, fmt.Errorf("failed to parse last_completed for habit %d: %w", h.ID, err)
		}
		h.LastCompleted = &t
	}

	return h, nil
}

func formatDay(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(constants.DateFormat), Valid: true}
}

func (s *Store) AddHabit(name string) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO habits (name, last_completed, streak, max_streak)
		VALUES (?, NULL, 0, 0)`, name)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Store) GetHabit(id int64) (models.Habit, error) {
	row := s.db.QueryRow("SELECT "+habitColumns+" FROM habits WHERE id = ?", id)

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
	result, err := s.db.Exec(`
		UPDATE habits SET last_completed = ?, streak = ?, max_streak = ?
		WHERE id = ?`,
		formatDay(habit.LastCompleted), habit.Streak, habit.MaxStreak, habit.ID)
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
	result, err := s.db.Exec("DELETE FROM habits WHERE id = ?", id)
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
