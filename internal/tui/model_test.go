package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitrack/internal/constants"
	apperrors "github.com/julianstephens/habitrack/internal/errors"
	"github.com/julianstephens/habitrack/internal/models"
	"github.com/julianstephens/habitrack/internal/streak"
)

type fakeService struct {
	habits    []models.Habit
	today     time.Time
	listErr   error
	deleteErr error
}

func (f *fakeService) Add(name string) (models.Habit, error) {
	h := models.Habit{ID: int64(len(f.habits) + 1), Name: name}
	f.habits = append(f.habits, h)
	return h, nil
}

func (f *fakeService) List() ([]models.Habit, error) {
	return f.habits, f.listErr
}

func (f *fakeService) CheckIn(id int64) (models.Habit, streak.Outcome, error) {
	for i, h := range f.habits {
		if h.ID == id {
			next, out, err := streak.CheckIn(h, f.today)
			if err == nil {
				f.habits[i] = next
			}
			return next, out, err
		}
	}
	return models.Habit{}, streak.Outcome{}, fmt.Errorf("habit %d: %w", id, apperrors.ErrNotFound)
}

func (f *fakeService) Delete(id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, h := range f.habits {
		if h.ID == id {
			f.habits = append(f.habits[:i], f.habits[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("habit %d: %w", id, apperrors.ErrNotFound)
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func newTestModel(habits ...string) (Model, *fakeService) {
	svc := &fakeService{today: time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)}
	for _, name := range habits {
		_, _ = svc.Add(name)
	}
	next, _ := NewModel(svc).Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model), svc
}

func TestNewModelLoadsHabits(t *testing.T) {
	m, _ := newTestModel("Read", "Walk")

	if got := len(m.list.Items()); got != 2 {
		t.Fatalf("list has %d items, want 2", got)
	}
	view := m.View()
	if !strings.Contains(view, "Read") || !strings.Contains(view, "last done Never") {
		t.Errorf("view missing habit details:\n%s", view)
	}
}

func TestEmptyView(t *testing.T) {
	m, _ := newTestModel()
	if !strings.Contains(m.View(), "No habits yet.") {
		t.Errorf("expected empty state hint:\n%s", m.View())
	}
}

func TestCheckIn(t *testing.T) {
	m, svc := newTestModel("Read")

	m, _ = press(t, m, keyPress("c"))
	if m.status != "Great job! Current streak: 1 (Personal Best: 1)" {
		t.Errorf("status = %q", m.status)
	}
	if svc.habits[0].Streak != 1 {
		t.Errorf("streak = %d, want 1", svc.habits[0].Streak)
	}

	m, _ = press(t, m, keyPress("c"))
	if m.status != "You already completed this today!" {
		t.Errorf("status = %q", m.status)
	}
}

func TestCheckInBeforeLastCompletionIsRecoverable(t *testing.T) {
	m, svc := newTestModel("Read")
	future := time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local)
	svc.habits[0].LastCompleted = &future
	svc.habits[0].Streak, svc.habits[0].MaxStreak = 1, 1

	m, cmd := press(t, m, keyPress("c"))
	if cmd != nil || m.quitting {
		t.Fatal("recoverable error should not quit")
	}
	if !strings.HasPrefix(m.status, "Error:") {
		t.Errorf("status = %q, want an error line", m.status)
	}
}

func TestDeleteConfirm(t *testing.T) {
	tests := []struct {
		name       string
		answer     string
		wantHabits int
	}{
		{"confirm", "y", 0},
		{"decline", "n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, svc := newTestModel("Read")
			hooks := 0
			m.beforeDelete = func() { hooks++ }

			m, _ = press(t, m, keyPress("d"))
			if m.state != constants.StateConfirmDelete {
				t.Fatalf("state = %v, want confirm delete", m.state)
			}
			if !strings.Contains(m.View(), "Delete habit ID 1?") {
				t.Errorf("missing confirmation prompt:\n%s", m.View())
			}

			m, _ = press(t, m, keyPress(tt.answer))
			if m.state != constants.StateHabits {
				t.Errorf("state = %v, want habits", m.state)
			}
			if len(svc.habits) != tt.wantHabits {
				t.Errorf("%d habits left, want %d", len(svc.habits), tt.wantHabits)
			}
			if got := len(m.list.Items()); got != tt.wantHabits {
				t.Errorf("list shows %d items, want %d", got, tt.wantHabits)
			}
			if (hooks == 1) != (tt.answer == "y") {
				t.Errorf("beforeDelete ran %d times", hooks)
			}
		})
	}
}

func TestStorageFailureQuits(t *testing.T) {
	m, svc := newTestModel("Read")
	boom := errors.New("database is locked")
	svc.deleteErr = boom

	m, cmd := press(t, m, keyPress("d"), keyPress("y"))
	if cmd == nil || !m.quitting {
		t.Fatal("expected the program to quit")
	}
	if !errors.Is(m.Err(), boom) {
		t.Errorf("Err() = %v, want %v", m.Err(), boom)
	}
}

func TestReloadFailureQuits(t *testing.T) {
	m, svc := newTestModel("Read")
	boom := errors.New("disk I/O error")
	svc.listErr = boom

	m, cmd := press(t, m, keyPress("c"))
	if cmd == nil || !m.quitting {
		t.Fatal("expected the program to quit when habits cannot be reloaded")
	}
	if !errors.Is(m.Err(), boom) {
		t.Errorf("Err() = %v, want %v", m.Err(), boom)
	}
}

func TestInitQuitsWhenListFails(t *testing.T) {
	svc := &fakeService{listErr: errors.New("no such table: habits")}
	m := NewModel(svc)
	if m.Init() == nil {
		t.Error("Init() should quit when habits cannot be loaded")
	}
	if m.Err() == nil {
		t.Error("Err() should report the load failure")
	}
}

func TestAddFormOpensAndCancels(t *testing.T) {
	m, _ := newTestModel()

	m, _ = press(t, m, keyPress("a"))
	if m.state != constants.StateAddHabit {
		t.Fatalf("state = %v, want add habit", m.state)
	}
	if !strings.Contains(m.View(), "Habit Name") {
		t.Errorf("form not rendered:\n%s", m.View())
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != constants.StateHabits {
		t.Errorf("state = %v, want habits after esc", m.state)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel("Read")
	m, cmd := press(t, m, keyPress("q"))
	if cmd == nil || !m.quitting {
		t.Error("q should quit")
	}
	if m.Err() != nil {
		t.Errorf("Err() = %v after a normal quit", m.Err())
	}
}
