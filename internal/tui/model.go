// Package tui is the full-screen habit list.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitrack/internal/constants"
	"github.com/julianstephens/habitrack/internal/models"
	"github.com/julianstephens/habitrack/internal/streak"
	"github.com/julianstephens/habitrack/internal/validation"
)

// Service is the subset of the tracker the TUI drives
type Service interface {
	Add(name string) (models.Habit, error)
	List() ([]models.Habit, error)
	CheckIn(id int64) (models.Habit, streak.Outcome, error)
	Delete(id int64) error
}

type item struct {
	habit models.Habit
}

func (i item) Title() string {
	return fmt.Sprintf("#%d %s", i.habit.ID, i.habit.Name)
}

func (i item) Description() string {
	return fmt.Sprintf("streak %d · record %d · last done %s",
		i.habit.Streak, i.habit.MaxStreak, i.habit.LastCompletedString())
}

func (i item) FilterValue() string { return i.habit.Name }

type habitForm struct {
	Name string
}

type Model struct {
	svc   Service
	state constants.SessionState
	keys  KeyMap
	help  help.Model
	list  list.Model

	form     *huh.Form
	addForm  *habitForm
	deleteID int64

	// beforeDelete runs ahead of a confirmed delete
	beforeDelete func()

	status   string
	err      error
	quitting bool
	width    int
	height   int
}

type Option func(*Model)

func WithBeforeDelete(fn func()) Option {
	return func(m *Model) {
		m.beforeDelete = fn
	}
}

func NewModel(svc Service, opts ...Option) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	m := Model{
		svc:   svc,
		state: constants.StateHabits,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		list:  l,
	}
	for _, opt := range opts {
		opt(&m)
	}
	// Init quits when the first load fails
	m.err = m.refresh()
	return m
}

// refresh reloads habits from the service into the list
func (m *Model) refresh() error {
	habits, err := m.svc.List()
	if err != nil {
		return err
	}
	items := make([]list.Item, len(habits))
	for i, h := range habits {
		items[i] = item{habit: h}
	}
	m.list.SetItems(items)
	return nil
}

func (m Model) selected() (models.Habit, bool) {
	i, ok := m.list.SelectedItem().(item)
	if !ok {
		return models.Habit{}, false
	}
	return i.habit, true
}

func newAddForm(fm *habitForm) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					_, err := validation.HabitName(s)
					return err
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

// Err returns the fatal error that ended the program, if any
func (m Model) Err() error {
	return m.err
}
