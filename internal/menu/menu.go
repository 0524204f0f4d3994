// Package menu implements the numbered interactive loop over a line-based
// reader and writer.
package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/julianstephens/habitrack/internal/errors"
	"github.com/julianstephens/habitrack/internal/logger"
	"github.com/julianstephens/habitrack/internal/models"
	"github.com/julianstephens/habitrack/internal/streak"
	"github.com/julianstephens/habitrack/internal/validation"
)

// Service is the subset of the tracker the menu drives
type Service interface {
	Add(name string) (models.Habit, error)
	List() ([]models.Habit, error)
	CheckIn(id int64) (models.Habit, streak.Outcome, error)
	Delete(id int64) error
}

const (
	choiceAdd     = "1"
	choiceList    = "2"
	choiceCheckIn = "3"
	choiceDelete  = "4"
	choiceExit    = "5"
)

const (
	msgEmptyName     = "Name cannot be empty."
	msgInvalidNumber = "Please enter a valid number."
	msgNotFound      = "Habit ID not found."
	msgInvalidChoice = "Invalid choice. Try again."
	msgGoodbye       = "Goodbye! Keep up the good work."
	msgNoHabits      = "No habits yet. Choose 1 to add one."
)

// errExit ends the loop without an error
var errExit = errors.New("exit")

type Menu struct {
	svc Service
	in  *bufio.Reader
	out io.Writer
	st  styles

	// beforeDelete runs once a deletion is confirmed, before the store is touched
	beforeDelete func()
}

type Option func(*Menu)

// WithBeforeDelete registers a hook run ahead of every confirmed delete.
func WithBeforeDelete(fn func()) Option {
	return func(m *Menu) {
		m.beforeDelete = fn
	}
}

func New(svc Service, in io.Reader, out io.Writer, opts ...Option) *Menu {
	m := &Menu{
		svc: svc,
		in:  bufio.NewReader(in),
		out: out,
		st:  newStyles(out),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run shows the menu until the user exits or input ends. Not-found and
// invalid-input errors are reported and the loop continues; any other
// error stops the loop and is returned.
func (m *Menu) Run() error {
	for {
		m.printMenu()

		choice, err := m.prompt("\nChoose an option: ")
		if err != nil {
			return m.finish(err)
		}

		if err := m.dispatch(strings.TrimSpace(choice)); err != nil {
			return m.finish(err)
		}
	}
}

// finish maps loop-ending conditions to Run's return value.
func (m *Menu) finish(err error) error {
	if errors.Is(err, errExit) || errors.Is(err, io.EOF) {
		m.println(msgGoodbye)
		return nil
	}
	return err
}

func (m *Menu) dispatch(choice string) error {
	var err error
	switch choice {
	case choiceAdd:
		err = m.add()
	case choiceList:
		err = m.list()
	case choiceCheckIn:
		err = m.checkIn()
	case choiceDelete:
		err = m.delete()
	case choiceExit:
		return errExit
	default:
		m.println(msgInvalidChoice)
		return nil
	}

	if err == nil || errors.Is(err, io.EOF) {
		return err
	}
	if apperrors.IsRecoverable(err) {
		m.report(err)
		return nil
	}
	logger.Error("Menu action failed", "choice", choice, "error", err)
	return err
}

func (m *Menu) printMenu() {
	m.println("")
	m.println(m.st.title.Render("===== HABIT TRACKER ====="))
	m.println("1. Add New Habit")
	m.println("2. Show All Habits")
	m.println("3. Check-in (Complete Habit)")
	m.println("4. Delete a Habit")
	m.println("5. Exit")
}

func (m *Menu) add() error {
	name, err := m.prompt("Enter habit name: ")
	if err != nil {
		return err
	}

	h, err := m.svc.Add(name)
	if err != nil {
		return err
	}
	m.say(m.st.success, fmt.Sprintf("✓ Habit '%s' added successfully!", h.Name))
	return nil
}

func (m *Menu) list() error {
	habits, err := m.svc.List()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		m.println(msgNoHabits)
		return nil
	}
	m.println("")
	m.println(m.st.habitTable(habits))
	return nil
}

// readID lists habits and asks for an id.
func (m *Menu) readID(action string) (int64, error) {
	if err := m.list(); err != nil {
		return 0, err
	}
	line, err := m.prompt(fmt.Sprintf("\nEnter the ID to %s: ", action))
	if err != nil {
		return 0, err
	}
	return validation.ParseHabitID(line)
}

func (m *Menu) checkIn() error {
	id, err := m.readID("check-in")
	if err != nil {
		return err
	}

	_, out, err := m.svc.CheckIn(id)
	if err != nil {
		return err
	}

	switch out.Kind {
	case streak.AlreadyDoneToday:
		m.say(m.st.warning, "⚠️  "+out.Message())
	case streak.StreakBroken:
		m.say(m.st.warning, out.Message())
	default:
		m.say(m.st.success, "⭐ "+out.Message())
	}
	return nil
}

func (m *Menu) delete() error {
	id, err := m.readID("delete")
	if err != nil {
		return err
	}

	answer, err := m.prompt(fmt.Sprintf("Are you sure you want to delete ID %d? (y/n): ", id))
	if err != nil {
		return err
	}
	if !confirmed(answer) {
		m.println("Delete cancelled.")
		return nil
	}

	if m.beforeDelete != nil {
		m.beforeDelete()
	}
	if err := m.svc.Delete(id); err != nil {
		return err
	}
	m.say(m.st.success, fmt.Sprintf("✓ Habit ID %d deleted.", id))
	return nil
}

func confirmed(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// report prints a recoverable error in user-facing terms
func (m *Menu) report(err error) {
	var msg string
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		msg = msgNotFound
	case errors.Is(err, streak.ErrDateBeforeLastCompletion):
		msg = "Today is before the last check-in date. Check your system clock."
	case errors.Is(err, validation.ErrEmptyName):
		msg = msgEmptyName
	case errors.Is(err, validation.ErrInvalidID):
		msg = msgInvalidNumber
	default:
		msg = apperrors.Format(err)
	}
	m.println(m.st.danger.Render("❌ " + msg))
}

// prompt writes label and reads one line. A final line without a newline is
// returned as-is; io.EOF is returned only when nothing was read.
func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	line, err := m.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// say prints a blank line then text, styling each line on its own so
// multi-line messages are not padded to a block.
func (m *Menu) say(style lipgloss.Style, text string) {
	m.println("")
	for _, line := range strings.Split(text, "\n") {
		m.println(style.Render(line))
	}
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}
