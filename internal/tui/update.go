package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitrack/internal/constants"
	apperrors "github.com/julianstephens/habitrack/internal/errors"
	"github.com/julianstephens/habitrack/internal/logger"
)

func (m Model) Init() tea.Cmd {
	if m.err != nil {
		return tea.Quit
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
		h, v := docStyle.GetFrameSize()
		// title, status and help lines
		m.list.SetSize(size.Width-h, size.Height-v-4)
		m.help.Width = size.Width
		return m, nil
	}

	switch m.state {
	case constants.StateAddHabit:
		return m.updateAddForm(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Add):
			m.addForm = &habitForm{}
			m.form = newAddForm(m.addForm)
			m.state = constants.StateAddHabit
			m.status = ""
			return m, m.form.Init()
		case key.Matches(msg, m.keys.CheckIn):
			return m.checkIn()
		case key.Matches(msg, m.keys.Delete):
			if h, ok := m.selected(); ok {
				m.deleteID = h.ID
				m.state = constants.StateConfirmDelete
				m.status = ""
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAddForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = constants.StateHabits
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		h, err := m.svc.Add(m.addForm.Name)
		if err != nil {
			return m.fail(err)
		}
		if err := m.refresh(); err != nil {
			return m.fail(err)
		}
		m.list.Select(len(m.list.Items()) - 1)
		m.status = fmt.Sprintf("✓ Habit '%s' added", h.Name)
		m.state = constants.StateHabits
	case huh.StateAborted:
		m.state = constants.StateHabits
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		id := m.deleteID
		m.state = constants.StateHabits
		m.deleteID = 0
		if m.beforeDelete != nil {
			m.beforeDelete()
		}
		if err := m.svc.Delete(id); err != nil {
			return m.fail(err)
		}
		if err := m.refresh(); err != nil {
			return m.fail(err)
		}
		m.status = fmt.Sprintf("✓ Habit ID %d deleted", id)
	case "n", "N", "esc", "q":
		m.state = constants.StateHabits
		m.deleteID = 0
	}
	return m, nil
}

func (m Model) checkIn() (tea.Model, tea.Cmd) {
	h, ok := m.selected()
	if !ok {
		return m, nil
	}

	_, out, err := m.svc.CheckIn(h.ID)
	if err != nil {
		return m.fail(err)
	}
	if err := m.refresh(); err != nil {
		return m.fail(err)
	}
	m.status = out.Message()
	return m, nil
}

// fail shows recoverable errors in the status line and quits on anything else
func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	m.state = constants.StateHabits
	if apperrors.IsRecoverable(err) {
		m.status = apperrors.Format(err)
		return m, nil
	}
	logger.Error("TUI action failed", "error", err)
	m.err = err
	m.quitting = true
	return m, tea.Quit
}
