package settings

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/adibhanna/pomodoro/internal/core/session"
	"github.com/adibhanna/pomodoro/internal/models"
	"github.com/adibhanna/pomodoro/internal/storage"
)

// Field order. The first four are numeric inputs, the last two toggles.
const (
	fieldFocus = iota
	fieldShortBreak
	fieldLongBreak
	fieldInterval
	fieldAutoBreaks
	fieldAutoFocus
	fieldCount
)

type Model struct {
	ctrl         *session.Controller
	history      *storage.Storage
	inputs       []textinput.Model
	autoBreaks   bool
	autoFocus    bool
	focusIndex   int
	saved        bool
	reset        bool
	confirmReset bool
	done         bool
	errorMsg     string
	width        int
	height       int
}

// New opens the form on the settings currently in use. history may be nil,
// in which case reset only restores default settings.
func New(ctrl *session.Controller, history *storage.Storage) Model {
	m := Model{
		ctrl:    ctrl,
		history: history,
		inputs:  make([]textinput.Model, fieldAutoBreaks),
	}

	// Validation function to allow only numeric input
	numericValidation := func(text string) error {
		for _, char := range text {
			if !unicode.IsDigit(char) {
				return fmt.Errorf("only numbers allowed")
			}
		}
		return nil
	}

	limits := []int{models.MaxFocusMinutes, models.MaxShortBreakMinutes, models.MaxLongBreakMinutes, models.MaxLongBreakInterval}
	for i := range m.inputs {
		m.inputs[i] = textinput.New()
		m.inputs[i].Placeholder = strconv.Itoa(limits[i])
		m.inputs[i].CharLimit = 3
		m.inputs[i].Width = 20
		m.inputs[i].Validate = numericValidation
	}
	m.inputs[0].Focus()
	m.fill(ctrl.Settings())
	return m
}

func (m *Model) fill(s models.UserSettings) {
	m.inputs[fieldFocus].SetValue(strconv.Itoa(s.FocusMinutes))
	m.inputs[fieldShortBreak].SetValue(strconv.Itoa(s.ShortBreakMinutes))
	m.inputs[fieldLongBreak].SetValue(strconv.Itoa(s.LongBreakMinutes))
	m.inputs[fieldInterval].SetValue(strconv.Itoa(s.LongBreakInterval))
	m.autoBreaks = s.AutoStartBreaks
	m.autoFocus = s.AutoStartFocus
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Done reports that the form was closed, by saving or backing out.
func (m Model) Done() bool { return m.done }

func (m Model) Saved() bool { return m.saved }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Tab), key.Matches(msg, keys.Down):
			m.focusIndex = (m.focusIndex + 1) % fieldCount
			m.updateFocus()
			return m, nil

		case key.Matches(msg, keys.ShiftTab), key.Matches(msg, keys.Up):
			m.focusIndex = (m.focusIndex - 1 + fieldCount) % fieldCount
			m.updateFocus()
			return m, nil

		case m.focusIndex >= fieldAutoBreaks && (key.Matches(msg, keys.Toggle) || key.Matches(msg, keys.Yes) || key.Matches(msg, keys.No)):
			flag := &m.autoBreaks
			if m.focusIndex == fieldAutoFocus {
				flag = &m.autoFocus
			}
			switch {
			case key.Matches(msg, keys.Yes):
				*flag = true
			case key.Matches(msg, keys.No):
				*flag = false
			default:
				*flag = !*flag
			}
			return m, nil

		case key.Matches(msg, keys.Save):
			m.save()
			m.done = true
			return m, nil

		case key.Matches(msg, keys.Reset):
			if !m.confirmReset {
				m.confirmReset = true
				return m, nil
			}
			if err := m.resetAllData(); err != nil {
				m.errorMsg = err.Error()
				m.confirmReset = false
				return m, nil
			}
			m.reset = true
			m.confirmReset = false
			return m, nil

		case key.Matches(msg, keys.Back):
			if m.confirmReset {
				m.confirmReset = false
				return m, nil
			}
			m.done = true
			return m, nil
		}
	}

	cmd := m.updateInputs(msg)
	return m, cmd
}

func (m *Model) updateFocus() {
	for i := range m.inputs {
		if i == m.focusIndex {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		oldValue := m.inputs[i].Value()
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
		if m.inputs[i].Value() != oldValue {
			m.errorMsg = ""
		}
	}
	return tea.Batch(cmds...)
}

// save reads the form and hands it to the controller, which clamps out of
// range values. An empty or zero field takes its default.
func (m *Model) save() {
	value := func(i int) int {
		n, _ := strconv.Atoi(m.inputs[i].Value())
		return n
	}
	applied := m.ctrl.ApplySettings(models.UserSettings{
		FocusMinutes:      value(fieldFocus),
		ShortBreakMinutes: value(fieldShortBreak),
		LongBreakMinutes:  value(fieldLongBreak),
		LongBreakInterval: value(fieldInterval),
		AutoStartBreaks:   m.autoBreaks,
		AutoStartFocus:    m.autoFocus,
	})
	m.fill(applied)
	m.saved = true
	m.errorMsg = ""
}

func (m *Model) resetAllData() error {
	if m.history != nil {
		if err := m.history.ResetAllData(); err != nil {
			return err
		}
	}
	m.ctrl.ApplySettings(models.DefaultSettings())
	m.fill(m.ctrl.Settings())
	return nil
}

func (m Model) View() string {
	width, height := m.width, m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 30
	}

	containerStyle := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Padding(2)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ef4444")).
		MarginBottom(2).
		Align(lipgloss.Center)

	formStyle := lipgloss.NewStyle().
		Align(lipgloss.Left).
		MarginTop(1).
		MarginBottom(1)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FDFF8C"))

	activeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FAFAFA")).
		Bold(true)

	inputStyle := lipgloss.NewStyle().
		MarginBottom(1)

	successStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#22c55e")).
		Bold(true).
		MarginTop(1)

	labels := []string{
		fmt.Sprintf("Focus Duration (1-%d minutes):", models.MaxFocusMinutes),
		fmt.Sprintf("Short Break Duration (1-%d minutes):", models.MaxShortBreakMinutes),
		fmt.Sprintf("Long Break Duration (1-%d minutes):", models.MaxLongBreakMinutes),
		fmt.Sprintf("Long Break Interval (1-%d sessions):", models.MaxLongBreakInterval),
	}

	var form string
	for i, label := range labels {
		form += labelStyle.Render(label) + "\n"
		form += inputStyle.Render(m.inputs[i].View()) + "\n"
	}
	for i, toggle := range []struct {
		label string
		on    bool
	}{
		{"Auto-start breaks", m.autoBreaks},
		{"Auto-start focus sessions", m.autoFocus},
	} {
		box := "[ ]"
		if toggle.on {
			box = "[x]"
		}
		line := box + " " + toggle.label
		if m.focusIndex == fieldAutoBreaks+i {
			line = activeStyle.Render("> " + line)
		} else {
			line = labelStyle.Render("  " + line)
		}
		form += line + "\n"
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		titleStyle.Render("Settings"),
		formStyle.Render(form),
		m.renderHelp(),
	)

	if m.reset {
		content += "\n" + successStyle.Render("All data reset successfully!")
	}

	if m.confirmReset {
		warningStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true).
			MarginTop(1)
		content += "\n" + warningStyle.Render("WARNING: This will delete ALL sessions and reset settings!")
	}

	if m.errorMsg != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true).
			MarginTop(1)
		content += "\n" + errorStyle.Render(m.errorMsg)
	}

	return containerStyle.Render(content)
}

func (m Model) renderHelp() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666")).
		MarginTop(1)

	if m.confirmReset {
		return helpStyle.Render("Press 'r' again to confirm RESET (deletes all data) • b: cancel")
	}

	return helpStyle.Render("tab/↓: next field • shift+tab/↑: previous • space: toggle • s: save • r: reset all data • b: back")
}

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Yes      key.Binding
	No       key.Binding
	Save     key.Binding
	Reset    key.Binding
	Back     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous field"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "previous field"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next field"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "toggle"),
	),
	Yes: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "on"),
	),
	No: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "off"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset all data"),
	),
	Back: key.NewBinding(
		key.WithKeys("b", "esc"),
		key.WithHelp("b", "back"),
	),
}
