package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type Model struct {
	width  int
	height int
	done   bool
}

func New() Model {
	return Model{}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Back) {
			m.done = true
		}
	}

	return m, nil
}

type entry struct{ key, desc string }

var sections = []struct {
	title   string
	entries []entry
}{
	{"Timer Controls", []entry{
		{"space / enter", "Start or pause the countdown"},
		{"r", "Reset the current countdown"},
		{"n / →", "Next mode"},
		{"p / ←", "Previous mode"},
		{"1 / 2 / 3", "Focus, short break, long break"},
	}},
	{"Navigation", []entry{
		{"s", "Open settings"},
		{"t", "Open stats (d/w/m/y switch period, e/E export)"},
		{"? / f1", "Show this help page"},
		{"b / esc", "Go back to the timer"},
		{"q / Ctrl+C", "Quit the application"},
	}},
}

func (m Model) View() string {
	// Use reasonable defaults if dimensions aren't set
	width := m.width
	height := m.height
	if width == 0 {
		width = 100
	}
	if height == 0 {
		height = 30
	}

	containerStyle := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(2)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ef4444")).
		MarginBottom(1)

	sectionTitleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FDFF8C")).
		MarginBottom(1).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#22c55e")).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#CCCCCC"))

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666")).
		MarginTop(2)

	blocks := []string{titleStyle.Render("Pomodoro Help")}
	for _, section := range sections {
		lines := make([]string, len(section.entries))
		for i, e := range section.entries {
			lines[i] = fmt.Sprintf("%s - %s", keyStyle.Render(e.key), descStyle.Render(e.desc))
		}
		blocks = append(blocks, sectionTitleStyle.Render(section.title), strings.Join(lines, "\n"))
	}

	blocks = append(blocks,
		sectionTitleStyle.Render("About"),
		descStyle.Render(
			"Alternate focus sessions with short breaks, and take a long break\n"+
				"after every few focus sessions. The dots under the timer count the\n"+
				"focus sessions in the current cycle. Durations and auto-start can be\n"+
				"changed in settings or with 'pomodoro settings set'."),
		footerStyle.Render("Press 'b/esc' to go back • 'q' to quit"),
	)

	return containerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, blocks...))
}

// Done reports that the user left the help page.
func (m Model) Done() bool {
	return m.done
}

type keyMap struct {
	Back key.Binding
}

var keys = keyMap{
	Back: key.NewBinding(
		key.WithKeys("b", "esc", "h"),
		key.WithHelp("b/esc", "back"),
	),
}
