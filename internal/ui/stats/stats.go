package stats

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/adibhanna/pomodoro/internal/models"
	"github.com/adibhanna/pomodoro/internal/storage"
)

type ViewType int

const (
	DayView ViewType = iota
	WeekView
	MonthView
	YearView
)

type Model struct {
	viewType      ViewType
	storage       *storage.Storage
	now           time.Time
	exportDir     string
	dayStats      models.DayStats
	weekStats     models.WeekStats
	monthStats    models.MonthStats
	yearStats     models.YearStats
	err           error
	done          bool
	width         int
	height        int
	exportMessage string
	showMessage   bool
}

// New loads the stats for the period containing now. Exports go to
// exportDir, or ~/Downloads when it is empty.
func New(viewType ViewType, history *storage.Storage, now time.Time, exportDir string) Model {
	m := Model{
		storage:   history,
		now:       now,
		exportDir: exportDir,
	}
	m.load(viewType)
	return m
}

func (m *Model) load(viewType ViewType) {
	m.viewType = viewType

	var err error
	switch viewType {
	case DayView:
		m.dayStats, err = m.storage.GetDayStats(m.now.Format("2006-01-02"))
	case WeekView:
		year, week := m.now.ISOWeek()
		m.weekStats, err = m.storage.GetWeekStats(year, week)
	case MonthView:
		m.monthStats, err = m.storage.GetMonthStats(m.now.Year(), int(m.now.Month()))
	case YearView:
		m.yearStats, err = m.storage.GetYearStats(m.now.Year())
	}
	m.err = err
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Done reports that the user left the stats view.
func (m Model) Done() bool { return m.done }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Back):
			m.done = true
			return m, nil
		case key.Matches(msg, keys.Day):
			m.load(DayView)
		case key.Matches(msg, keys.Week):
			m.load(WeekView)
		case key.Matches(msg, keys.Month):
			m.load(MonthView)
		case key.Matches(msg, keys.Year):
			m.load(YearView)
		case key.Matches(msg, keys.Export):
			return m, m.exportStats(storage.FormatText)
		case key.Matches(msg, keys.ExportPDF):
			return m, m.exportStats(storage.FormatPDF)
		}
		return m, nil

	case exportResultMsg:
		m.exportMessage = msg.message
		m.showMessage = true
		// Clear message after 3 seconds
		return m, tea.Tick(time.Second*3, func(t time.Time) tea.Msg {
			return clearMessageMsg{}
		})

	case clearMessageMsg:
		m.showMessage = false
		m.exportMessage = ""
		return m, nil
	}

	return m, nil
}

type clearMessageMsg struct{}

func (m Model) View() string {
	width, height := m.width, m.height
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

	var content string
	if m.err != nil {
		content = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Render(fmt.Sprintf("Could not load history: %v", m.err))
	} else {
		switch m.viewType {
		case DayView:
			content = m.renderDayView()
		case WeekView:
			content = m.renderWeekView()
		case MonthView:
			content = m.renderMonthView()
		case YearView:
			content = m.renderYearView()
		}
	}

	return containerStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		m.renderHelp(),
	))
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ef4444")).
			MarginBottom(2)

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FDFF8C")).
			MarginBottom(1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888")).
			PaddingLeft(2)
)

func (m Model) renderDayView() string {
	date, _ := time.Parse("2006-01-02", m.dayStats.Date)
	title := titleStyle.Render(fmt.Sprintf("Daily Stats - %s", date.Format("Monday, January 2, 2006")))

	stats := statsStyle.Render(fmt.Sprintf(
		"Focus Sessions: %d | Focus Time: %s | Break Time: %s",
		m.dayStats.SessionsCount,
		storage.FormatMinutes(m.dayStats.TotalMinutes),
		storage.FormatMinutes(m.dayStats.BreakMinutes),
	))

	var sessions string
	if len(m.dayStats.Sessions) == 0 {
		sessions = rowStyle.Render("No sessions yet today. Time to focus!")
	} else {
		sessions = "\nSession History:\n"
		for i, session := range m.dayStats.Sessions {
			sessions += rowStyle.Render(fmt.Sprintf(
				"%d. %-12s %s - %s (%d min)",
				i+1,
				session.Mode,
				session.StartTime.Local().Format("3:04 PM"),
				session.EndTime.Local().Format("3:04 PM"),
				session.Minutes(),
			)) + "\n"
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, stats, sessions)
}

func (m Model) renderWeekView() string {
	title := titleStyle.Render(fmt.Sprintf("Weekly Stats - Week %d, %d", m.weekStats.Week, m.weekStats.Year))

	stats := statsStyle.Render(fmt.Sprintf(
		"Focus Sessions: %d | Focus Time: %s",
		m.weekStats.SessionsCount,
		storage.FormatMinutes(m.weekStats.TotalMinutes),
	))

	var days string
	if len(m.weekStats.DailyStats) == 0 {
		days = rowStyle.Render("No sessions this week yet. Let's get started!")
	} else {
		days = "\nDaily Breakdown:\n"
		for _, day := range m.weekStats.DailyStats {
			date, _ := time.Parse("2006-01-02", day.Date)
			days += rowStyle.Render(fmt.Sprintf(
				"%s: %d sessions (%s)",
				date.Format("Monday"),
				day.SessionsCount,
				storage.FormatMinutes(day.TotalMinutes),
			)) + "\n"
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, stats, m.renderWeekChart(), days)
}

func (m Model) renderWeekChart() string {
	chartStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666")).
		MarginTop(1).
		MarginBottom(1)

	maxSessions := 0
	dayMap := make(map[string]int)
	for _, day := range m.weekStats.DailyStats {
		date, _ := time.Parse("2006-01-02", day.Date)
		dayMap[date.Format("Mon")] = day.SessionsCount
		maxSessions = max(maxSessions, day.SessionsCount)
	}
	if maxSessions == 0 {
		return ""
	}

	chart := "\n"
	barHeight := 5
	days := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

	for row := barHeight; row > 0; row-- {
		for _, day := range days {
			barLevel := int(float64(dayMap[day]) / float64(maxSessions) * float64(barHeight))
			if barLevel >= row {
				chart += "█ "
			} else {
				chart += "  "
			}
		}
		chart += "\n"
	}
	for _, day := range days {
		chart += day[:2] + " "
	}

	return chartStyle.Render(chart)
}

func (m Model) renderMonthView() string {
	monthTime, _ := time.Parse("2006-01", m.monthStats.Month)
	title := titleStyle.Render(fmt.Sprintf("Monthly Stats - %s", monthTime.Format("January 2006")))

	stats := statsStyle.Render(fmt.Sprintf(
		"Focus Sessions: %d | Focus Time: %s",
		m.monthStats.SessionsCount,
		storage.FormatMinutes(m.monthStats.TotalMinutes),
	))

	days := float64(m.now.Day())
	avgStats := statsStyle.Render(fmt.Sprintf(
		"Average: %.1f sessions per day",
		float64(m.monthStats.SessionsCount)/days,
	))

	return lipgloss.JoinVertical(lipgloss.Left, title, stats, avgStats)
}

func (m Model) renderYearView() string {
	title := titleStyle.Render(fmt.Sprintf("Yearly Stats - %d", m.yearStats.Year))

	stats := statsStyle.Render(fmt.Sprintf(
		"Focus Sessions: %d | Focus Time: %s",
		m.yearStats.SessionsCount,
		storage.FormatMinutes(m.yearStats.TotalMinutes),
	))

	var months string
	if len(m.yearStats.MonthlyStats) == 0 {
		months = rowStyle.Render("No sessions this year yet. Time to get started!")
	} else {
		months = "\nMonthly Breakdown:\n"
		for _, month := range m.yearStats.MonthlyStats {
			monthTime, _ := time.Parse("2006-01", month.Month)
			months += rowStyle.Render(fmt.Sprintf(
				"%s: %d sessions (%s)",
				monthTime.Format("January"),
				month.SessionsCount,
				storage.FormatMinutes(month.TotalMinutes),
			)) + "\n"
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, stats, months)
}

func (m Model) renderHelp() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666")).
		MarginTop(2)

	help := "d/w/m/y: day/week/month/year • e: export text • E: export pdf • b: back"

	if m.showMessage && m.exportMessage != "" {
		messageStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)
		help = messageStyle.Render(m.exportMessage) + "\n" + help
	}

	return helpStyle.Render(help)
}

func (m Model) exportStats(format string) tea.Cmd {
	return func() tea.Msg {
		report, err := m.storage.BuildReport(m.now)
		if err != nil {
			return exportResultMsg{success: false, message: fmt.Sprintf("Export failed: %v", err)}
		}

		dir := m.exportDir
		if dir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return exportResultMsg{success: false, message: fmt.Sprintf("Failed to get home directory: %v", err)}
			}
			dir = filepath.Join(homeDir, "Downloads")
			if _, err := os.Stat(dir); err != nil {
				dir = homeDir
			}
		}

		filename := fmt.Sprintf("pomodoro-stats-%s.%s", m.now.Format("2006-01-02-150405"), format)
		path := filepath.Join(dir, filename)
		if err := report.WriteFile(path, format); err != nil {
			return exportResultMsg{success: false, message: fmt.Sprintf("Failed to save file: %v", err)}
		}

		return exportResultMsg{success: true, message: fmt.Sprintf("Exported to %s", path)}
	}
}

type exportResultMsg struct {
	success bool
	message string
}

type keyMap struct {
	Back      key.Binding
	Day       key.Binding
	Week      key.Binding
	Month     key.Binding
	Year      key.Binding
	Export    key.Binding
	ExportPDF key.Binding
}

var keys = keyMap{
	Back: key.NewBinding(
		key.WithKeys("b", "esc", "h"),
		key.WithHelp("b", "back"),
	),
	Day: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "day"),
	),
	Week: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "week"),
	),
	Month: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "month"),
	),
	Year: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "year"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export text"),
	),
	ExportPDF: key.NewBinding(
		key.WithKeys("E"),
		key.WithHelp("E", "export pdf"),
	),
}
