// Package dashboard is the root bubbletea model. It owns the timer and
// switches between the timer, settings, stats and help views.
package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/adibhanna/pomodoro/internal/core/session"
	"github.com/adibhanna/pomodoro/internal/storage"
	"github.com/adibhanna/pomodoro/internal/ui/help"
	"github.com/adibhanna/pomodoro/internal/ui/settings"
	"github.com/adibhanna/pomodoro/internal/ui/stats"
	"github.com/adibhanna/pomodoro/internal/ui/timer"
)

// SettingsChangedMsg reports that the settings record changed on disk.
type SettingsChangedMsg struct{}

type ViewState int

const (
	TimerView ViewState = iota
	SettingsView
	StatsView
	HelpView
)

type Options struct {
	Controller   *session.Controller
	Sink         *timer.Sink
	History      *storage.Storage
	TickInterval time.Duration
	ExportDir    string
	Now          func() time.Time

	// FirstRun opens the settings form before the timer.
	FirstRun bool
}

type Model struct {
	ctrl      *session.Controller
	sink      *timer.Sink
	history   *storage.Storage
	exportDir string
	now       func() time.Time
	viewState ViewState
	title     string
	width     int
	height    int

	// Sub-models
	timerModel    timer.Model
	settingsModel settings.Model
	statsModel    stats.Model
	helpModel     help.Model
}

func New(opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	m := Model{
		ctrl:       opts.Controller,
		sink:       opts.Sink,
		history:    opts.History,
		exportDir:  opts.ExportDir,
		now:        opts.Now,
		viewState:  TimerView,
		timerModel: timer.New(opts.Controller, opts.Sink, opts.TickInterval),
		helpModel:  help.New(),
		title:      timer.WindowTitle(opts.Sink.Frame()),
	}
	if opts.FirstRun {
		m.settingsModel = settings.New(opts.Controller, opts.History)
		m.viewState = SettingsView
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.timerModel.Init(), tea.SetWindowTitle(m.title)}
	if m.viewState == SettingsView {
		cmds = append(cmds, m.settingsModel.Init())
	}
	return tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.viewState {
	case SettingsView:
		return m.settingsModel.View()
	case StatsView:
		return m.statsModel.View()
	case HelpView:
		return m.helpModel.View()
	default:
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(m.timerModel.View())
	}
}

func (m Model) ViewState() ViewState { return m.viewState }

// Update routes msg, then retitles the terminal when the countdown moved.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	if title := timer.WindowTitle(next.sink.Frame()); title != next.title {
		next.title = title
		cmd = tea.Batch(cmd, tea.SetWindowTitle(title))
	}
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.timerModel, _ = m.timerModel.Update(msg)
		m.helpModel, _ = m.helpModel.Update(msg)
		m.settingsModel, _ = m.settingsModel.Update(msg)
		m.statsModel, _ = m.statsModel.Update(msg)
		return m, nil

	// The countdown keeps running whatever view is open.
	case timer.TickMsg, timer.TransitionMsg, tea.BlurMsg, tea.FocusMsg:
		var cmd tea.Cmd
		m.timerModel, cmd = m.timerModel.Update(msg)
		return m, cmd

	case SettingsChangedMsg:
		m.ctrl.ReloadSettings()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceQuit) {
			return m, tea.Quit
		}

		switch m.viewState {
		case SettingsView:
			var cmd tea.Cmd
			m.settingsModel, cmd = m.settingsModel.Update(msg)
			if m.settingsModel.Done() {
				m.viewState = TimerView
			}
			return m, cmd

		case StatsView:
			if key.Matches(msg, keys.Quit) {
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.statsModel, cmd = m.statsModel.Update(msg)
			if m.statsModel.Done() {
				m.viewState = TimerView
			}
			return m, cmd

		case HelpView:
			if key.Matches(msg, keys.Quit) {
				return m, tea.Quit
			}
			m.helpModel, _ = m.helpModel.Update(msg)
			if m.helpModel.Done() {
				m.viewState = TimerView
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Help):
			m.helpModel = help.New()
			m.helpModel, _ = m.helpModel.Update(m.sizeMsg())
			m.viewState = HelpView
			return m, nil

		case key.Matches(msg, keys.Stats):
			m.statsModel = stats.New(stats.DayView, m.history, m.now(), m.exportDir)
			m.statsModel, _ = m.statsModel.Update(m.sizeMsg())
			m.viewState = StatsView
			return m, nil

		case key.Matches(msg, keys.Settings):
			m.settingsModel = settings.New(m.ctrl, m.history)
			m.settingsModel, _ = m.settingsModel.Update(m.sizeMsg())
			m.viewState = SettingsView
			return m, m.settingsModel.Init()
		}

		var cmd tea.Cmd
		m.timerModel, cmd = m.timerModel.Update(msg)
		return m, cmd
	}

	// Everything else (cursor blinks, export results, progress frames)
	// belongs to the active view.
	var cmd tea.Cmd
	switch m.viewState {
	case SettingsView:
		m.settingsModel, cmd = m.settingsModel.Update(msg)
	case StatsView:
		m.statsModel, cmd = m.statsModel.Update(msg)
	default:
		m.timerModel, cmd = m.timerModel.Update(msg)
	}
	return m, cmd
}

func (m Model) sizeMsg() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: m.width, Height: m.height}
}

type keyMap struct {
	Stats     key.Binding
	Settings  key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

var keys = keyMap{
	Stats: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "stats"),
	),
	Settings: key.NewBinding(
		key.WithKeys("s", "g"),
		key.WithHelp("s", "settings"),
	),
	Help: key.NewBinding(
		key.WithKeys("?", "f1"),
		key.WithHelp("?/f1", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}
