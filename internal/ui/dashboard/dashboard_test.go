package dashboard

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/adibhanna/pomodoro/internal/core/session"
	"github.com/adibhanna/pomodoro/internal/models"
	"github.com/adibhanna/pomodoro/internal/storage"
	"github.com/adibhanna/pomodoro/internal/ui/timer"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type fixture struct {
	model Model
	ctrl  *session.Controller
	store *storage.SettingsStore
	clock *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	backend := storage.NewFileBackend(t.TempDir())
	store := storage.NewSettingsStore(backend)
	history := storage.New(backend)
	sink := timer.NewSink()
	ctrl, err := session.New(session.Options{
		Settings: store,
		History:  history,
		Renderer: sink,
		Clock:    clock,
		Delay:    0,
	})
	if err != nil {
		t.Fatal(err)
	}
	m := New(Options{
		Controller:   ctrl,
		Sink:         sink,
		History:      history,
		TickInterval: 250 * time.Millisecond,
		ExportDir:    t.TempDir(),
		Now:          clock.Now,
	})
	f := &fixture{model: m, ctrl: ctrl, store: store, clock: clock}
	f.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return f
}

func (f *fixture) send(msg tea.Msg) tea.Cmd {
	next, cmd := f.model.Update(msg)
	f.model = next.(Model)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestViewSwitching(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		key  tea.KeyMsg
		want ViewState
	}{
		{runes("s"), SettingsView},
		{tea.KeyMsg{Type: tea.KeyEsc}, TimerView},
		{runes("t"), StatsView},
		{runes("w"), StatsView},
		{runes("b"), TimerView},
		{runes("?"), HelpView},
		{tea.KeyMsg{Type: tea.KeyEsc}, TimerView},
	}
	for i, tt := range tests {
		f.send(tt.key)
		if got := f.model.ViewState(); got != tt.want {
			t.Fatalf("step %d (%s): view = %d, want %d", i, tt.key.String(), got, tt.want)
		}
	}
}

func TestTimerKeysOnlyInTimerView(t *testing.T) {
	f := newFixture(t)
	f.send(runes("?"))
	f.send(runes("n"))
	if got := f.ctrl.Engine().Mode(); got != models.ModeFocus {
		t.Fatalf("help view let n through, mode = %s", got)
	}
	f.send(tea.KeyMsg{Type: tea.KeyEsc})
	f.send(runes("n"))
	if got := f.ctrl.Engine().Mode(); got != models.ModeShortBreak {
		t.Fatalf("mode = %s, want short break", got)
	}
}

func TestTicksReachTimerFromOtherViews(t *testing.T) {
	f := newFixture(t)
	if cmd := f.send(tea.KeyMsg{Type: tea.KeySpace}); cmd == nil {
		t.Fatal("start did not schedule a tick")
	}
	f.send(runes("t"))

	f.clock.now = f.clock.now.Add(time.Minute)
	f.send(timer.TickMsg{Registration: f.ctrl.Engine().Registration(), Time: f.clock.now})
	if got := f.ctrl.Engine().Remaining(); got != 24*time.Minute {
		t.Fatalf("remaining = %v, want 24m", got)
	}

	f.send(tea.BlurMsg{})
	if !f.ctrl.Engine().Suspended() {
		t.Fatal("blur in stats view did not suspend")
	}
}

func TestSettingsChangedReloads(t *testing.T) {
	f := newFixture(t)
	changed := models.DefaultSettings()
	changed.FocusMinutes = 40
	if err := f.store.Save(changed); err != nil {
		t.Fatal(err)
	}

	f.send(SettingsChangedMsg{})
	if got := f.ctrl.Engine().Total(); got != 40*time.Minute {
		t.Fatalf("focus total = %v, want 40m", got)
	}
}

func TestFirstRunOpensSettings(t *testing.T) {
	f := newFixture(t)
	m := New(Options{Controller: f.ctrl, Sink: timer.NewSink(), FirstRun: true})
	if m.ViewState() != SettingsView {
		t.Fatalf("view = %d, want settings", m.ViewState())
	}
	next, _ := m.Update(runes("s"))
	if got := next.(Model).ViewState(); got != TimerView {
		t.Fatalf("saving did not return to the timer, view = %d", got)
	}
	if f.store.IsFirstTime() {
		t.Fatal("saving the first-run form did not store settings")
	}
}

// emits reports whether cmd, or any command it batches, yields msg when
// formatted.
func emits(cmd tea.Cmd, want string) bool {
	if cmd == nil {
		return false
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			if emits(c, want) {
				return true
			}
		}
		return false
	default:
		return fmt.Sprint(msg) == want
	}
}

func TestWindowTitleFollowsCountdown(t *testing.T) {
	f := newFixture(t)
	if !emits(f.model.Init(), "25:00 - Focus Session") {
		t.Fatal("Init did not set the window title")
	}

	if !emits(f.send(runes("n")), "05:00 - Short Break") {
		t.Fatal("switching modes did not retitle the window")
	}

	f.send(tea.KeyMsg{Type: tea.KeySpace})
	f.clock.now = f.clock.now.Add(90 * time.Second)
	cmd := f.send(timer.TickMsg{Registration: f.ctrl.Engine().Registration(), Time: f.clock.now})
	if !emits(cmd, "03:30 - Short Break") {
		t.Fatal("a tick did not retitle the window")
	}

	if emits(f.send(runes("?")), "03:30 - Short Break") {
		t.Fatal("an unchanged countdown retitled the window")
	}
}

func TestQuit(t *testing.T) {
	f := newFixture(t)
	if !isQuit(f.send(runes("q"))) {
		t.Fatal("q did not quit from the timer")
	}

	f.send(runes("s"))
	if isQuit(f.send(runes("q"))) {
		t.Fatal("q quit from the settings form")
	}
	if !isQuit(f.send(tea.KeyMsg{Type: tea.KeyCtrlC})) {
		t.Fatal("ctrl+c did not quit from the settings form")
	}
}
