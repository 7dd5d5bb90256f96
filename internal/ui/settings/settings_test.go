package settings

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/adibhanna/pomodoro/internal/core/engine"
	"github.com/adibhanna/pomodoro/internal/core/session"
	"github.com/adibhanna/pomodoro/internal/models"
	"github.com/adibhanna/pomodoro/internal/storage"
)

type discard struct{}

func (discard) Render(engine.Frame) {}

func newForm(t *testing.T) (Model, *session.Controller, *storage.SettingsStore, *storage.Storage) {
	t.Helper()
	backend := storage.NewFileBackend(t.TempDir())
	store := storage.NewSettingsStore(backend)
	history := storage.New(backend)
	ctrl, err := session.New(session.Options{
		Settings: store,
		History:  history,
		Renderer: discard{},
		Delay:    -1,
	})
	if err != nil {
		t.Fatal(err)
	}
	return New(ctrl, history), ctrl, store, history
}

func press(m Model, keys ...tea.KeyMsg) Model {
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	return m
}

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	tab       = tea.KeyMsg{Type: tea.KeyTab}
	backspace = tea.KeyMsg{Type: tea.KeyBackspace}
	space     = tea.KeyMsg{Type: tea.KeySpace}
)

func TestFormShowsCurrentSettings(t *testing.T) {
	m, _, _, _ := newForm(t)
	view := m.View()
	for _, want := range []string{"25", "15", "Auto-start breaks", "[ ]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSaveClampsAndPersists(t *testing.T) {
	m, ctrl, store, _ := newForm(t)

	// Long break: clear the field and type 999.
	m = press(m, tab, tab, backspace, backspace, typed("9"), typed("9"), typed("9"))
	// Interval: clear it, leaving the field empty.
	m = press(m, tab, backspace)
	// Auto-start breaks on.
	m = press(m, tab, space)
	m = press(m, typed("s"))

	if !m.Done() || !m.Saved() {
		t.Fatal("save did not close the form")
	}
	want := models.UserSettings{
		FocusMinutes:      25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  models.MaxLongBreakMinutes,
		LongBreakInterval: models.DefaultLongBreakInterval,
		AutoStartBreaks:   true,
	}
	if got := ctrl.Settings(); got != want {
		t.Fatalf("controller settings = %+v, want %+v", got, want)
	}
	if got := store.Load(); got != want {
		t.Fatalf("stored settings = %+v, want %+v", got, want)
	}
	if got := ctrl.Engine().Total(); got != 25*time.Minute {
		t.Fatalf("focus total = %v, want 25m", got)
	}
}

func TestNonNumericFieldTakesDefault(t *testing.T) {
	m, ctrl, _, _ := newForm(t)
	m = press(m, tab, backspace, typed("x"), typed("s"))
	if got := ctrl.Settings().ShortBreakMinutes; got != models.DefaultShortBreakMinutes {
		t.Fatalf("short break = %d, want default", got)
	}
	if got := m.inputs[fieldShortBreak].Value(); got != "5" {
		t.Fatalf("short break field = %q, want 5", got)
	}
}

func TestYesNoSetToggles(t *testing.T) {
	m, _, _, _ := newForm(t)
	m = press(m, tab, tab, tab, tab, tab, typed("y"))
	if !m.autoFocus {
		t.Fatal("y did not switch auto-start focus on")
	}
	m = press(m, typed("y"))
	if !m.autoFocus {
		t.Fatal("y should not toggle")
	}
	m = press(m, typed("n"))
	if m.autoFocus {
		t.Fatal("n did not switch auto-start focus off")
	}
}

func TestResetNeedsConfirmation(t *testing.T) {
	m, ctrl, _, history := newForm(t)
	ctrl.ApplySettings(models.UserSettings{FocusMinutes: 50, ShortBreakMinutes: 10, LongBreakMinutes: 20, LongBreakInterval: 2})
	if err := history.SaveSession(models.SessionRecord{ID: "a", Mode: models.ModeFocus, Date: "2026-03-02"}); err != nil {
		t.Fatal(err)
	}
	m = New(ctrl, history)

	m = press(m, typed("r"))
	if !strings.Contains(m.View(), "WARNING") {
		t.Fatal("first r should ask for confirmation")
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Done() {
		t.Fatal("esc during confirmation should only cancel it")
	}

	m = press(m, typed("r"), typed("r"))
	if !m.reset {
		t.Fatal("reset not performed")
	}
	if got := ctrl.Settings(); got != models.DefaultSettings() {
		t.Fatalf("settings = %+v, want defaults", got)
	}
	sessions, err := history.GetAllSessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 0 {
		t.Fatalf("history still has %d sessions", len(sessions))
	}
	if got := m.inputs[fieldFocus].Value(); got != "25" {
		t.Fatalf("focus field = %q, want 25", got)
	}
}

func TestBackCloses(t *testing.T) {
	m, ctrl, _, _ := newForm(t)
	m = press(m, typed("b"))
	if !m.Done() || m.Saved() {
		t.Fatal("b should close without saving")
	}
	if got := ctrl.Settings(); got != models.DefaultSettings() {
		t.Fatalf("settings changed to %+v", got)
	}
}
