package timer

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/adibhanna/pomodoro/internal/core/session"
	"github.com/adibhanna/pomodoro/internal/models"
	"github.com/adibhanna/pomodoro/internal/storage"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newModel(t *testing.T) (Model, *session.Controller, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	backend := storage.NewFileBackend(t.TempDir())
	sink := NewSink()
	ctrl, err := session.New(session.Options{
		Settings: storage.NewSettingsStore(backend),
		History:  storage.New(backend),
		Renderer: sink,
		Clock:    clock,
		Delay:    0,
	})
	if err != nil {
		t.Fatal(err)
	}
	return New(ctrl, sink, 250*time.Millisecond), ctrl, clock
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSpaceStartsAndSchedulesTick(t *testing.T) {
	m, ctrl, _ := newModel(t)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if !ctrl.Engine().Running() {
		t.Fatal("space did not start the countdown")
	}
	if cmd == nil {
		t.Fatal("starting should schedule a tick")
	}

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if ctrl.Engine().Running() {
		t.Fatal("second space did not pause")
	}
	if cmd != nil {
		t.Fatal("pausing should not schedule anything")
	}
	_ = m
}

func TestStaleTickIsDropped(t *testing.T) {
	m, ctrl, clock := newModel(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	stale := ctrl.Engine().Registration()

	m, _ = m.Update(runes("r"))
	clock.now = clock.now.Add(time.Minute)

	_, cmd := m.Update(TickMsg{Registration: stale, Time: clock.now})
	if cmd != nil {
		t.Fatal("stale tick rescheduled itself")
	}
	if got := ctrl.Engine().Remaining(); got != 25*time.Minute {
		t.Fatalf("remaining = %v, want 25m", got)
	}
}

func TestTickCompletesAndTransitions(t *testing.T) {
	m, ctrl, clock := newModel(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})

	clock.now = clock.now.Add(10 * time.Minute)
	m, cmd := m.Update(TickMsg{Registration: ctrl.Engine().Registration(), Time: clock.now})
	if cmd == nil {
		t.Fatal("running countdown should keep ticking")
	}
	if !strings.Contains(m.sink.Frame().TimeString, "15:00") {
		t.Fatalf("time = %q, want 15:00", m.sink.Frame().TimeString)
	}

	clock.now = clock.now.Add(15 * time.Minute)
	m, cmd = m.Update(TickMsg{Registration: ctrl.Engine().Registration(), Time: clock.now})
	if ctrl.Engine().Running() {
		t.Fatal("countdown still running at zero")
	}
	msg, ok := cmd().(TransitionMsg)
	if !ok {
		t.Fatal("completion did not schedule a transition")
	}
	if msg.Transition.Next != models.ModeShortBreak || !msg.Transition.Manual {
		t.Fatalf("transition = %+v, want manual short break", msg.Transition)
	}

	m, _ = m.Update(msg)
	if got := ctrl.Engine().Mode(); got != models.ModeShortBreak {
		t.Fatalf("mode = %s, want short break", got)
	}
	if got := m.sink.Frame().TimeString; got != "05:00" {
		t.Fatalf("time = %q, want 05:00", got)
	}
}

func TestModeKeys(t *testing.T) {
	m, ctrl, _ := newModel(t)

	tests := []struct {
		msg  tea.KeyMsg
		want models.Mode
	}{
		{runes("3"), models.ModeLongBreak},
		{runes("n"), models.ModeFocus},
		{tea.KeyMsg{Type: tea.KeyLeft}, models.ModeLongBreak},
		{runes("2"), models.ModeShortBreak},
		{runes("1"), models.ModeFocus},
	}
	for _, tt := range tests {
		m, _ = m.Update(tt.msg)
		if got := ctrl.Engine().Mode(); got != tt.want {
			t.Fatalf("after %q mode = %s, want %s", tt.msg.String(), got, tt.want)
		}
		if ctrl.Engine().Running() {
			t.Fatalf("after %q countdown started on a manual switch", tt.msg.String())
		}
	}
}

func TestBlurSuspends(t *testing.T) {
	m, ctrl, clock := newModel(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	clock.now = clock.now.Add(time.Minute)

	m, _ = m.Update(tea.BlurMsg{})
	if !ctrl.Engine().Suspended() {
		t.Fatal("blur did not suspend the countdown")
	}
	if got := ctrl.Engine().Remaining(); got != 24*time.Minute {
		t.Fatalf("remaining = %v, want 24m", got)
	}

	m, _ = m.Update(tea.FocusMsg{})
	if ctrl.Engine().Running() {
		t.Fatal("focus resumed the countdown")
	}
	if !strings.Contains(m.View(), "Suspended") {
		t.Fatal("view does not mention the suspension")
	}
}

func TestRenderBigTime(t *testing.T) {
	lines := strings.Split(renderBigTime("120:00"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d rows, want 5", len(lines))
	}
	short := strings.Split(renderBigTime("25:00"), "\n")
	if len([]rune(lines[0])) <= len([]rune(short[0])) {
		t.Fatal("three digit minutes should render wider")
	}
}
