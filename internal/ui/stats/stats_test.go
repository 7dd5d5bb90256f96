package stats

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/adibhanna/pomodoro/internal/models"
	"github.com/adibhanna/pomodoro/internal/storage"
)

var now = time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)

func seeded(t *testing.T) *storage.Storage {
	t.Helper()
	history := storage.New(storage.NewFileBackend(t.TempDir()))
	add := func(id string, mode models.Mode, start time.Time, d time.Duration) {
		rec := models.SessionRecord{ID: id, Mode: mode, StartTime: start, EndTime: start.Add(d), Duration: d}
		rec.Stamp(start)
		if err := history.SaveSession(rec); err != nil {
			t.Fatal(err)
		}
	}
	add("a", models.ModeFocus, now.Add(-5*time.Hour), 25*time.Minute)
	add("b", models.ModeShortBreak, now.Add(-4*time.Hour), 5*time.Minute)
	add("c", models.ModeFocus, now.Add(-48*time.Hour), 50*time.Minute)
	return history
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewsSwitchWithKeys(t *testing.T) {
	m := New(DayView, seeded(t), now, t.TempDir())
	tests := []struct {
		key  string
		want []string
	}{
		{"d", []string{"Daily Stats - Wednesday, March 4, 2026", "Focus Sessions: 1", "Break Time: 5m"}},
		{"w", []string{"Weekly Stats - Week 10, 2026", "Focus Sessions: 2", "1h 15m"}},
		{"m", []string{"Monthly Stats - March 2026", "Focus Sessions: 2"}},
		{"y", []string{"Yearly Stats - 2026", "March: 2 sessions (1h 15m)"}},
	}
	for _, tt := range tests {
		m, _ = m.Update(keyPress(tt.key))
		view := m.View()
		for _, want := range tt.want {
			if !strings.Contains(view, want) {
				t.Errorf("%s view missing %q", tt.key, want)
			}
		}
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	m := New(DayView, seeded(t), now, dir)

	for _, format := range []string{"txt", "pdf"} {
		k := "e"
		if format == "pdf" {
			k = "E"
		}
		_, cmd := m.Update(keyPress(k))
		msg, ok := cmd().(exportResultMsg)
		if !ok || !msg.success {
			t.Fatalf("%s export failed: %+v", format, msg)
		}

		data, err := os.ReadFile(filepath.Join(dir, "pomodoro-stats-2026-03-04-150000."+format))
		if err != nil {
			t.Fatal(err)
		}
		switch format {
		case "txt":
			if !strings.Contains(string(data), "Focus Sessions") {
				t.Errorf("text report missing focus sessions:\n%s", data)
			}
		case "pdf":
			if !bytes.HasPrefix(data, []byte("%PDF")) {
				t.Error("pdf export is not a PDF")
			}
		}
	}
}

func TestBackCloses(t *testing.T) {
	m := New(WeekView, seeded(t), now, "")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.Done() {
		t.Fatal("esc did not close the stats view")
	}
}
