package storage

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/adibhanna/pomodoro/internal/models"
)

// Report is the aggregate rendered by the text and PDF exports.
type Report struct {
	Generated     time.Time
	TotalSessions int
	FocusSessions int
	FocusMinutes  int
	BreakMinutes  int
	Years         []models.YearStats
	CurrentWeek   models.WeekStats
	Today         models.DayStats
	TodaySessions []models.SessionRecord
}

// BuildReport aggregates the whole history as of now.
func (s *Storage) BuildReport(now time.Time) (Report, error) {
	all, err := s.GetAllSessions()
	if err != nil {
		return Report{}, err
	}

	r := Report{Generated: now, TotalSessions: len(all)}
	seenYears := make(map[int]bool)
	var years []int
	for _, rec := range all {
		if rec.Mode == models.ModeFocus {
			r.FocusSessions++
			r.FocusMinutes += rec.Minutes()
			if !seenYears[rec.Year] {
				seenYears[rec.Year] = true
				years = append(years, rec.Year)
			}
		} else {
			r.BreakMinutes += rec.Minutes()
		}
	}
	for _, year := range years {
		ys, err := s.GetYearStats(year)
		if err != nil {
			return Report{}, err
		}
		r.Years = append(r.Years, ys)
	}

	_, week := now.ISOWeek()
	if r.CurrentWeek, err = s.GetWeekStats(now.Year(), week); err != nil {
		return Report{}, err
	}
	if r.Today, err = s.GetDayStats(now.Format("2006-01-02")); err != nil {
		return Report{}, err
	}
	for _, rec := range r.Today.Sessions {
		if rec.Mode == models.ModeFocus {
			r.TodaySessions = append(r.TodaySessions, rec)
		}
	}
	return r, nil
}

// FormatMinutes renders minutes as "1h 5m" or "45m".
func FormatMinutes(total int) string {
	hours := total / 60
	mins := total % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// Lines renders the report as plain text lines, shared by both exports.
func (r Report) Lines() []string {
	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	add("Pomodoro - Statistics Report")
	add("Generated: %s", r.Generated.Format("January 2, 2006 3:04 PM"))
	add("=====================================")
	add("")

	add("OVERALL STATISTICS")
	add("------------------")
	add("Completed Countdowns: %d", r.TotalSessions)
	add("Focus Sessions: %d", r.FocusSessions)
	add("Total Focus Time: %s", FormatMinutes(r.FocusMinutes))
	add("Total Break Time: %s", FormatMinutes(r.BreakMinutes))
	if r.FocusSessions > 0 {
		add("Average Session Duration: %d minutes", r.FocusMinutes/r.FocusSessions)
	}
	add("")

	for _, ys := range r.Years {
		add("YEAR %d", ys.Year)
		add("--------")
		add("Sessions: %d", ys.SessionsCount)
		add("Total Time: %s", FormatMinutes(ys.TotalMinutes))
		add("Average: %.1f sessions per day", float64(ys.SessionsCount)/365.0)
		for _, ms := range ys.MonthlyStats {
			monthTime, _ := time.Parse("2006-01", ms.Month)
			add("  %s: %d sessions (%s)", monthTime.Format("January"), ms.SessionsCount, FormatMinutes(ms.TotalMinutes))
		}
		add("")
	}

	if r.CurrentWeek.SessionsCount > 0 {
		add("CURRENT WEEK (Week %d, %d)", r.CurrentWeek.Week, r.CurrentWeek.Year)
		add("------------------------")
		add("Sessions: %d", r.CurrentWeek.SessionsCount)
		add("Total Time: %s", FormatMinutes(r.CurrentWeek.TotalMinutes))
		for _, ds := range r.CurrentWeek.DailyStats {
			date, _ := time.Parse("2006-01-02", ds.Date)
			add("  %s: %d sessions (%s)", date.Format("Monday"), ds.SessionsCount, FormatMinutes(ds.TotalMinutes))
		}
		add("")
	}

	if r.Today.SessionsCount > 0 {
		add("TODAY (%s)", r.Generated.Format("Monday, January 2, 2006"))
		add("-------------------------------")
		add("Sessions: %d", r.Today.SessionsCount)
		add("Total Time: %s", FormatMinutes(r.Today.TotalMinutes))
		add("")
		add("Session Details:")
		for i, rec := range r.TodaySessions {
			add("  Session %d: %s - %s (%d min)", i+1,
				rec.StartTime.Local().Format("3:04 PM"),
				rec.EndTime.Local().Format("3:04 PM"),
				rec.Minutes())
		}
	}
	return lines
}

// Text is the plain text report.
func (r Report) Text() string {
	return strings.Join(r.Lines(), "\n") + "\n"
}

// WritePDF renders the report as a single A4 document.
func (r Report) WritePDF(w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Pomodoro Report")
	pdf.Ln(12)

	lines := r.Lines()
	for i := 1; i < len(lines); i++ {
		line := lines[i]
		switch {
		case line == "":
			pdf.Ln(4)
		case isRule(line):
		case i+1 < len(lines) && isRule(lines[i+1]):
			pdf.SetFont("Arial", "B", 14)
			pdf.Cell(0, 10, line)
			pdf.Ln(8)
		default:
			pdf.SetFont("Arial", "", 12)
			pdf.Cell(0, 8, line)
			pdf.Ln(6)
		}
	}
	return wrapErr("export", "pdf", pdf.Output(w))
}

// Export formats accepted by WriteFile.
const (
	FormatText = "txt"
	FormatPDF  = "pdf"
)

// WriteFile writes the report to path in the given format.
func (r Report) WriteFile(path, format string) (err error) {
	switch format {
	case FormatText:
		return wrapErr("export", path, os.WriteFile(path, []byte(r.Text()), 0o644))
	case FormatPDF:
	default:
		return fmt.Errorf("unknown report format %q", format)
	}

	f, err := os.Create(path)
	if err != nil {
		return wrapErr("export", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = wrapErr("export", path, cerr)
		}
	}()
	return r.WritePDF(f)
}

func isRule(line string) bool {
	return line != "" && strings.Trim(line, "-=") == ""
}
