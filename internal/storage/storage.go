// Package storage persists the user preferences record and the history of
// completed countdowns, and aggregates the history into calendar stats.
package storage

import (
	"fmt"
	"sort"
	"time"

	"github.com/adibhanna/pomodoro/internal/models"
)

// Storage is the history view over a Backend.
type Storage struct {
	backend Backend
}

func New(backend Backend) *Storage {
	return &Storage{backend: backend}
}

func (s *Storage) Backend() Backend {
	return s.backend
}

func (s *Storage) SaveSession(rec models.SessionRecord) error {
	return s.backend.AppendSession(rec)
}

func (s *Storage) GetAllSessions() ([]models.SessionRecord, error) {
	return s.backend.Sessions()
}

func (s *Storage) GetTodaySessions() ([]models.SessionRecord, error) {
	return s.GetSessionsByDate(time.Now().Format("2006-01-02"))
}

func (s *Storage) GetSessionsByDate(date string) ([]models.SessionRecord, error) {
	return s.filter(func(r models.SessionRecord) bool { return r.Date == date })
}

func (s *Storage) GetWeekSessions(year, week int) ([]models.SessionRecord, error) {
	return s.filter(func(r models.SessionRecord) bool { return r.Year == year && r.Week == week })
}

func (s *Storage) GetMonthSessions(year, month int) ([]models.SessionRecord, error) {
	monthStr := fmt.Sprintf("%04d-%02d", year, month)
	return s.filter(func(r models.SessionRecord) bool { return r.Month == monthStr })
}

func (s *Storage) GetYearSessions(year int) ([]models.SessionRecord, error) {
	return s.filter(func(r models.SessionRecord) bool { return r.Year == year })
}

func (s *Storage) filter(keep func(models.SessionRecord) bool) ([]models.SessionRecord, error) {
	all, err := s.GetAllSessions()
	if err != nil {
		return nil, err
	}
	var out []models.SessionRecord
	for _, r := range all {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Only focus sessions count towards sessions and focus minutes.
func (s *Storage) GetDayStats(date string) (models.DayStats, error) {
	sessions, err := s.GetSessionsByDate(date)
	if err != nil {
		return models.DayStats{}, err
	}
	return dayStats(date, sessions), nil
}

func dayStats(date string, sessions []models.SessionRecord) models.DayStats {
	stats := models.DayStats{Date: date, Sessions: sessions}
	for _, r := range sessions {
		if r.Mode == models.ModeFocus {
			stats.SessionsCount++
			stats.TotalMinutes += r.Minutes()
		} else {
			stats.BreakMinutes += r.Minutes()
		}
	}
	return stats
}

func (s *Storage) GetWeekStats(year, week int) (models.WeekStats, error) {
	sessions, err := s.GetWeekSessions(year, week)
	if err != nil {
		return models.WeekStats{}, err
	}

	stats := models.WeekStats{Week: week, Year: year}
	dateMap := make(map[string][]models.SessionRecord)
	for _, r := range sessions {
		if r.Mode == models.ModeFocus {
			stats.SessionsCount++
			stats.TotalMinutes += r.Minutes()
		}
		dateMap[r.Date] = append(dateMap[r.Date], r)
	}

	for _, date := range sortedKeys(dateMap) {
		stats.DailyStats = append(stats.DailyStats, dayStats(date, dateMap[date]))
	}
	return stats, nil
}

func (s *Storage) GetMonthStats(year, month int) (models.MonthStats, error) {
	sessions, err := s.GetMonthSessions(year, month)
	if err != nil {
		return models.MonthStats{}, err
	}
	return monthStats(fmt.Sprintf("%04d-%02d", year, month), year, sessions), nil
}

func monthStats(month string, year int, sessions []models.SessionRecord) models.MonthStats {
	stats := models.MonthStats{Month: month, Year: year}
	for _, r := range sessions {
		if r.Mode == models.ModeFocus {
			stats.SessionsCount++
			stats.TotalMinutes += r.Minutes()
		}
	}
	return stats
}

func (s *Storage) GetYearStats(year int) (models.YearStats, error) {
	sessions, err := s.GetYearSessions(year)
	if err != nil {
		return models.YearStats{}, err
	}

	stats := models.YearStats{Year: year}
	monthMap := make(map[string][]models.SessionRecord)
	for _, r := range sessions {
		if r.Mode != models.ModeFocus {
			continue
		}
		stats.SessionsCount++
		stats.TotalMinutes += r.Minutes()
		monthMap[r.Month] = append(monthMap[r.Month], r)
	}

	for _, month := range sortedKeys(monthMap) {
		stats.MonthlyStats = append(stats.MonthlyStats, monthStats(month, year, monthMap[month]))
	}
	return stats, nil
}

// ResetAllData removes the history and the settings record.
func (s *Storage) ResetAllData() error {
	return s.backend.Reset()
}

func sortedKeys(m map[string][]models.SessionRecord) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
