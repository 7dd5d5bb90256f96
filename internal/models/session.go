package models

import (
	"time"
)

// SessionRecord is one completed countdown, appended to the history.
type SessionRecord struct {
	ID        string        `json:"id"`
	Mode      Mode          `json:"mode"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Date      string        `json:"date"`  // YYYY-MM-DD format
	Week      int           `json:"week"`  // ISO week number
	Month     string        `json:"month"` // YYYY-MM format
	Year      int           `json:"year"`
}

// Minutes is the planned length of the countdown in whole minutes.
func (r SessionRecord) Minutes() int {
	return int(r.Duration / time.Minute)
}

// Stamp fills the calendar fields from t.
func (r *SessionRecord) Stamp(t time.Time) {
	_, week := t.ISOWeek()
	r.Date = t.Format("2006-01-02")
	r.Week = week
	r.Month = t.Format("2006-01")
	r.Year = t.Year()
}

type DayStats struct {
	Date          string          `json:"date"`
	SessionsCount int             `json:"sessions_count"`
	TotalMinutes  int             `json:"total_minutes"`
	BreakMinutes  int             `json:"break_minutes"`
	Sessions      []SessionRecord `json:"sessions"`
}

type WeekStats struct {
	Week          int        `json:"week"`
	Year          int        `json:"year"`
	SessionsCount int        `json:"sessions_count"`
	TotalMinutes  int        `json:"total_minutes"`
	DailyStats    []DayStats `json:"daily_stats"`
}

type MonthStats struct {
	Month         string `json:"month"`
	Year          int    `json:"year"`
	SessionsCount int    `json:"sessions_count"`
	TotalMinutes  int    `json:"total_minutes"`
}

type YearStats struct {
	Year          int          `json:"year"`
	SessionsCount int          `json:"sessions_count"`
	TotalMinutes  int          `json:"total_minutes"`
	MonthlyStats  []MonthStats `json:"monthly_stats"`
}
