package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/adibhanna/pomodoro/internal/models"
)

// SQLiteBackend stores records in <dataDir>/pomodoro.db.
type SQLiteBackend struct {
	DB   *sql.DB
	path string
}

// OpenSQLite opens the database and bootstraps its schema.
func OpenSQLite(dataDir string) (*SQLiteBackend, error) {
	path := filepath.Join(dataDir, "pomodoro.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, wrapErr("open", "database", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, wrapErr("open", "database", err)
	}
	// One connection keeps writes serialized.
	db.SetMaxOpenConns(1)

	s := &SQLiteBackend{DB: db, path: path}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteBackend) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			start_time TEXT,
			end_time TEXT,
			duration_seconds INTEGER DEFAULT 0,
			date TEXT NOT NULL,
			week INTEGER,
			month TEXT,
			year INTEGER
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(date);`,
	}
	for _, query := range queries {
		if _, err := s.DB.Exec(query); err != nil {
			return wrapErr("create", "schema", err)
		}
	}
	return nil
}

func (s *SQLiteBackend) Location(string) string { return s.path }

func (s *SQLiteBackend) Get(key string) (string, error) {
	var value sql.NullString
	err := s.DB.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !value.Valid) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", wrapErr("get", key, err)
	}
	return value.String, nil
}

func (s *SQLiteBackend) Put(key, value string) error {
	_, err := s.DB.Exec("INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value", key, value)
	return wrapErr("put", key, err)
}

func (s *SQLiteBackend) AppendSession(rec models.SessionRecord) error {
	_, err := s.DB.Exec(`
		INSERT INTO sessions (id, mode, start_time, end_time, duration_seconds, date, week, month, year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			mode = excluded.mode,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			duration_seconds = excluded.duration_seconds,
			date = excluded.date,
			week = excluded.week,
			month = excluded.month,
			year = excluded.year`,
		rec.ID, string(rec.Mode), formatTime(rec.StartTime), formatTime(rec.EndTime),
		int64(rec.Duration/time.Second), rec.Date, rec.Week, rec.Month, rec.Year)
	return wrapErr("append", "session", err)
}

func (s *SQLiteBackend) Sessions() ([]models.SessionRecord, error) {
	rows, err := s.DB.Query(`
		SELECT id, mode, start_time, end_time, duration_seconds, date, week, month, year
		FROM sessions
		ORDER BY start_time ASC, rowid ASC`)
	if err != nil {
		return nil, wrapErr("list", "sessions", err)
	}
	defer rows.Close()

	sessions := []models.SessionRecord{}
	for rows.Next() {
		var (
			rec        models.SessionRecord
			mode       string
			start, end sql.NullString
			seconds    int64
		)
		if err := rows.Scan(&rec.ID, &mode, &start, &end, &seconds, &rec.Date, &rec.Week, &rec.Month, &rec.Year); err != nil {
			return nil, wrapErr("scan", "session", err)
		}
		rec.Mode = models.Mode(mode)
		rec.StartTime = parseTime(start)
		rec.EndTime = parseTime(end)
		rec.Duration = time.Duration(seconds) * time.Second
		sessions = append(sessions, rec)
	}
	return sessions, wrapErr("list", "sessions", rows.Err())
}

// Reset removes the history and the settings record.
func (s *SQLiteBackend) Reset() error {
	tx, err := s.DB.Begin()
	if err != nil {
		return wrapErr("reset", "database", err)
	}
	if _, err := tx.Exec("DELETE FROM sessions"); err != nil {
		tx.Rollback()
		return wrapErr("reset", "sessions", err)
	}
	if _, err := tx.Exec("DELETE FROM settings WHERE key = ?", SettingsKey); err != nil {
		tx.Rollback()
		return wrapErr("reset", "settings", err)
	}
	return wrapErr("reset", "database", tx.Commit())
}

func (s *SQLiteBackend) Close() error {
	return s.DB.Close()
}

func formatTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339Nano), Valid: true}
}

func parseTime(v sql.NullString) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, v.String)
	if err != nil {
		return time.Time{}
	}
	return t
}
