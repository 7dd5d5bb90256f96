package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/adibhanna/pomodoro/internal/models"
)

// FileBackend keeps each record in <dataDir>/<key>.json and the history in
// <dataDir>/sessions.json.
type FileBackend struct {
	dataDir string
}

func NewFileBackend(dataDir string) *FileBackend {
	return &FileBackend{dataDir: dataDir}
}

func (f *FileBackend) sessionsFile() string {
	return filepath.Join(f.dataDir, "sessions.json")
}

func (f *FileBackend) Location(key string) string {
	return filepath.Join(f.dataDir, key+".json")
}

func (f *FileBackend) Get(key string) (string, error) {
	data, err := os.ReadFile(f.Location(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", wrapErr("read", key, err)
	}
	return string(data), nil
}

func (f *FileBackend) Put(key, value string) error {
	return wrapErr("write", key, writeAtomic(f.Location(key), []byte(value)))
}

func (f *FileBackend) AppendSession(rec models.SessionRecord) error {
	sessions, err := f.Sessions()
	if err != nil {
		return err
	}

	// Replace a record with the same ID instead of duplicating it.
	found := false
	for i, existing := range sessions {
		if existing.ID == rec.ID {
			sessions[i] = rec
			found = true
			break
		}
	}
	if !found {
		sessions = append(sessions, rec)
	}

	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return wrapErr("encode", "sessions", err)
	}
	return wrapErr("write", "sessions", writeAtomic(f.sessionsFile(), data))
}

func (f *FileBackend) Sessions() ([]models.SessionRecord, error) {
	data, err := os.ReadFile(f.sessionsFile())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.SessionRecord{}, nil
		}
		return nil, wrapErr("read", "sessions", err)
	}

	var sessions []models.SessionRecord
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, wrapErr("decode", "sessions", err)
	}
	return sessions, nil
}

// Reset removes the history and the settings record.
func (f *FileBackend) Reset() error {
	for _, path := range []string{f.sessionsFile(), f.Location(SettingsKey)} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return wrapErr("remove", filepath.Base(path), err)
		}
	}
	return nil
}

func (f *FileBackend) Close() error { return nil }

// writeAtomic writes data to a temp file in the same directory and renames
// it over path, so readers never see a partial record.
func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
