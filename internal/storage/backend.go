package storage

import (
	"fmt"
	"os"

	"github.com/adibhanna/pomodoro/internal/models"
)

// Backend kinds accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// Backend is the key/value record store plus the session history.
type Backend interface {
	// Get returns the raw value stored under key, or ErrNotFound.
	Get(key string) (string, error)
	Put(key, value string) error
	AppendSession(rec models.SessionRecord) error
	Sessions() ([]models.SessionRecord, error)
	// Location is the file whose modification signals a change to key.
	Location(key string) string
	Reset() error
	Close() error
}

// Open creates the data directory and returns the backend of the given kind.
func Open(kind, dataDir string) (Backend, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, wrapErr("create", "data directory", err)
	}
	switch kind {
	case "", KindFile:
		return NewFileBackend(dataDir), nil
	case KindSQLite:
		return OpenSQLite(dataDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}
