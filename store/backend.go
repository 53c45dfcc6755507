package store

import (
	"encoding/json"
	"fmt"
)

// Entry is one stored record in its raw form, keyed by hash id.
type Entry struct {
	Key   string
	Value json.RawMessage
}

// Backend is the durable mirror of a Store. Load returns entries in stored
// order, and an empty slice when nothing has been saved yet. Save replaces
// everything previously stored.
type Backend interface {
	Load() ([]Entry, error)
	Save(entries []Entry) error
}

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// BackendFor picks a backend by kind; an empty kind means JSON.
func BackendFor(kind, path string) (Backend, error) {
	switch kind {
	case "", BackendJSON:
		return &JSONFile{Path: path}, nil
	case BackendSQLite:
		return &SQLite{Path: path}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want %s or %s)", kind, BackendJSON, BackendSQLite)
	}
}
