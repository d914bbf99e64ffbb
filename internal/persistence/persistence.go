package persistence

import (
	"database/sql"
)

// Persistence bundles the store interfaces so callers can depend on a single
// abstraction.
type Persistence struct {
	Directory Directory
	Events    EventStore
}

// NewInMemory returns a Persistence whose stores live in process memory.
func NewInMemory() Persistence {
	mem := NewInMemoryStore()
	return Persistence{
		Directory: mem,
		Events:    mem,
	}
}

// NewSQLite returns a Persistence backed by db, creating the schema if needed.
// The caller is responsible for importing the driver, e.g.:
//
//	import _ "modernc.org/sqlite"
func NewSQLite(db *sql.DB) (Persistence, error) {
	dir, err := NewSQLiteDirectory(db)
	if err != nil {
		return Persistence{}, err
	}
	events, err := NewSQLiteEventStore(db)
	if err != nil {
		return Persistence{}, err
	}
	return Persistence{
		Directory: dir,
		Events:    events,
	}, nil
}
