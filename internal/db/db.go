package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// pragmas run on every open, in order. journal_mode is skipped for memory
// databases, which always report "memory".
var pragmas = []struct {
	name, stmt string
	fileOnly   bool
}{
	{"WAL mode", "PRAGMA journal_mode = WAL", true},
	{"foreign keys", "PRAGMA foreign_keys = ON", false},
	{"busy timeout", "PRAGMA busy_timeout = 5000", false},
}

// OpenDB opens the participant's state database at path, creating the
// parent directory when needed, and brings the schema up to date. Pass
// MemoryPath for a throwaway database.
func OpenDB(path string) (*sql.DB, error) {
	memory := path == MemoryPath
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Each connection to :memory: would otherwise see its own empty database.
	if memory {
		db.SetMaxOpenConns(1)
	}

	for _, p := range pragmas {
		if p.fileOnly && memory {
			continue
		}
		if _, err := db.Exec(p.stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting %s: %w", p.name, err)
		}
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}
