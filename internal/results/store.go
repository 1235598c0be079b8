package results

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stamped into PRAGMA user_version on every Open.
// Open refuses a database stamped by a newer layout.
const schemaVersion = 1

// connParams are applied by the driver to every new connection.
var connParams = []string{
	"_journal_mode=WAL",
	"_synchronous=NORMAL",
	"_busy_timeout=5000",
	"_foreign_keys=1",
}

// Store is the SQLite result log. Rows are written as trials end, so an
// aborted session keeps everything it completed.
type Store struct {
	db *sql.DB
}

// Open creates or opens the result log at path (":memory:" for tests).
// Opening an existing log is safe and leaves its rows untouched.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open result log: %w", err)
	}

	// One connection: a single writer, and one shared in-memory database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to result log %s: %w", path, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(connParams, "&")
}

// initSchema applies the idempotent schema and stamps its version.
func initSchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("result log schema version %d is newer than supported version %d", version, schemaVersion)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("stamp schema version: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// pragma reads a pragma value. Used by tests.
func (s *Store) pragma(name string) (string, error) {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("query %s: %w", name, err)
	}
	return value, nil
}
