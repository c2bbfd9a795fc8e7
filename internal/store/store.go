package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the database handle for the persisted learning memory.
type Store struct {
	db *sql.DB
}

// Open creates a Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	if err := EnsureDir(dsn); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// MemoryRepo returns a MemoryRepo backed by this store.
func (s *Store) MemoryRepo() *MemoryRepo {
	return &MemoryRepo{db: s.db}
}

// applyPragmas configures SQLite for single-user desktop use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS vocabulary (
			language TEXT NOT NULL,
			word TEXT NOT NULL,
			PRIMARY KEY (language, word)
		)`,
		`CREATE TABLE IF NOT EXISTS grammar_points (
			language TEXT NOT NULL,
			point TEXT NOT NULL,
			PRIMARY KEY (language, point)
		)`,
		`CREATE TABLE IF NOT EXISTS activity_progress (
			language TEXT NOT NULL,
			activity_type TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (language, activity_type)
		)`,
		`CREATE TABLE IF NOT EXISTS session_history (
			position INTEGER PRIMARY KEY AUTOINCREMENT,
			data TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS spot_snapshots (
			created_at INTEGER PRIMARY KEY,
			content TEXT NOT NULL,
			was_spoken INTEGER NOT NULL,
			interaction_type TEXT NOT NULL,
			requires_response INTEGER NOT NULL,
			media_generated INTEGER NOT NULL,
			activity_type TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SPRACHERWERB_DB environment variable
// 2. $XDG_DATA_HOME/spracherwerb/spracherwerb.db
// 3. ~/.local/share/spracherwerb/spracherwerb.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SPRACHERWERB_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "spracherwerb", "spracherwerb.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
