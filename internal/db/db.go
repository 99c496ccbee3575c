package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ericbqEtos/artefakt-extension/internal/config"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Init initializes the SQLite database at baseDir/artefakt.db.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.artefakt.
func Init(baseDir string) (*sql.DB, error) {
	// Create base directory with restricted permissions
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	_ = os.Chmod(baseDir, 0700)

	// Screenshots referenced by source records live alongside the database
	shotsDir := filepath.Join(baseDir, "screenshots")
	if err := os.MkdirAll(shotsDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create screenshots directory: %w", err)
	}
	_ = os.Chmod(shotsDir, 0700)

	// Open database with pragmas in connection string (applies to all connections)
	dbPath := filepath.Join(baseDir, "artefakt.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify WAL mode is active
	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}

	// Run migrations (this creates the file if it doesn't exist)
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)

	return db, nil
}

// ConfigurePool applies connection pool settings from config.
// Only sets limits if explicitly configured (non-zero values).
func ConfigurePool(db *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: Initial schema (v1)
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS sources (
		  id              TEXT PRIMARY KEY,
		  type            TEXT NOT NULL,
		  platform        TEXT,
		  title           TEXT NOT NULL,
		  url             TEXT,
		  authors_json    TEXT,
		  issued_json     TEXT,
		  accessed_json   TEXT,
		  doi             TEXT,
		  publisher       TEXT,
		  container_title TEXT,
		  volume          TEXT,
		  issue           TEXT,
		  pages           TEXT,
		  abstract        TEXT,
		  ai_json         TEXT,
		  screenshot_json TEXT,
		  notes           TEXT,
		  excerpt         TEXT,
		  tags_json       TEXT,
		  group_ids_json  TEXT,
		  session_id      TEXT,
		  predecessor_id  TEXT,
		  capture_method  TEXT,
		  tab_title       TEXT,
		  tab_url         TEXT,
		  selection       TEXT,
		  created_at      INTEGER NOT NULL,
		  updated_at      INTEGER NOT NULL,
		  deleted_at      INTEGER
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_sources_active_url
		ON sources(url)
		WHERE url IS NOT NULL AND url != '' AND deleted_at IS NULL;

		CREATE INDEX IF NOT EXISTS idx_sources_updated
		ON sources(updated_at DESC)
		WHERE deleted_at IS NULL;

		CREATE INDEX IF NOT EXISTS idx_sources_session_created
		ON sources(session_id, created_at);

		CREATE TABLE IF NOT EXISTS style_cache (
		  style_id   TEXT PRIMARY KEY,
		  xml        TEXT NOT NULL,
		  fetched_at INTEGER NOT NULL
		);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
