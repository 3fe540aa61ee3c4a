// Package sqldb opens the workspace SQLite database and owns its schema.
// Item, scratch, note, and link rows are written by the product's CRUD
// surface; this service reads them and owns only search_history.
package sqldb

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// Open opens (creating if necessary) the SQLite database at path and
// initializes the schema. Parent directories are created as needed.
func Open(path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	database, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := database.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := database.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := initSchema(database); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return database, nil
}

func initSchema(database *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		workspace_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		searchable_text TEXT NOT NULL DEFAULT '',
		mime_type TEXT NOT NULL DEFAULT '',
		storage_path TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		analysis TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_items_workspace ON items(workspace_id);

	CREATE TABLE IF NOT EXISTS scratches (
		id TEXT PRIMARY KEY,
		workspace_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		searchable_text TEXT NOT NULL DEFAULT '',
		preview_path TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_scratches_workspace ON scratches(workspace_id);

	CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		workspace_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		searchable_text TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_notes_workspace ON notes(workspace_id);

	CREATE TABLE IF NOT EXISTS links (
		id TEXT PRIMARY KEY,
		workspace_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		thumbnail_url TEXT NOT NULL DEFAULT '',
		video_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_links_workspace ON links(workspace_id);

	CREATE TABLE IF NOT EXISTS link_transcripts (
		id TEXT PRIMARY KEY,
		link_id TEXT NOT NULL,
		workspace_id TEXT NOT NULL,
		segment_text TEXT NOT NULL DEFAULT '',
		start_time REAL NOT NULL DEFAULT 0,
		FOREIGN KEY (link_id) REFERENCES links(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_transcripts_workspace ON link_transcripts(workspace_id);
	CREATE INDEX IF NOT EXISTS idx_transcripts_link ON link_transcripts(link_id);

	CREATE TABLE IF NOT EXISTS search_history (
		id TEXT PRIMARY KEY,
		workspace_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		query TEXT NOT NULL,
		result_count INTEGER NOT NULL DEFAULT 0,
		search_type TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_history_user ON search_history(workspace_id, user_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_history_query ON search_history(workspace_id, user_id, query);
	`
	if _, err := database.Exec(schema); err != nil {
		return fmt.Errorf("exec schema: %w", err)
	}
	return nil
}
