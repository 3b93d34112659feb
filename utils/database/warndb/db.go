package warndb

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Init opens the moderation database and ensures both tables exist.
func Init(dbPath string) (*sqlx.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	// sqlite allows one writer at a time; a single pooled connection also
	// keeps :memory: databases from splitting across connections.
	db.SetMaxOpenConns(1)

	warningsSchema := `CREATE TABLE IF NOT EXISTS warnings (
	          id INTEGER PRIMARY KEY AUTOINCREMENT,
	          guild_id TEXT NOT NULL,
	          user_id TEXT NOT NULL,
	          moderator_id TEXT NOT NULL,
	          reason TEXT NOT NULL,
	          created_at INTEGER NOT NULL,
	          auto_action_type TEXT,
	          auto_action_at INTEGER
	      );`
	if _, err := db.Exec(warningsSchema); err != nil {
		return nil, fmt.Errorf("failed to create warnings table: %w", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_warnings_member ON warnings (guild_id, user_id)`); err != nil {
		return nil, fmt.Errorf("failed to create warnings index: %w", err)
	}

	punishmentsSchema := `CREATE TABLE IF NOT EXISTS punishments (
	          guild_id TEXT NOT NULL,
	          user_id TEXT NOT NULL,
	          active_timeout_until INTEGER,
	          active_ban INTEGER NOT NULL DEFAULT 0,
	          reason TEXT,
	          last_auto_action TEXT NOT NULL DEFAULT '',
	          last_auto_action_at INTEGER,
	          PRIMARY KEY (guild_id, user_id)
	      );`
	if _, err := db.Exec(punishmentsSchema); err != nil {
		return nil, fmt.Errorf("failed to create punishments table: %w", err)
	}

	return db, nil
}
