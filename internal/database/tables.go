package database

import (
	"database/sql"
	"fmt"
)

// initHistoryTable initializes the download history table.
func initHistoryTable(tx *sql.Tx) error {
	query := `
    CREATE TABLE IF NOT EXISTS download_history (
        seq INTEGER PRIMARY KEY AUTOINCREMENT,
        id TEXT NOT NULL UNIQUE,
        title TEXT NOT NULL,
        format TEXT NOT NULL,
        path TEXT NOT NULL,
        timestamp TEXT NOT NULL,
        duration REAL DEFAULT 0,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_download_history_created_at ON download_history(created_at);
    `
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create download history table: %w", err)
	}
	return nil
}

// initStatsTable initializes the single-row download stats table.
func initStatsTable(tx *sql.Tx) error {
	query := `
    CREATE TABLE IF NOT EXISTS download_stats (
        id INTEGER PRIMARY KEY CHECK (id = 1),
        total_downloads INTEGER NOT NULL DEFAULT 0,
        total_size_mb REAL NOT NULL DEFAULT 0,
        total_time_saved REAL NOT NULL DEFAULT 0,
        updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );
    INSERT OR IGNORE INTO download_stats (id) VALUES (1);
    `
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create download stats table: %w", err)
	}
	return nil
}
