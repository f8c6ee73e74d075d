// Package database opens the sqlite database backing the history and stats stores.
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DBControl holds the open database.
type DBControl struct {
	DB *sql.DB
}

// InitDB opens (creating if needed) the database at path and initializes its tables.
func InitDB(path string) (dbc *DBControl, err error) {
	var dc DBControl

	dc.DB, err = sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at path %q: %w", path, err)
	}

	// One writer at a time
	dc.DB.SetMaxOpenConns(1)

	if err := dc.initTables(); err != nil {
		_ = dc.DB.Close()
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}
	return &dc, nil
}

// Close closes the database.
func (dc *DBControl) Close() error {
	return dc.DB.Close()
}

// initTables initializes the SQL tables.
func (dc *DBControl) initTables() error {
	tx, err := dc.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := initHistoryTable(tx); err != nil {
		return err
	}

	if err := initStatsTable(tx); err != nil {
		return err
	}

	return tx.Commit()
}
