package repo

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"ytxtract/internal/domain/consts"
	"ytxtract/internal/models"
	"ytxtract/internal/utils/logging"
)

// HistoryDBStore keeps the recent-downloads list in sqlite.
type HistoryDBStore struct {
	DB *sql.DB
	mu sync.Mutex
}

// GetHistoryDBStore returns a history store instance with injected database.
func GetHistoryDBStore(db *sql.DB) *HistoryDBStore {
	return &HistoryDBStore{
		DB: db,
	}
}

// Add inserts an entry and trims the table to the newest entries.
func (hs *HistoryDBStore) Add(e models.HistoryEntry) (err error) {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	tx, err := hs.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.E("Panic rollback failed for history entry %q: %v", e.Title, rbErr)
			}
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.E("Error rolling back history entry %q (original error: %v): %v", e.Title, err, rbErr)
			}
		}
	}()

	insert := squirrel.
		Insert(consts.DBHistory).
		Columns(consts.QHistID, consts.QHistTitle, consts.QHistFormat, consts.QHistPath, consts.QHistTimestamp, consts.QHistDuration).
		Values(uuid.NewString(), e.Title, e.Format, e.Path, e.Timestamp, e.DurationSeconds).
		RunWith(tx)

	if _, err = insert.Exec(); err != nil {
		return fmt.Errorf("failed to insert history entry %q: %w", e.Title, err)
	}

	trim := squirrel.
		Delete(consts.DBHistory).
		Where(squirrel.Expr(
			consts.QHistSeq+" NOT IN (SELECT "+consts.QHistSeq+" FROM "+consts.DBHistory+" ORDER BY "+consts.QHistSeq+" DESC LIMIT ?)",
			consts.HistoryMax)).
		RunWith(tx)

	if _, err = trim.Exec(); err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// List returns the entries, newest first.
func (hs *HistoryDBStore) List() ([]models.HistoryEntry, error) {
	query := squirrel.
		Select(consts.QHistTitle, consts.QHistFormat, consts.QHistPath, consts.QHistTimestamp, consts.QHistDuration).
		From(consts.DBHistory).
		OrderBy(consts.QHistSeq + " DESC").
		Limit(consts.HistoryMax).
		RunWith(hs.DB)

	rows, err := query.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.E("Failed to close rows: %v", err)
		}
	}()

	var entries []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.Title, &e.Format, &e.Path, &e.Timestamp, &e.DurationSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
