package repo

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"ytxtract/internal/domain/consts"
	"ytxtract/internal/models"
)

// StatsDBStore keeps cumulative statistics in a single sqlite row.
type StatsDBStore struct {
	DB *sql.DB
}

// GetStatsDBStore returns a stats store instance with injected database.
func GetStatsDBStore(db *sql.DB) *StatsDBStore {
	return &StatsDBStore{
		DB: db,
	}
}

// Record adds one successful download to the totals.
func (ss *StatsDBStore) Record(sizeMB float64, elapsed time.Duration) error {
	query := squirrel.
		Update(consts.DBStats).
		Set(consts.QStatsTotalDownloads, squirrel.Expr(consts.QStatsTotalDownloads+" + 1")).
		Set(consts.QStatsTotalSizeMB, squirrel.Expr(consts.QStatsTotalSizeMB+" + ?", sizeMB)).
		Set(consts.QStatsTotalTimeSaved, squirrel.Expr(consts.QStatsTotalTimeSaved+" + ?", elapsed.Seconds())).
		Set(consts.QStatsUpdatedAt, time.Now()).
		Where(squirrel.Eq{consts.QStatsID: consts.StatsRowID}).
		RunWith(ss.DB)

	if _, err := query.Exec(); err != nil {
		return fmt.Errorf("failed to update download stats: %w", err)
	}
	return nil
}

// Get returns the current totals.
func (ss *StatsDBStore) Get() (models.Stats, error) {
	var s models.Stats
	query := squirrel.
		Select(consts.QStatsTotalDownloads, consts.QStatsTotalSizeMB, consts.QStatsTotalTimeSaved).
		From(consts.DBStats).
		Where(squirrel.Eq{consts.QStatsID: consts.StatsRowID}).
		RunWith(ss.DB)

	if err := query.QueryRow().Scan(&s.TotalDownloads, &s.TotalSizeMB, &s.TotalTimeSavedSeconds); err != nil {
		return models.Stats{}, fmt.Errorf("failed to read download stats: %w", err)
	}
	return s, nil
}
