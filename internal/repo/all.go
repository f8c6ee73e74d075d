// Package repo persists download history and statistics.
package repo

import (
	"fmt"

	"ytxtract/internal/contracts"
	"ytxtract/internal/database"
	"ytxtract/internal/domain/keys"
	"ytxtract/internal/utils/logging"
)

// Store holds the history and stats stores of one backend.
type Store struct {
	historyStore contracts.HistoryStore
	statsStore   contracts.StatsStore
	closer       func() error
}

// StoreOptions names the backend and its file locations.
type StoreOptions struct {
	Backend     string
	HistoryFile string
	StatsFile   string
	DBFile      string
}

// InitStores opens the stores of the configured backend.
func InitStores(opts StoreOptions) (*Store, error) {
	switch opts.Backend {
	case keys.BackendSQLite:
		dbc, err := database.InitDB(opts.DBFile)
		if err != nil {
			return nil, err
		}
		logging.D(1, "Using sqlite store at %q", opts.DBFile)
		return &Store{
			historyStore: GetHistoryDBStore(dbc.DB),
			statsStore:   GetStatsDBStore(dbc.DB),
			closer:       dbc.Close,
		}, nil

	case keys.BackendJSON, "":
		hs, err := OpenHistoryFile(opts.HistoryFile)
		if err != nil {
			return nil, err
		}
		ss, err := OpenStatsFile(opts.StatsFile)
		if err != nil {
			return nil, err
		}
		logging.D(1, "Using JSON stores %q and %q", opts.HistoryFile, opts.StatsFile)
		return &Store{historyStore: hs, statsStore: ss}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
}

// HistoryStore with pointer receiver.
func (s *Store) HistoryStore() contracts.HistoryStore {
	return s.historyStore
}

// StatsStore with pointer receiver.
func (s *Store) StatsStore() contracts.StatsStore {
	return s.statsStore
}

// Close releases the backend.
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
