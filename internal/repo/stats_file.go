package repo

import (
	"sync"
	"time"

	"github.com/spf13/viper"

	"ytxtract/internal/domain/consts"
	"ytxtract/internal/models"
)

// StatsFile keeps cumulative statistics in their own JSON document.
type StatsFile struct {
	mu    sync.Mutex
	path  string
	stats models.Stats
}

// OpenStatsFile loads the document at path. Missing keys count as zero.
func OpenStatsFile(path string) (*StatsFile, error) {
	v, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	return &StatsFile{
		path: path,
		stats: models.Stats{
			TotalDownloads:        v.GetInt(consts.QStatsTotalDownloads),
			TotalSizeMB:           v.GetFloat64(consts.QStatsTotalSizeMB),
			TotalTimeSavedSeconds: v.GetFloat64(consts.QStatsTotalTimeSaved),
		},
	}, nil
}

// Record adds one successful download and saves.
func (s *StatsFile) Record(sizeMB float64, elapsed time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.stats
	next.Add(sizeMB, elapsed)

	v := viper.New()
	v.Set(consts.QStatsTotalDownloads, next.TotalDownloads)
	v.Set(consts.QStatsTotalSizeMB, next.TotalSizeMB)
	v.Set(consts.QStatsTotalTimeSaved, next.TotalTimeSavedSeconds)
	if err := writeDocument(v, s.path); err != nil {
		return err
	}
	s.stats = next
	return nil
}

// Get returns the current totals.
func (s *StatsFile) Get() (models.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats, nil
}
