package models

import "time"

// Stats are the cumulative download statistics.
type Stats struct {
	TotalDownloads        int     `json:"total_downloads" mapstructure:"total_downloads"`
	TotalSizeMB           float64 `json:"total_size_mb" mapstructure:"total_size_mb"`
	TotalTimeSavedSeconds float64 `json:"total_time_saved" mapstructure:"total_time_saved"`
}

// Add records one successful download.
func (s *Stats) Add(sizeMB float64, elapsed time.Duration) {
	s.TotalDownloads++
	s.TotalSizeMB += sizeMB
	s.TotalTimeSavedSeconds += elapsed.Seconds()
}

// HistoryEntry is one recent successful download.
type HistoryEntry struct {
	Title           string  `json:"title" mapstructure:"title"`
	Format          string  `json:"format" mapstructure:"format"`
	Path            string  `json:"path" mapstructure:"path"`
	Timestamp       string  `json:"timestamp" mapstructure:"timestamp"`
	DurationSeconds float64 `json:"duration,omitempty" mapstructure:"duration"`
}
