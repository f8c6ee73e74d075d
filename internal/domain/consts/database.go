package consts

// Tables
const (
	DBHistory = "download_history"
	DBStats   = "download_stats"
)

// History columns
const (
	QHistSeq       = "seq"
	QHistID        = "id"
	QHistTitle     = "title"
	QHistFormat    = "format"
	QHistPath      = "path"
	QHistTimestamp = "timestamp"
	QHistDuration  = "duration"
	QHistCreatedAt = "created_at"
)

// Stats columns
const (
	QStatsID             = "id"
	QStatsTotalDownloads = "total_downloads"
	QStatsTotalSizeMB    = "total_size_mb"
	QStatsTotalTimeSaved = "total_time_saved"
	QStatsUpdatedAt      = "updated_at"
)

// StatsRowID is the id of the single stats row.
const StatsRowID = 1
