// Package contracts defines interfaces that decouple the download core from processes, storage and the UI.
package contracts

import (
	"context"
	"time"

	"ytxtract/internal/models"
)

// Extractor resolves URLs to media and downloads them.
type Extractor interface {
	GetInfo(ctx context.Context, url string) (*models.MediaInfo, error)
	GetPlaylist(ctx context.Context, url string, maxEntries int) (*models.PlaylistInfo, error)
	GetFormats(ctx context.Context, url string, kind models.MediaKind) ([]models.FormatVariant, error)
	Download(ctx context.Context, url string, opts models.DownloadOptions) error
}

// Transcoder converts or remuxes a downloaded file.
type Transcoder interface {
	Available() error
	Convert(ctx context.Context, opts models.TranscodeOptions) error
}

// HistoryStore persists the bounded recent-downloads list.
type HistoryStore interface {
	Add(entry models.HistoryEntry) error
	List() ([]models.HistoryEntry, error)
}

// StatsStore persists cumulative statistics.
type StatsStore interface {
	Record(sizeMB float64, elapsed time.Duration) error
	Get() (models.Stats, error)
}

// Reporter receives UI-visible progress from the worker.
type Reporter interface {
	Status(text string)
	Progress(ratio float64)
}

// Prompter asks the user a question and blocks until answered or ctx is done.
type Prompter interface {
	Confirm(ctx context.Context, question string) (bool, error)
	ChooseFormat(ctx context.Context, title string, variants []models.FormatVariant) (index int, ok bool, err error)
}

// CookieSource exports browser cookies for url into a temporary Netscape cookie file.
type CookieSource interface {
	CookieFile(ctx context.Context, url string) (path string, cleanup func(), err error)
}

// PageProber fetches a video page to tell blocked content from removed content.
type PageProber interface {
	Probe(ctx context.Context, url string) (models.ProbeResult, error)
}
