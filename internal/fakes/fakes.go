// Package fakes provides in-memory stand-ins for the download core's collaborators, for tests.
package fakes

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"ytxtract/internal/domain/consts"
	"ytxtract/internal/formats"
	"ytxtract/internal/models"
)

// Extractor serves canned info and writes a small file for each download.
type Extractor struct {
	mu sync.Mutex

	Info        map[string]*models.MediaInfo
	InfoErr     map[string]error
	Playlist    *models.PlaylistInfo
	PlaylistErr error

	// DownloadErr decides the result of one download. A nil error writes the file.
	DownloadErr func(url, formatSpec string) error
	// Ext is the extension of written files, "webm" when empty.
	Ext string

	calls []string
}

func (e *Extractor) record(format string, args ...any) {
	e.mu.Lock()
	e.calls = append(e.calls, fmt.Sprintf(format, args...))
	e.mu.Unlock()
}

// Calls returns every call made so far, e.g. "info <url>" or "download <url> <spec>".
func (e *Extractor) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// CallCount counts calls starting with prefix.
func (e *Extractor) CallCount(prefix string) int {
	n := 0
	for _, c := range e.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (e *Extractor) GetInfo(_ context.Context, url string) (*models.MediaInfo, error) {
	e.record("info %s", url)
	if err := e.InfoErr[url]; err != nil {
		return nil, err
	}
	if info, ok := e.Info[url]; ok {
		return info, nil
	}
	return &models.MediaInfo{Title: "Test Video", Uploader: "Tester", WebpageURL: url}, nil
}

func (e *Extractor) GetPlaylist(_ context.Context, url string, _ int) (*models.PlaylistInfo, error) {
	e.record("playlist %s", url)
	return e.Playlist, e.PlaylistErr
}

func (e *Extractor) GetFormats(ctx context.Context, url string, kind models.MediaKind) ([]models.FormatVariant, error) {
	info, err := e.GetInfo(ctx, url)
	if err != nil {
		return nil, err
	}
	return formats.Variants(info.Formats, kind), nil
}

func (e *Extractor) Download(_ context.Context, url string, opts models.DownloadOptions) error {
	e.record("download %s %s", url, opts.FormatSpec)
	if e.DownloadErr != nil {
		if err := e.DownloadErr(url, opts.FormatSpec); err != nil {
			return err
		}
	}
	ext := e.Ext
	if ext == "" {
		ext = "webm"
	}
	path := strings.Replace(opts.OutputTemplate, "%(ext)s", ext, 1)
	if err := os.WriteFile(path, make([]byte, 2048), consts.PermsMediaFile); err != nil {
		return err
	}
	if opts.OnProgress != nil {
		opts.OnProgress(0.5)
		opts.OnProgress(1)
	}
	return nil
}

// Transcoder copies its input to its output.
type Transcoder struct {
	mu           sync.Mutex
	AvailableErr error
	ConvertErr   error
	calls        []models.TranscodeOptions
}

func (t *Transcoder) Available() error {
	return t.AvailableErr
}

func (t *Transcoder) Convert(_ context.Context, opts models.TranscodeOptions) error {
	t.mu.Lock()
	t.calls = append(t.calls, opts)
	t.mu.Unlock()
	if t.ConvertErr != nil {
		return t.ConvertErr
	}
	data, err := os.ReadFile(opts.Input)
	if err != nil {
		return err
	}
	return os.WriteFile(opts.Output, data, consts.PermsMediaFile)
}

// Calls returns every conversion requested so far.
func (t *Transcoder) Calls() []models.TranscodeOptions {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.TranscodeOptions(nil), t.calls...)
}

// History keeps entries in memory, newest first.
type History struct {
	mu      sync.Mutex
	entries []models.HistoryEntry
}

func (h *History) Add(e models.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append([]models.HistoryEntry{e}, h.entries...)
	if len(h.entries) > consts.HistoryMax {
		h.entries = h.entries[:consts.HistoryMax]
	}
	return nil
}

func (h *History) List() ([]models.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]models.HistoryEntry(nil), h.entries...), nil
}

// Stats keeps totals in memory.
type Stats struct {
	mu sync.Mutex
	s  models.Stats
}

func (s *Stats) Record(sizeMB float64, elapsed time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.s.Add(sizeMB, elapsed)
	return nil
}

func (s *Stats) Get() (models.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.s, nil
}

// Prompter answers every question the same way.
type Prompter struct {
	mu sync.Mutex

	ConfirmAnswer bool
	ChooseIndex   int
	ChooseOK      bool
	Err           error

	Confirms int
	Chooses  int
}

func (p *Prompter) Confirm(context.Context, string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Confirms++
	return p.ConfirmAnswer, p.Err
}

func (p *Prompter) ChooseFormat(context.Context, string, []models.FormatVariant) (int, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Chooses++
	return p.ChooseIndex, p.ChooseOK, p.Err
}

// Reporter records status texts and progress ratios.
type Reporter struct {
	mu       sync.Mutex
	statuses []string
	progress []float64
}

func (r *Reporter) Status(text string) {
	r.mu.Lock()
	r.statuses = append(r.statuses, text)
	r.mu.Unlock()
}

func (r *Reporter) Progress(ratio float64) {
	r.mu.Lock()
	r.progress = append(r.progress, ratio)
	r.mu.Unlock()
}

// Statuses returns the status texts seen so far.
func (r *Reporter) Statuses() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.statuses...)
}

// Saw reports whether any status text contained sub.
func (r *Reporter) Saw(sub string) bool {
	for _, s := range r.Statuses() {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ProgressValues returns the progress ratios seen so far.
func (r *Reporter) ProgressValues() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.progress...)
}
