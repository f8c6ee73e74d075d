// Package downloads runs the single-item download pipeline: info extraction, format selection,
// download, conversion and recording, with an audio-only fallback for troublesome videos.
package downloads

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ytxtract/internal/contracts"
	"ytxtract/internal/domain/consts"
	"ytxtract/internal/domain/errconsts"
	"ytxtract/internal/file"
	"ytxtract/internal/formats"
	"ytxtract/internal/models"
	"ytxtract/internal/parsing"
	"ytxtract/internal/utils/logging"
)

// Deps are the collaborators of a pipeline. Cookies, Prober and Reporter may be nil.
type Deps struct {
	Extractor  contracts.Extractor
	Transcoder contracts.Transcoder
	History    contracts.HistoryStore
	Stats      contracts.StatsStore
	Selector   *formats.Selector
	Cookies    contracts.CookieSource
	Prober     contracts.PageProber
	Reporter   contracts.Reporter

	// TempRoot is the parent of per-run temp directories, os.TempDir() when empty.
	TempRoot string
	Now      func() time.Time
}

// Pipeline downloads one URL into the configured folder.
type Pipeline struct {
	Deps
	state State
}

// item carries what one run learns about its URL.
type item struct {
	req        models.DownloadRequest
	tempDir    string
	start      time.Time
	info       *models.MediaInfo
	title      string
	uploader   string
	uploadDate string
	duration   float64
}

// NewPipeline returns a pipeline over d.
func NewPipeline(d Deps) *Pipeline {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Reporter == nil {
		d.Reporter = nopReporter{}
	}
	if d.Selector == nil {
		d.Selector = formats.NewSelector(nil)
	}
	return &Pipeline{Deps: d}
}

// State returns the stage the pipeline last entered.
func (p *Pipeline) State() State {
	return p.state
}

// Run downloads req.URL. A non-nil preset skips format selection.
//
// The per-run temp directory is removed on every exit path.
func (p *Pipeline) Run(ctx context.Context, req models.DownloadRequest, preset *formats.Choice) models.Outcome {
	it := &item{req: req, start: p.Now()}

	tempDir, err := os.MkdirTemp(p.TempRoot, consts.TempDirPattern)
	if err != nil {
		return p.fail(fmt.Errorf("failed to create temp dir: %w", err))
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			logging.W("Failed to remove temp dir %q: %v", tempDir, err)
		}
	}()
	it.tempDir = tempDir

	// Info
	p.enter(StateExtractingInfo, "Fetching video info...")
	info, err := p.Extractor.GetInfo(ctx, req.URL)
	if err != nil {
		if isCancel(ctx, err) {
			return p.cancel()
		}
		if errconsts.TriggersInfoFallback(errconsts.KindOf(err)) {
			p.Reporter.Status("Video issue detected, trying audio download...")
			return p.audioFallback(ctx, it)
		}
		logging.W("Failed to get video info for %q: %v", req.URL, err)
		it.title = parsing.PlaceholderTitle(it.start)
	} else {
		it.info = info
		it.title = parsing.SafeTitle(info.Title)
		it.uploader = info.Uploader
		it.uploadDate = info.UploadDate
		it.duration = info.DurationSeconds
		if it.title == "" {
			it.title = parsing.PlaceholderTitle(it.start)
		}
	}

	// Format
	p.enter(StateSelectingFormat, "Selecting format...")
	choice, ok, err := p.chooseFormat(ctx, it, preset)
	if err != nil {
		if isCancel(ctx, err) {
			return p.cancel()
		}
		return p.fail(err)
	}
	if !ok {
		return p.cancel()
	}

	// Download
	p.enter(StateDownloading, downloadingText(req))
	downloaded, err := p.download(ctx, it, choice)
	if err != nil {
		if isCancel(ctx, err) {
			return p.cancel()
		}
		// Audio targets retry through the fallback on any download error, as the desktop tool always did.
		if !req.Format.IsContainer() {
			p.Reporter.Status("Standard audio download failed, trying fallback...")
			return p.audioFallback(ctx, it)
		}
		if errconsts.TriggersDownloadFallback(errconsts.KindOf(err)) {
			p.Reporter.Status("Video download failed, trying audio...")
			return p.audioFallback(ctx, it)
		}
		return p.fail(err)
	}

	// Convert
	p.enter(StateConvertingOrCopying, convertingText(req.Format))
	output, err := p.convert(ctx, it, downloaded, choice.BitrateKbps)
	if err != nil {
		return p.fail(err)
	}

	// Record
	p.enter(StateRecording, "Saving to history...")
	size, err := p.record(it, output, req.Format.Label())
	if err != nil {
		return p.fail(err)
	}

	p.enter(StateDone, doneText(req.Format))
	logging.S("Downloaded %q to %q (%.2f MB)", it.title, output, size)
	return models.Succeeded(output, size)
}

// chooseFormat resolves the format spec, prompting when interactive selection is on.
func (p *Pipeline) chooseFormat(ctx context.Context, it *item, preset *formats.Choice) (formats.Choice, bool, error) {
	if preset != nil {
		logging.D(1, "Using preset format %q for %q", preset.FormatSpec, it.req.URL)
		return *preset, true, nil
	}
	if !formats.Interactive(it.req) {
		return formats.DefaultChoice(it.req), true, nil
	}

	var variants []models.FormatVariant
	if it.info != nil {
		variants = formats.Variants(it.info.Formats, formats.Kind(it.req))
	}
	return p.Selector.Select(ctx, it.title, variants, it.req)
}

// download fetches the media into the temp dir and returns the finished file.
func (p *Pipeline) download(ctx context.Context, it *item, choice formats.Choice) (string, error) {
	opts := models.DownloadOptions{
		FormatSpec:     choice.FormatSpec,
		OutputTemplate: filepath.Join(it.tempDir, consts.TempFileTemplate),
		OnProgress:     p.Reporter.Progress,
	}
	if err := p.Extractor.Download(ctx, it.req.URL, opts); err != nil {
		return "", err
	}

	downloaded, err := file.FindCompleteFile(it.tempDir, consts.TempFilePrefix)
	if err != nil {
		return "", errconsts.New(errconsts.KindExtraction, "download", err)
	}
	return downloaded, nil
}

// record writes the history entry and stats for a finished file and returns its size.
func (p *Pipeline) record(it *item, output, label string) (float64, error) {
	size, err := file.SizeMB(output)
	if err != nil {
		return 0, fmt.Errorf("failed to stat output %q: %w", output, err)
	}

	now := p.Now()
	entry := models.HistoryEntry{
		Title:           it.title,
		Format:          label,
		Path:            output,
		Timestamp:       parsing.FormatTimestamp(now),
		DurationSeconds: it.duration,
	}

	// The file is saved either way, store failures only cost bookkeeping.
	if p.History != nil {
		if err := p.History.Add(entry); err != nil {
			logging.E("Failed to add history entry for %q: %v", output, err)
		}
	}
	if p.Stats != nil {
		if err := p.Stats.Record(size, now.Sub(it.start)); err != nil {
			logging.E("Failed to update stats: %v", err)
		}
	}
	return size, nil
}

func (p *Pipeline) enter(s State, text string) {
	p.state = s
	logging.D(2, "Pipeline state: %s", s)
	p.Reporter.Status(text)
}

func (p *Pipeline) cancel() models.Outcome {
	p.enter(StateCancelled, "Download cancelled")
	return models.Cancelled()
}

func (p *Pipeline) fail(err error) models.Outcome {
	out := models.Failed(err)
	logging.E("Download failed (%s): %v", out.Kind, err)
	p.Reporter.Status(out.Reason)
	return out
}

// isCancel reports whether err came from the job being cancelled.
func isCancel(ctx context.Context, err error) bool {
	return ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}

func downloadingText(req models.DownloadRequest) string {
	if req.Format.IsContainer() {
		return "Downloading video..."
	}
	return "Downloading audio..."
}

func convertingText(f models.OutputFormat) string {
	switch f {
	case consts.FormatMKV:
		return "Converting to MKV..."
	case consts.FormatMP4:
		return "Processing MP4..."
	}
	return "Converting to " + f.Label() + "..."
}

func doneText(f models.OutputFormat) string {
	if f.IsContainer() {
		return "Video download completed!"
	}
	return "Audio download completed!"
}

type nopReporter struct{}

func (nopReporter) Status(string)    {}
func (nopReporter) Progress(float64) {}
