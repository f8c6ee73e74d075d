// Package process drives the download pipeline across playlists and batches.
package process

import (
	"context"
	"errors"
	"fmt"

	"ytxtract/internal/contracts"
	"ytxtract/internal/domain/consts"
	"ytxtract/internal/formats"
	"ytxtract/internal/models"
	"ytxtract/internal/parsing"
	"ytxtract/internal/utils/logging"
)

// ItemRunner runs the single-item pipeline for one URL.
type ItemRunner interface {
	Run(ctx context.Context, req models.DownloadRequest, preset *formats.Choice) models.Outcome
}

// ItemFunc observes each finished item. position is 1-based.
type ItemFunc func(position, total int, out models.Outcome)

// Sequencer runs items one after another, never in parallel.
type Sequencer struct {
	extractor contracts.Extractor
	items     ItemRunner
	prompter  contracts.Prompter
	selector  *formats.Selector
	reporter  contracts.Reporter

	// PlaylistLimit caps flat playlist enumeration, consts.PlaylistFlatLimit when zero.
	PlaylistLimit int
	// OnItem is called after every item, including unresolvable playlist entries.
	OnItem ItemFunc
}

// NewSequencer returns a sequencer. A nil prompter accepts large playlists and uses default formats.
func NewSequencer(e contracts.Extractor, items ItemRunner, p contracts.Prompter, r contracts.Reporter) *Sequencer {
	return &Sequencer{
		extractor: e,
		items:     items,
		prompter:  p,
		selector:  formats.NewSelector(p),
		reporter:  r,
	}
}

// RunBatch downloads every URL independently. One failure does not stop the queue.
func (s *Sequencer) RunBatch(ctx context.Context, req models.DownloadRequest, urls []string) models.SequenceResult {
	total := len(urls)
	res := models.SequenceResult{Total: total}
	s.reporter.Status(fmt.Sprintf("Batch mode: %d URLs queued", total))

	for i, u := range urls {
		if ctx.Err() != nil {
			res.Cancelled = true
			return res
		}
		s.reporter.Status(fmt.Sprintf("Downloading %d/%d...", i+1, total))

		out := s.items.Run(ctx, req.WithURL(u), nil)
		if s.tally(&res, i, total, out) {
			return res
		}
	}

	s.reporter.Status("Batch download completed!")
	logging.I("Batch finished: %d succeeded, %d failed", res.Successful, res.Failed)
	return res
}

// RunPlaylist enumerates req.URL and downloads every entry with one shared format choice.
//
// When nothing can be enumerated the URL is downloaded as a single video.
func (s *Sequencer) RunPlaylist(ctx context.Context, req models.DownloadRequest) models.SequenceResult {
	limit := s.PlaylistLimit
	if limit <= 0 {
		limit = consts.PlaylistFlatLimit
	}

	pl, err := s.extractor.GetPlaylist(ctx, req.URL, limit)
	if err != nil || pl == nil || len(pl.Entries) == 0 {
		if err != nil {
			logging.W("Playlist enumeration of %q failed: %v", req.URL, err)
		}
		s.reporter.Status("Playlist info failed, downloading single video...")
		res := models.SequenceResult{Total: 1}
		s.tally(&res, 0, 1, s.items.Run(ctx, req, nil))
		return res
	}

	total := len(pl.Entries)
	res := models.SequenceResult{Total: total}
	s.reporter.Status(fmt.Sprintf("Found playlist: %d videos", total))

	if total > consts.PlaylistWarnThreshold && s.prompter != nil {
		ok, err := s.prompter.Confirm(ctx, fmt.Sprintf("This playlist has %d videos. Download all of them?", total))
		if err != nil || !ok {
			logging.I("Playlist download of %d entries declined", total)
			s.reporter.Status("Playlist download cancelled")
			res.Cancelled = true
			return res
		}
	}

	urls := make([]string, total)
	for i, e := range pl.Entries {
		urls[i] = ResolveEntry(e)
	}

	preset, ok := s.resolvePreset(ctx, req, urls)
	if !ok {
		s.reporter.Status("Playlist download cancelled")
		res.Cancelled = true
		return res
	}

	for i, u := range urls {
		if ctx.Err() != nil {
			res.Cancelled = true
			return res
		}
		if u == "" {
			logging.W("Skipping playlist entry %d: no valid URL or video ID (%+v)", i+1, pl.Entries[i])
			s.reporter.Status(fmt.Sprintf("Skipped video %d (error)", i+1))
			res.Failed++
			s.progress(i, total, models.Failed(fmt.Errorf("unresolvable playlist entry %d", i+1)))
			continue
		}

		s.reporter.Status(fmt.Sprintf("Downloading %d/%d...", i+1, total))
		out := s.items.Run(ctx, req.WithURL(u), preset)
		if s.tally(&res, i, total, out) {
			return res
		}
	}

	s.reporter.Status("Playlist download completed!")
	logging.I("Playlist %q finished: %d succeeded, %d failed", pl.Title, res.Successful, res.Failed)
	return res
}

// resolvePreset picks the format once, against the first resolvable entry.
//
// ok is false when the user cancelled the choice.
func (s *Sequencer) resolvePreset(ctx context.Context, req models.DownloadRequest, urls []string) (*formats.Choice, bool) {
	if !formats.Interactive(req) {
		return nil, true
	}

	first := ""
	for _, u := range urls {
		if u != "" {
			first = u
			break
		}
	}
	if first == "" {
		return nil, true
	}

	variants, err := s.extractor.GetFormats(ctx, first, formats.Kind(req))
	if err != nil {
		logging.W("Could not list formats of %q, using defaults: %v", first, err)
		c := formats.DefaultChoice(req)
		return &c, true
	}

	c, ok, err := s.selector.Select(ctx, "Playlist", variants, req)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return nil, false
		}
		logging.W("Format selection failed, using defaults: %v", err)
		c = formats.DefaultChoice(req)
		return &c, true
	}
	if !ok {
		return nil, false
	}
	return &c, true
}

// tally adds out to res and reports progress. It returns true when the sequence must stop.
func (s *Sequencer) tally(res *models.SequenceResult, i, total int, out models.Outcome) bool {
	switch out.Status {
	case models.OutcomeCancelled:
		res.Cancelled = true
		s.progress(i, total, out)
		return true
	case models.OutcomeSuccess:
		res.Successful++
		res.TotalSizeMB += out.FileSizeMB
	default:
		res.Failed++
		logging.E("Failed to download item %d/%d: %s", i+1, total, out.Reason)
		if total > 1 {
			s.reporter.Status(fmt.Sprintf("Skipped video %d (error)", i+1))
		}
	}
	s.progress(i, total, out)
	return false
}

func (s *Sequencer) progress(i, total int, out models.Outcome) {
	s.reporter.Progress(float64(i+1) / float64(total))
	if s.OnItem != nil {
		s.OnItem(i+1, total, out)
	}
}

// ResolveEntry turns a playlist entry into a canonical watch URL, or "" when it names no video.
func ResolveEntry(e models.PlaylistEntry) string {
	if e.URL != "" {
		if id := parsing.ExtractVideoID(e.URL); parsing.ValidVideoID(id) {
			return parsing.WatchURL(id)
		}
	}
	if parsing.ValidVideoID(e.ID) {
		return parsing.WatchURL(e.ID)
	}
	return ""
}
