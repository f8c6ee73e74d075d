package extractor

import (
	"bytes"
	"context"
	"encoding/json"

	"ytxtract/internal/domain/consts"
	"ytxtract/internal/domain/errconsts"
	"ytxtract/internal/models"
	"ytxtract/internal/parsing"
	"ytxtract/internal/utils/logging"
)

// playlistDoc is the subset of a yt-dlp playlist document ytxtract reads.
type playlistDoc struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Type    string      `json:"_type"`
	Entries []*entryDoc `json:"entries"`
}

type entryDoc struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	WebpageURL string `json:"webpage_url"`
	IEKey      string `json:"ie_key"`
	Title      string `json:"title"`
}

// GetPlaylist enumerates a playlist.
//
// A flat listing capped at maxEntries is tried first. If it yields no valid entry a full
// listing capped at a smaller limit is tried. When enumeration fails outright a video ID
// found in the URL itself becomes the only entry. A nil result means nothing could be enumerated.
func (c *Client) GetPlaylist(ctx context.Context, url string, maxEntries int) (*models.PlaylistInfo, error) {
	if maxEntries <= 0 {
		maxEntries = consts.PlaylistFlatLimit
	}

	doc, err := c.playlistDoc(ctx, url, true, maxEntries)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logging.W("Error getting playlist info: %v", err)
		return fromURL(url), nil
	}

	if len(doc.Entries) == 0 {
		// Not a playlist after all
		if parsing.ValidVideoID(doc.ID) {
			return single(doc.Title, "Single Video", doc.ID), nil
		}
		return nil, nil
	}

	if entries := flatEntries(doc.Entries); len(entries) > 0 {
		return &models.PlaylistInfo{Title: titleOr(doc.Title, "Unknown Playlist"), Entries: entries}, nil
	}

	logging.I("No valid entries in flat listing of %q, trying full extraction...", url)
	return c.fullPlaylist(ctx, url)
}

func (c *Client) fullPlaylist(ctx context.Context, url string) (*models.PlaylistInfo, error) {
	doc, err := c.playlistDoc(ctx, url, false, c.fullCap)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logging.W("Full extraction fallback failed: %v", err)
		return nil, nil
	}

	var entries []models.PlaylistEntry
	for _, e := range doc.Entries {
		if e == nil {
			continue
		}
		if parsing.ValidVideoID(e.ID) {
			entries = append(entries, models.PlaylistEntry{ID: e.ID})
		}
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &models.PlaylistInfo{Title: titleOr(doc.Title, "Unknown Playlist"), Entries: entries}, nil
}

// playlistDoc runs yt-dlp and decodes whatever document it printed.
//
// With --ignore-errors yt-dlp can exit non-zero after printing a usable document,
// so output wins over the exit status.
func (c *Client) playlistDoc(ctx context.Context, url string, flat bool, maxEntries int) (*playlistDoc, error) {
	stdout, stderr, runErr := c.runner.Run(ctx, c.bin, c.args.PlaylistArgs(url, flat, maxEntries), nil)

	out := bytes.TrimSpace(stdout)
	if len(out) == 0 {
		if runErr == nil {
			return &playlistDoc{}, nil
		}
		return nil, classify("get playlist", stderr, runErr, errconsts.KindPlaylist)
	}

	var doc playlistDoc
	if err := json.Unmarshal(out, &doc); err != nil {
		if runErr != nil {
			return nil, classify("get playlist", stderr, runErr, errconsts.KindPlaylist)
		}
		return nil, errconsts.New(errconsts.KindPlaylist, "get playlist", err)
	}
	if runErr != nil {
		logging.D(1, "yt-dlp reported errors while listing %q: %v", url, runErr)
	}
	return &doc, nil
}

// flatEntries keeps entries that name a single video.
//
// Entries whose ID is a playlist, channel or uploads ID are dropped even when they carry a URL.
func flatEntries(docs []*entryDoc) []models.PlaylistEntry {
	var entries []models.PlaylistEntry
	for _, e := range docs {
		if e == nil {
			continue
		}
		if e.ID != "" && !parsing.ValidVideoID(e.ID) {
			logging.D(1, "Skipping invalid video ID: %s", e.ID)
			continue
		}
		switch {
		case e.URL != "":
			entries = append(entries, models.PlaylistEntry{URL: e.URL, ID: e.ID})
		case e.ID != "":
			entries = append(entries, models.PlaylistEntry{ID: e.ID})
		case e.WebpageURL != "":
			entries = append(entries, models.PlaylistEntry{URL: e.WebpageURL})
		default:
			logging.D(1, "Skipping entry with no URL/ID: %s", titleOr(e.Title, "Unknown"))
		}
	}
	return entries
}

func fromURL(url string) *models.PlaylistInfo {
	id := parsing.ExtractAnyVideoID(url)
	if id == "" {
		return nil
	}
	return single("", "Extracted Video", id)
}

func single(title, fallback, id string) *models.PlaylistInfo {
	return &models.PlaylistInfo{
		Title:   titleOr(title, fallback),
		Entries: []models.PlaylistEntry{{ID: id}},
	}
}

func titleOr(title, fallback string) string {
	if title == "" {
		return fallback
	}
	return title
}
