// Package builder assembles argument lists for yt-dlp and ffmpeg.
package builder

import (
	"strconv"

	"ytxtract/internal/domain/command"
	"ytxtract/internal/models"
	"ytxtract/internal/utils/logging"
)

// YtdlpBuilder builds yt-dlp argument lists sharing one socket timeout.
type YtdlpBuilder struct {
	SocketTimeout int
}

// NewYtdlpBuilder returns a builder. Non-positive timeouts omit --socket-timeout.
func NewYtdlpBuilder(socketTimeout int) *YtdlpBuilder {
	return &YtdlpBuilder{SocketTimeout: socketTimeout}
}

// InfoArgs dumps the info document of a single video.
func (b *YtdlpBuilder) InfoArgs(url string) []string {
	args := b.base()
	args = append(args, command.DumpSingleJSON, command.NoPlaylist, command.SkipDownload, url)
	logging.D(3, "Built info argument list: %v", args)
	return args
}

// PlaylistArgs dumps a playlist document.
//
// Flat enumeration lists entries without resolving each one. Errors on single entries are ignored
// either way so one broken item does not abort the listing.
func (b *YtdlpBuilder) PlaylistArgs(url string, flat bool, maxEntries int) []string {
	args := b.base()
	args = append(args, command.DumpSingleJSON, command.IgnoreErrors, command.SkipDownload)
	if flat {
		args = append(args, command.FlatPlaylist)
	}
	if maxEntries > 0 {
		args = append(args, command.PlaylistEnd, strconv.Itoa(maxEntries))
	}
	args = append(args, url)
	logging.D(3, "Built playlist argument list: %v", args)
	return args
}

// DownloadArgs fetches one video with the given format spec and output template.
func (b *YtdlpBuilder) DownloadArgs(url string, opts models.DownloadOptions) []string {
	args := b.base()
	args = append(args, command.NoPlaylist)

	if opts.FormatSpec != "" {
		args = append(args, command.Format, opts.FormatSpec)
	}
	if opts.OutputTemplate != "" {
		args = append(args, command.Output, opts.OutputTemplate)
	}
	if opts.CookieFile != "" {
		args = append(args, command.CookiePath, opts.CookieFile)
	}
	if opts.OnProgress != nil {
		args = append(args, command.Progress, command.Newline,
			command.ProgressTemplate, command.ProgressTemplateBody)
	} else {
		args = append(args, command.NoProgress)
	}

	args = append(args, url)
	logging.D(3, "Built download argument list: %v", args)
	return args
}

func (b *YtdlpBuilder) base() []string {
	args := []string{command.Quiet, command.NoWarnings}
	if b.SocketTimeout > 0 {
		args = append(args, command.SocketTimeout, strconv.Itoa(b.SocketTimeout))
	}
	return args
}
