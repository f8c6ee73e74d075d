// Package command holds flag strings for the external programs ytxtract drives.
package command

// Program
const (
	YTDLP = "yt-dlp"
)

// General
const (
	CookiePath    = "--cookies"
	Format        = "-f"
	IgnoreErrors  = "--ignore-errors"
	NoPlaylist    = "--no-playlist"
	NoWarnings    = "--no-warnings"
	Output        = "-o"
	Quiet         = "--quiet"
	SocketTimeout = "--socket-timeout"
	NoProgress    = "--no-progress"
	Newline       = "--newline"
	Progress      = "--progress"
)

// Info extraction
const (
	DumpSingleJSON = "--dump-single-json"
	FlatPlaylist   = "--flat-playlist"
	PlaylistEnd    = "--playlist-end"
	SkipDownload   = "--skip-download"
)

// Progress template pieces used to scrape yt-dlp's progress lines.
const (
	ProgressTemplate     = "--progress-template"
	ProgressTemplateBody = "download:[ytxtract] %(progress._percent_str)s"
	ProgressLinePrefix   = "[ytxtract]"
)
