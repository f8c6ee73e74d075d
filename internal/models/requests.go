package models

import (
	"strings"

	"ytxtract/internal/domain/consts"
)

// OutputFormat is a target file format.
type OutputFormat string

// IsContainer reports whether the format is a video container.
func (f OutputFormat) IsContainer() bool {
	return f == consts.FormatMKV || f == consts.FormatMP4
}

// Valid reports whether f is a supported target.
func (f OutputFormat) Valid() bool {
	for _, v := range consts.AllFormats {
		if string(f) == v {
			return true
		}
	}
	return false
}

// Ext returns the file extension with a leading dot.
func (f OutputFormat) Ext() string {
	return "." + string(f)
}

// Label returns the upper-case display label, e.g. "MP3".
func (f OutputFormat) Label() string {
	return strings.ToUpper(string(f))
}

// DownloadRequest is the immutable input of one job.
type DownloadRequest struct {
	URL              string
	Format           OutputFormat
	BitrateKbps      int
	PreserveMetadata bool
	PlaylistMode     bool
	DownloadFolder   string

	// Interactive selection toggles.
	ChooseResolution   bool
	ChooseAudioQuality bool
}

// WithURL returns a copy of r targeting url.
func (r DownloadRequest) WithURL(url string) DownloadRequest {
	r.URL = url
	return r
}

// DownloadOptions is the option set handed to the extractor for one download.
type DownloadOptions struct {
	FormatSpec     string
	OutputTemplate string
	CookieFile     string
	OnProgress     ProgressFunc
}

// TranscodeOptions describes one transcoder invocation.
type TranscodeOptions struct {
	Input       string
	Output      string
	Codec       string
	BitrateKbps int
	Copy        bool
	Metadata    []MetaTag
}

// MetaTag is a key=value metadata pair written into the output file.
type MetaTag struct {
	Key   string
	Value string
}

// ProgressFunc receives a download progress ratio in [0,1].
type ProgressFunc func(ratio float64)

// ProbeResult is what an HTTP page probe learned about a video page.
type ProbeResult struct {
	StatusCode int
	Reachable  bool
	Title      string
	Blocked    bool
}
