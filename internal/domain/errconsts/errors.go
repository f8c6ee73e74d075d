// Package errconsts holds error kinds, sentinel errors and user-facing error messages.
package errconsts

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure once, where it happens.
type Kind int

const (
	KindGeneric Kind = iota
	KindInvalidInput
	KindInvalidURL
	KindUnavailable
	KindAgeRestricted
	KindNetwork
	KindPlaylist
	KindExtraction
	KindTranscoderMissing
	KindTranscode
	KindGeoBlocked
	KindAllStrategiesFailed
)

var kindNames = map[Kind]string{
	KindGeneric:             "generic",
	KindInvalidInput:        "invalid-input",
	KindInvalidURL:          "invalid-url",
	KindUnavailable:         "unavailable",
	KindAgeRestricted:       "age-restricted",
	KindNetwork:             "network",
	KindPlaylist:            "playlist",
	KindExtraction:          "extraction",
	KindTranscoderMissing:   "transcoder-missing",
	KindTranscode:           "transcode",
	KindGeoBlocked:          "geo-blocked",
	KindAllStrategiesFailed: "all-strategies-failed",
}

// String returns the kind name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Sentinel errors.
var (
	ErrInvalidInput = errors.New("please enter a valid YouTube URL")
	ErrJobActive    = errors.New("a download is already in progress")
	ErrNoFile       = errors.New("no downloaded file found")
)

// Programs
const (
	YTDLPFailure  = "yt-dlp command failed: %w"
	FFmpegFailure = "ffmpeg command failed: %w"
)

// Error is a classified failure.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// New wraps err with a kind and operation name.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or KindGeneric.
func KindOf(err error) Kind {
	if err == nil {
		return KindGeneric
	}
	if errors.Is(err, ErrInvalidInput) {
		return KindInvalidInput
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindGeneric
}

// Extractor output signatures, checked in priority order.
var (
	invalidURLSigs    = []string{"not a valid url", "invalid url", "unsupported url"}
	unavailableSigs   = []string{"video unavailable", "not available", "unavailable", "private video", "private", "deleted", "removed", "music", "audio only", "no video"}
	ageSigs           = []string{"age-restricted", "age restricted", "confirm your age", "sign in to confirm"}
	networkSigs       = []string{"network", "connection", "timed out", "temporary failure in name resolution", "unable to download webpage"}
	playlistSigs      = []string{"playlist"}
	extractionSigs    = []string{"extraction", "unable to extract"}
	transcodeMissSigs = []string{"ffmpeg not found", "ffprobe and ffmpeg not found"}
	geoSigs           = []string{"geo-blocked", "geo restricted", "geo-restricted", "blocked"}
)

// Classify maps extractor or transcoder output to a kind.
func Classify(msg string) Kind {
	m := strings.ToLower(msg)
	switch {
	case containsAny(m, invalidURLSigs):
		return KindInvalidURL
	case containsAny(m, unavailableSigs):
		return KindUnavailable
	case containsAny(m, ageSigs):
		return KindAgeRestricted
	case containsAny(m, networkSigs):
		return KindNetwork
	case containsAny(m, playlistSigs):
		return KindPlaylist
	case containsAny(m, extractionSigs):
		return KindExtraction
	case containsAny(m, transcodeMissSigs):
		return KindTranscoderMissing
	case containsAny(m, geoSigs):
		return KindGeoBlocked
	}
	return KindGeneric
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// TriggersInfoFallback reports whether an info extraction failure should switch to the audio fallback.
func TriggersInfoFallback(k Kind) bool {
	return k == KindUnavailable || k == KindAgeRestricted || k == KindGeoBlocked
}

// TriggersDownloadFallback reports whether a download failure should switch to the audio fallback.
func TriggersDownloadFallback(k Kind) bool {
	return k == KindUnavailable
}

// UserMessage returns the message shown for a failed job.
func UserMessage(k Kind) string {
	switch k {
	case KindInvalidInput:
		return "Please enter a valid YouTube URL!"
	case KindInvalidURL:
		return "Invalid YouTube URL! Please enter a valid link."
	case KindUnavailable:
		return "Video unavailable or private! This content cannot be accessed."
	case KindAgeRestricted:
		return "Age-restricted video! This content requires sign-in."
	case KindNetwork:
		return "Network error! Check your connection."
	case KindPlaylist:
		return "Playlist error! Trying single video download..."
	case KindExtraction:
		return "Failed to extract video info! Try again."
	case KindTranscoderMissing:
		return "FFmpeg error! Check that ffmpeg is installed or set --ffmpeg-path."
	case KindTranscode:
		return "FFmpeg error! Conversion failed."
	case KindGeoBlocked:
		return "Content blocked in your region!"
	case KindAllStrategiesFailed:
		return "Content not accessible! May be deleted, private, or geo-blocked."
	}
	return "Download failed! Please try again."
}
