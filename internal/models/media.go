package models

// MediaKind separates audio from video variants.
type MediaKind int

const (
	KindAudio MediaKind = iota
	KindVideo
)

func (k MediaKind) String() string {
	if k == KindVideo {
		return "video"
	}
	return "audio"
}

// MediaInfo holds the fields ytxtract reads from an extractor info document.
type MediaInfo struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Uploader        string      `json:"uploader"`
	DurationSeconds float64     `json:"duration"`
	UploadDate      string      `json:"upload_date"`
	WebpageURL      string      `json:"webpage_url"`
	Formats         []RawFormat `json:"formats"`
}

// RawFormat is one entry of the extractor's format list.
type RawFormat struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	FPS            float64 `json:"fps"`
	TBR            float64 `json:"tbr"`
	ABR            float64 `json:"abr"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
}

// HasVideo reports whether the format carries a video stream.
func (f RawFormat) HasVideo() bool {
	return f.VCodec != "" && f.VCodec != "none"
}

// HasAudio reports whether the format carries an audio stream.
func (f RawFormat) HasAudio() bool {
	return f.ACodec != "" && f.ACodec != "none"
}

// FormatVariant is a deduplicated, user-selectable format.
type FormatVariant struct {
	FormatID           string
	Kind               MediaKind
	Width              int
	Height             int
	FPS                float64
	BitrateKbps        int
	Codec              string
	EstimatedSizeBytes int64
}

// PlaylistInfo is an enumerated playlist.
type PlaylistInfo struct {
	Title   string
	Entries []PlaylistEntry
}

// PlaylistEntry is one playlist item, either a resolved URL or a raw video ID.
type PlaylistEntry struct {
	URL string
	ID  string
}
