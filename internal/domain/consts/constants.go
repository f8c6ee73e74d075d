// Package consts holds various global, unchanging values.
package consts

// Placeholder texts shown in empty input boxes. Submitting one counts as empty input.
const (
	PlaceholderSingle = "Paste YouTube URL here..."
	PlaceholderBatch  = "Paste YouTube URLs here (one per line)..."
)

// Output formats.
const (
	FormatMP3  = "mp3"
	FormatWAV  = "wav"
	FormatFLAC = "flac"
	FormatM4A  = "m4a"
	FormatMKV  = "mkv"
	FormatMP4  = "mp4"
)

// AllFormats lists every supported output format, audio first.
var AllFormats = [...]string{FormatMP3, FormatWAV, FormatFLAC, FormatM4A, FormatMKV, FormatMP4}

// AcceptedAudioExtensions are kept as-is by the audio fallback (anything else becomes mp3).
var AcceptedAudioExtensions = [...]string{".mp3", ".m4a", ".wav", ".flac"}

// PartialExtensions mark files yt-dlp has not finished writing.
var PartialExtensions = [...]string{".part", ".tmp", ".ytdl"}

// AudioCodecMap maps an audio output format to its ffmpeg encoder.
var AudioCodecMap = map[string]string{
	FormatMP3:  "libmp3lame",
	FormatWAV:  "pcm_s16le",
	FormatFLAC: "flac",
	FormatM4A:  "aac",
}

// Quality presets (kbps) offered for audio targets.
var AudioQualities = [...]string{"320", "256", "192", "128", "96"}

// Audio bitrate buckets used when deduplicating audio variants.
var AudioBitrateBuckets = [...]int{320, 256, 192, 160, 128, 96, 64, 48}

// Limits.
const (
	HistoryMax             = 10
	PlaylistWarnThreshold  = 100
	PlaylistFlatLimit      = 500
	PlaylistFullLimit      = 20
	MaxSafeTitleLength     = 200
	DefaultSocketTimeout   = 30
	DefaultAudioBitrate    = 192
	DefaultQuality         = "192"
	DefaultFormat          = FormatMP3
	DefaultVideoFormatSpec = "bestvideo+bestaudio/best"
	DefaultAudioFormatSpec = "bestaudio/best"
)

// Temp file naming.
const (
	TempDirPattern   = "ytxtract-*"
	TempFilePrefix   = "temp_file"
	TempFileTemplate = TempFilePrefix + ".%(ext)s"
	FallbackPrefix   = "audio_"
	PlaceholderTitle = "video_"
)

// Legacy data files older builds wrote into the download folder.
var LegacyDataFiles = [...]string{"download_stats.json", "download_history.json"}

// Video hosts recognised in pasted input.
var VideoHosts = [...]string{"youtube.com", "youtu.be"}

// WatchURLTemplate builds a canonical watch URL from a video ID.
const WatchURLTemplate = "https://www.youtube.com/watch?v=%s"

// JobIDLength is the length of nanoid job IDs.
const JobIDLength = 12
