package command

// Program
const (
	FFmpeg = "ffmpeg"
)

// Flags
const (
	FFInput       = "-i"
	FFOverwrite   = "-y"
	FFHideBanner  = "-hide_banner"
	FFLogLevel    = "-loglevel"
	FFLogError    = "error"
	FFCodecCopy   = "-c"
	FFCopy        = "copy"
	FFAudioCodec  = "-acodec"
	FFAudioRate   = "-b:a"
	FFMetadata    = "-metadata"
	FFNoVideo     = "-vn"
	FFMapMetadata = "-map_metadata"
)

// Metadata keys
const (
	MetaTitle  = "title"
	MetaArtist = "artist"
	MetaDate   = "date"
)
