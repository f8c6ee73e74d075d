// Package keys holds various keys for software operations, such as terminal input keys and internal Viper keys.
package keys

// Program flags (global viper, overridable with YTXTRACT_* environment variables).
const (
	ConfigDir          string = "config-dir"
	DebugLevel         string = "debug"
	YtdlpPath          string = "ytdlp-path"
	FFmpegPath         string = "ffmpeg-path"
	SocketTimeout      string = "socket-timeout"
	StoreBackend       string = "store-backend"
	CookiesFromBrowser string = "cookies-from-browser"
	PlaylistLimit      string = "playlist-limit"
	ServeAddr          string = "addr"
)

// Store backends.
const (
	BackendJSON   string = "json"
	BackendSQLite string = "sqlite"
)

// EnvPrefix is prepended to environment overrides (e.g. YTXTRACT_FFMPEG_PATH).
const EnvPrefix = "ytxtract"
