package keys

// Persisted settings document keys. These match the document older builds wrote,
// so an existing settings.json loads unchanged.
const (
	Quality               string = "quality"
	Format                string = "format"
	DownloadFolder        string = "download_folder"
	PreserveMetadata      string = "preserve_metadata"
	PlaylistMode          string = "is_playlist_mode"
	BatchMode             string = "batch_mode"
	ClipboardMonitoring   string = "clipboard_monitoring"
	ShowResolutionPopup   string = "show_resolution_popup"
	ShowAudioQualityPopup string = "show_audio_quality_popup"
)

// AllSettings lists every persisted settings key in display order.
var AllSettings = [...]string{
	Quality,
	Format,
	DownloadFolder,
	PreserveMetadata,
	PlaylistMode,
	BatchMode,
	ClipboardMonitoring,
	ShowResolutionPopup,
	ShowAudioQualityPopup,
}
