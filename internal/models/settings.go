package models

import (
	"strconv"
	"strings"

	"ytxtract/internal/domain/consts"
)

// Settings is the persisted configuration document.
type Settings struct {
	Quality               string `json:"quality" mapstructure:"quality"`
	Format                string `json:"format" mapstructure:"format"`
	DownloadFolder        string `json:"download_folder" mapstructure:"download_folder"`
	PreserveMetadata      bool   `json:"preserve_metadata" mapstructure:"preserve_metadata"`
	PlaylistMode          bool   `json:"is_playlist_mode" mapstructure:"is_playlist_mode"`
	BatchMode             bool   `json:"batch_mode" mapstructure:"batch_mode"`
	ClipboardMonitoring   bool   `json:"clipboard_monitoring" mapstructure:"clipboard_monitoring"`
	ShowResolutionPopup   bool   `json:"show_resolution_popup" mapstructure:"show_resolution_popup"`
	ShowAudioQualityPopup bool   `json:"show_audio_quality_popup" mapstructure:"show_audio_quality_popup"`
}

// Request builds the immutable request of one job from the current settings.
func (s Settings) Request(url string) DownloadRequest {
	kbps, err := strconv.Atoi(strings.TrimSpace(s.Quality))
	if err != nil || kbps <= 0 {
		kbps = consts.DefaultAudioBitrate
	}
	f := OutputFormat(strings.ToLower(s.Format))
	if !f.Valid() {
		f = consts.DefaultFormat
	}
	return DownloadRequest{
		URL:                url,
		Format:             f,
		BitrateKbps:        kbps,
		PreserveMetadata:   s.PreserveMetadata,
		PlaylistMode:       s.PlaylistMode,
		DownloadFolder:     s.DownloadFolder,
		ChooseResolution:   s.ShowResolutionPopup,
		ChooseAudioQuality: s.ShowAudioQualityPopup,
	}
}
