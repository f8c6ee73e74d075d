package models

import "testing"

func TestSettingsRequest(t *testing.T) {
	s := Settings{Quality: "320", Format: "FLAC", DownloadFolder: "/tmp/dl", PreserveMetadata: true}
	req := s.Request("https://youtu.be/dQw4w9WgXcQ")
	if req.Format != "flac" || req.BitrateKbps != 320 || !req.PreserveMetadata {
		t.Fatalf("unexpected request: %+v", req)
	}

	bad := Settings{Quality: "best", Format: "ogg"}.Request("u")
	if bad.Format != "mp3" || bad.BitrateKbps != 192 {
		t.Fatalf("expected defaults for invalid settings, got %+v", bad)
	}
}

func TestOutputFormatIsContainer(t *testing.T) {
	for _, f := range []OutputFormat{"mkv", "mp4"} {
		if !f.IsContainer() {
			t.Errorf("%s should be a container", f)
		}
	}
	for _, f := range []OutputFormat{"mp3", "wav", "flac", "m4a"} {
		if f.IsContainer() {
			t.Errorf("%s should not be a container", f)
		}
	}
}
