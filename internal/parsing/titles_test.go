package parsing

import (
	"strings"
	"testing"
	"time"
)

func TestSafeTitle(t *testing.T) {
	tests := map[string]string{
		"Rick Astley - Never Gonna Give You Up (Official Video)": "Rick Astley - Never Gonna Give You Up Official Video",
		"a/b\\c:d*e?f\"g<h>i|j":                                  "abcdefghij",
		"Çağrı şarkı_01  ":                                       "Çağrı şarkı_01",
		"???":                                                    "",
	}
	for in, want := range tests {
		if got := SafeTitle(in); got != want {
			t.Errorf("SafeTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSafeTitleTruncates(t *testing.T) {
	got := SafeTitle(strings.Repeat("a", 500))
	if len(got) != 200 {
		t.Fatalf("len = %d, want 200", len(got))
	}
}

func TestPlaceholderTitles(t *testing.T) {
	now := time.Unix(1700000000, 0)
	if got := PlaceholderTitle(now); got != "video_1700000000" {
		t.Errorf("PlaceholderTitle = %q", got)
	}
	if got := FallbackTitle(now); got != "audio_1700000000" {
		t.Errorf("FallbackTitle = %q", got)
	}
}

func TestUploadYear(t *testing.T) {
	if got := UploadYear("20091025"); got != "2009" {
		t.Errorf("UploadYear = %q", got)
	}
	if got := UploadYear(""); got != "" {
		t.Errorf("UploadYear(empty) = %q", got)
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 6, 0, time.Local)
	got, err := ParseTimestamp(FormatTimestamp(now))
	if err != nil {
		t.Fatalf("ParseTimestamp: %v", err)
	}
	if !got.Equal(now) {
		t.Fatalf("got %v, want %v", got, now)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(213); got != "3:33" {
		t.Errorf("FormatDuration(213) = %q", got)
	}
	if got := FormatDuration(3725); got != "1:02:05" {
		t.Errorf("FormatDuration(3725) = %q", got)
	}
}
