package formats

import (
	"context"
	"errors"
	"testing"

	"ytxtract/internal/models"
)

func sampleFormats() []models.RawFormat {
	return []models.RawFormat{
		{FormatID: "140", Ext: "m4a", VCodec: "none", ACodec: "mp4a.40.2", ABR: 129.5},
		{FormatID: "251", Ext: "webm", VCodec: "none", ACodec: "opus", ABR: 135.2},
		{FormatID: "249", Ext: "webm", VCodec: "none", ACodec: "opus", ABR: 50},
		{FormatID: "18", Ext: "mp4", VCodec: "avc1.42001E", ACodec: "mp4a.40.2", Width: 640, Height: 360, TBR: 500},
		{FormatID: "134", Ext: "mp4", VCodec: "avc1.4d401e", ACodec: "none", Width: 640, Height: 360, TBR: 600},
		{FormatID: "137", Ext: "mp4", VCodec: "avc1.640028", ACodec: "none", Width: 1920, Height: 1080, TBR: 4000},
		{FormatID: "248", Ext: "webm", VCodec: "vp9", ACodec: "none", Width: 1920, Height: 1080, TBR: 2500},
		{FormatID: "136", Ext: "mp4", VCodec: "avc1.4d401f", ACodec: "none", Width: 1280, Height: 720, TBR: 2000, FPS: 60},
		{FormatID: "sb0", Ext: "mhtml", VCodec: "none", ACodec: "none"},
	}
}

func TestDedupVideoKeepsHighestBitratePerHeight(t *testing.T) {
	got := DedupVideo(sampleFormats())

	wantIDs := []string{"137", "136", "134"}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d variants, want %d: %+v", len(got), len(wantIDs), got)
	}
	for i, id := range wantIDs {
		if got[i].FormatID != id {
			t.Errorf("variant %d = %s, want %s", i, got[i].FormatID, id)
		}
	}

	seen := make(map[int]bool)
	for i, v := range got {
		if seen[v.Height] {
			t.Errorf("duplicate height %d", v.Height)
		}
		seen[v.Height] = true
		if i > 0 && v.Height > got[i-1].Height {
			t.Errorf("heights not non-increasing at %d: %d > %d", i, v.Height, got[i-1].Height)
		}
	}
}

func TestDedupAudioBuckets(t *testing.T) {
	got := DedupAudio(sampleFormats())
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %+v", got)
	}
	if got[0].BitrateKbps != 128 || got[0].FormatID != "251" {
		t.Errorf("top bucket = %+v, want 251 at 128", got[0])
	}
	if got[1].BitrateKbps != 48 {
		t.Errorf("second bucket = %d, want 48", got[1].BitrateKbps)
	}
}

func TestBucket(t *testing.T) {
	tests := map[float64]int{320: 320, 300: 320, 170: 160, 129.5: 128, 10: 48}
	for in, want := range tests {
		if got := Bucket(in); got != want {
			t.Errorf("Bucket(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestLabel(t *testing.T) {
	v := models.FormatVariant{Kind: models.KindVideo, Height: 720, FPS: 60, Codec: "avc1.4d401f", EstimatedSizeBytes: 10 * 1024 * 1024}
	if got := Label(v); got != "720p 60fps (avc1, ~10.0 MB)" {
		t.Errorf("Label = %q", got)
	}
	a := models.FormatVariant{Kind: models.KindAudio, BitrateKbps: 160, Codec: "opus"}
	if got := Label(a); got != "160 kbps (opus)" {
		t.Errorf("Label = %q", got)
	}
}

type fakePrompter struct {
	index int
	ok    bool
	err   error
	asked int
}

func (f *fakePrompter) Confirm(context.Context, string) (bool, error) { return true, nil }

func (f *fakePrompter) ChooseFormat(context.Context, string, []models.FormatVariant) (int, bool, error) {
	f.asked++
	return f.index, f.ok, f.err
}

func TestSelectVideoFormat(t *testing.T) {
	variants := DedupVideo(sampleFormats())
	req := models.DownloadRequest{Format: "mkv", BitrateKbps: 192}

	t.Run("non-interactive default", func(t *testing.T) {
		p := &fakePrompter{}
		c, ok, err := NewSelector(p).SelectVideoFormat(context.Background(), "t", variants, req)
		if err != nil || !ok {
			t.Fatalf("ok=%v err=%v", ok, err)
		}
		if c.FormatSpec != "bestvideo+bestaudio/best" || p.asked != 0 {
			t.Fatalf("got %+v, asked %d", c, p.asked)
		}
	})

	interactive := req
	interactive.ChooseResolution = true

	t.Run("chosen", func(t *testing.T) {
		p := &fakePrompter{index: 1, ok: true}
		c, ok, err := NewSelector(p).SelectVideoFormat(context.Background(), "t", variants, interactive)
		if err != nil || !ok {
			t.Fatalf("ok=%v err=%v", ok, err)
		}
		if c.FormatSpec != "136+bestaudio/136/best" {
			t.Fatalf("FormatSpec = %q", c.FormatSpec)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		p := &fakePrompter{ok: false}
		_, ok, err := NewSelector(p).SelectVideoFormat(context.Background(), "t", variants, interactive)
		if err != nil || ok {
			t.Fatalf("expected cancel, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("prompt error", func(t *testing.T) {
		p := &fakePrompter{err: context.Canceled}
		_, _, err := NewSelector(p).SelectVideoFormat(context.Background(), "t", variants, interactive)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		p := &fakePrompter{index: 99, ok: true}
		if _, _, err := NewSelector(p).SelectVideoFormat(context.Background(), "t", variants, interactive); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("no variants", func(t *testing.T) {
		p := &fakePrompter{}
		c, ok, err := NewSelector(p).SelectVideoFormat(context.Background(), "t", nil, interactive)
		if err != nil || !ok || c.FormatSpec != "bestvideo+bestaudio/best" || p.asked != 0 {
			t.Fatalf("got %+v ok=%v err=%v asked=%d", c, ok, err, p.asked)
		}
	})
}

func TestSelectAudioFormatUsesVariantBitrate(t *testing.T) {
	variants := DedupAudio(sampleFormats())
	req := models.DownloadRequest{Format: "mp3", BitrateKbps: 320, ChooseAudioQuality: true}

	c, ok, err := NewSelector(&fakePrompter{index: 0, ok: true}).Select(context.Background(), "t", variants, req)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if c.BitrateKbps != 128 || c.FormatSpec != "251/bestaudio/best" {
		t.Fatalf("got %+v", c)
	}
}
