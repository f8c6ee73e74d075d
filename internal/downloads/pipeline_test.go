package downloads

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ytxtract/internal/domain/consts"
	"ytxtract/internal/domain/errconsts"
	"ytxtract/internal/fakes"
	"ytxtract/internal/formats"
	"ytxtract/internal/models"
)

const testURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

var fixedNow = time.Unix(1700000000, 0)

type harness struct {
	ext      *fakes.Extractor
	tc       *fakes.Transcoder
	hist     *fakes.History
	stats    *fakes.Stats
	prompter *fakes.Prompter
	rep      *fakes.Reporter
	tempRoot string
	folder   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{
		ext:      &fakes.Extractor{Info: map[string]*models.MediaInfo{}, InfoErr: map[string]error{}},
		tc:       &fakes.Transcoder{},
		hist:     &fakes.History{},
		stats:    &fakes.Stats{},
		prompter: &fakes.Prompter{},
		rep:      &fakes.Reporter{},
		tempRoot: t.TempDir(),
		folder:   filepath.Join(t.TempDir(), "downloads"),
	}
}

func (h *harness) pipeline() *Pipeline {
	return NewPipeline(Deps{
		Extractor:  h.ext,
		Transcoder: h.tc,
		History:    h.hist,
		Stats:      h.stats,
		Selector:   formats.NewSelector(h.prompter),
		Reporter:   h.rep,
		TempRoot:   h.tempRoot,
		Now:        func() time.Time { return fixedNow },
	})
}

func (h *harness) request(format string) models.DownloadRequest {
	return models.DownloadRequest{
		URL:              testURL,
		Format:           models.OutputFormat(format),
		BitrateKbps:      192,
		PreserveMetadata: true,
		DownloadFolder:   h.folder,
	}
}

func (h *harness) assertTempCleaned(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(h.tempRoot)
	if err != nil {
		t.Fatalf("read temp root: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("temp root not cleaned, %d entries left", len(entries))
	}
}

func (h *harness) assertNothingRecorded(t *testing.T) {
	t.Helper()
	hist, _ := h.hist.List()
	st, _ := h.stats.Get()
	if len(hist) != 0 || st.TotalDownloads != 0 || st.TotalSizeMB != 0 {
		t.Errorf("unexpected records: history=%v stats=%+v", hist, st)
	}
}

func TestRunMP3EndToEnd(t *testing.T) {
	h := newHarness(t)
	h.ext.Info[testURL] = &models.MediaInfo{
		Title:      "My Song!",
		Uploader:   "Band",
		UploadDate: "20230105",
	}

	out := h.pipeline().Run(context.Background(), h.request(consts.FormatMP3), nil)
	if out.Status != models.OutcomeSuccess {
		t.Fatalf("status = %v (%v)", out.Status, out.Err)
	}

	want := filepath.Join(h.folder, "My Song.mp3")
	if out.OutputPath != want {
		t.Errorf("output = %q, want %q", out.OutputPath, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("output missing: %v", err)
	}
	if out.FileSizeMB <= 0 {
		t.Errorf("size = %v", out.FileSizeMB)
	}

	calls := h.tc.Calls()
	if len(calls) != 1 {
		t.Fatalf("transcoder calls = %d", len(calls))
	}
	c := calls[0]
	if c.Codec != "libmp3lame" || c.BitrateKbps != 192 || c.Copy {
		t.Errorf("transcode options = %+v", c)
	}
	wantTags := []models.MetaTag{{Key: "title", Value: "My Song"}, {Key: "artist", Value: "Band"}, {Key: "date", Value: "2023"}}
	if len(c.Metadata) != len(wantTags) {
		t.Fatalf("metadata = %v", c.Metadata)
	}
	for i := range wantTags {
		if c.Metadata[i] != wantTags[i] {
			t.Errorf("metadata[%d] = %v, want %v", i, c.Metadata[i], wantTags[i])
		}
	}

	hist, _ := h.hist.List()
	if len(hist) != 1 || hist[0].Format != "MP3" || hist[0].Title != "My Song" {
		t.Errorf("history = %+v", hist)
	}
	st, _ := h.stats.Get()
	if st.TotalDownloads != 1 || st.TotalSizeMB != out.FileSizeMB {
		t.Errorf("stats = %+v", st)
	}

	if !h.rep.Saw("Converting to MP3...") || !h.rep.Saw("Audio download completed!") {
		t.Errorf("statuses = %v", h.rep.Statuses())
	}
	if len(h.rep.ProgressValues()) == 0 {
		t.Errorf("no progress reported")
	}
	h.assertTempCleaned(t)
}

func TestRunInteractiveCancel(t *testing.T) {
	h := newHarness(t)
	h.ext.Info[testURL] = &models.MediaInfo{
		Title: "Clip",
		Formats: []models.RawFormat{
			{FormatID: "137", VCodec: "avc1", Height: 1080, TBR: 4000},
			{FormatID: "22", VCodec: "avc1", ACodec: "mp4a", Height: 720, TBR: 1500},
		},
	}
	h.prompter.ChooseOK = false

	req := h.request(consts.FormatMKV)
	req.ChooseResolution = true

	p := h.pipeline()
	out := p.Run(context.Background(), req, nil)
	if out.Status != models.OutcomeCancelled {
		t.Fatalf("status = %v, want cancelled", out.Status)
	}
	if p.State() != StateCancelled {
		t.Errorf("state = %v", p.State())
	}
	if h.prompter.Chooses != 1 {
		t.Errorf("prompter asked %d times", h.prompter.Chooses)
	}
	if n := h.ext.CallCount("download"); n != 0 {
		t.Errorf("downloads = %d after cancel", n)
	}
	h.assertNothingRecorded(t)
	h.assertTempCleaned(t)
}

func TestRunInteractiveVideoChoice(t *testing.T) {
	h := newHarness(t)
	h.ext.Info[testURL] = &models.MediaInfo{
		Title: "Clip",
		Formats: []models.RawFormat{
			{FormatID: "137", VCodec: "avc1", Height: 1080, TBR: 4000},
			{FormatID: "22", VCodec: "avc1", ACodec: "mp4a", Height: 720, TBR: 1500},
		},
	}
	h.prompter.ChooseOK = true
	h.prompter.ChooseIndex = 1

	req := h.request(consts.FormatMKV)
	req.ChooseResolution = true

	out := h.pipeline().Run(context.Background(), req, nil)
	if out.Status != models.OutcomeSuccess {
		t.Fatalf("status = %v (%v)", out.Status, out.Err)
	}
	want := "download " + testURL + " 22+bestaudio/22/best"
	if calls := h.ext.Calls(); calls[len(calls)-1] != want {
		t.Errorf("last call = %q, want %q", calls[len(calls)-1], want)
	}
	if c := h.tc.Calls(); len(c) != 1 || !c[0].Copy {
		t.Errorf("mkv should remux: %+v", c)
	}
}

func TestRunPresetSkipsSelection(t *testing.T) {
	h := newHarness(t)
	req := h.request(consts.FormatMKV)
	req.ChooseResolution = true

	preset := &formats.Choice{FormatSpec: "136+bestaudio/136/best"}
	out := h.pipeline().Run(context.Background(), req, preset)
	if out.Status != models.OutcomeSuccess {
		t.Fatalf("status = %v (%v)", out.Status, out.Err)
	}
	if h.prompter.Chooses != 0 {
		t.Errorf("prompted despite preset")
	}
	if h.ext.CallCount("download "+testURL+" 136+bestaudio/136/best") != 1 {
		t.Errorf("preset spec not used: %v", h.ext.Calls())
	}
}

func TestRunMP4CopyWithoutMetadata(t *testing.T) {
	h := newHarness(t)
	h.tc.AvailableErr = errconsts.New(errconsts.KindTranscoderMissing, "ffmpeg", errors.New("missing"))
	req := h.request(consts.FormatMP4)
	req.PreserveMetadata = false

	out := h.pipeline().Run(context.Background(), req, nil)
	if out.Status != models.OutcomeSuccess {
		t.Fatalf("status = %v (%v)", out.Status, out.Err)
	}
	if len(h.tc.Calls()) != 0 {
		t.Errorf("plain mp4 should not transcode")
	}
	if filepath.Ext(out.OutputPath) != ".mp4" {
		t.Errorf("output = %q", out.OutputPath)
	}
	hist, _ := h.hist.List()
	if len(hist) != 1 || hist[0].Format != "MP4" {
		t.Errorf("history = %+v", hist)
	}
}

func TestRunTranscoderMissing(t *testing.T) {
	h := newHarness(t)
	h.tc.AvailableErr = errconsts.New(errconsts.KindTranscoderMissing, "ffmpeg", errors.New("missing"))

	out := h.pipeline().Run(context.Background(), h.request(consts.FormatMKV), nil)
	if out.Status != models.OutcomeFailed || out.Kind != errconsts.KindTranscoderMissing {
		t.Fatalf("outcome = %+v", out)
	}
	h.assertNothingRecorded(t)
	h.assertTempCleaned(t)
}

func TestRunInfoFailureUsesPlaceholderTitle(t *testing.T) {
	h := newHarness(t)
	h.ext.InfoErr[testURL] = errconsts.New(errconsts.KindNetwork, "info", errors.New("timed out"))

	out := h.pipeline().Run(context.Background(), h.request(consts.FormatMKV), nil)
	if out.Status != models.OutcomeSuccess {
		t.Fatalf("status = %v (%v)", out.Status, out.Err)
	}
	if base := filepath.Base(out.OutputPath); base != "video_1700000000.mkv" {
		t.Errorf("output = %q", base)
	}
}

func TestRunContainerDownloadErrorIsFatal(t *testing.T) {
	h := newHarness(t)
	h.ext.DownloadErr = func(string, string) error {
		return errconsts.New(errconsts.KindNetwork, "download", errors.New("connection reset"))
	}

	out := h.pipeline().Run(context.Background(), h.request(consts.FormatMP4), nil)
	if out.Status != models.OutcomeFailed || out.Kind != errconsts.KindNetwork {
		t.Fatalf("outcome = %+v", out)
	}
	if n := h.ext.CallCount("download"); n != 1 {
		t.Errorf("downloads = %d, want no fallback", n)
	}
}

func TestRunContainerNotAvailableFallsBackToAudio(t *testing.T) {
	h := newHarness(t)
	h.ext.DownloadErr = func(_, spec string) error {
		if spec != consts.DefaultVideoFormatSpec {
			return nil
		}
		msg := "This video is not available in your country"
		return errconsts.New(errconsts.Classify(msg), "download", errors.New(msg))
	}

	out := h.pipeline().Run(context.Background(), h.request(consts.FormatMP4), nil)
	if out.Status != models.OutcomeSuccess || !out.Fallback {
		t.Fatalf("outcome = %+v", out)
	}
	if filepath.Ext(out.OutputPath) != ".mp3" {
		t.Errorf("output = %q", out.OutputPath)
	}
	if !h.rep.Saw("Video download failed, trying audio...") {
		t.Errorf("statuses = %v", h.rep.Statuses())
	}
	h.assertTempCleaned(t)
}

func TestRunUnavailableInfoFallsBackToAudio(t *testing.T) {
	h := newHarness(t)
	h.ext.InfoErr[testURL] = errconsts.New(errconsts.KindUnavailable, "info", errors.New("Video unavailable"))

	out := h.pipeline().Run(context.Background(), h.request(consts.FormatMKV), nil)
	if out.Status != models.OutcomeSuccess || !out.Fallback {
		t.Fatalf("outcome = %+v", out)
	}
	if base := filepath.Base(out.OutputPath); base != "audio_1700000000.mp3" {
		t.Errorf("output = %q", base)
	}
	if n := h.ext.CallCount("download " + testURL + " bestaudio/best"); n != 1 {
		t.Errorf("first strategy not used: %v", h.ext.Calls())
	}
	hist, _ := h.hist.List()
	if len(hist) != 1 || hist[0].Format != "MP3 (Audio Fallback)" {
		t.Errorf("history = %+v", hist)
	}
	h.assertTempCleaned(t)
}

func TestFallbackKeepsAcceptedAudioAndAvoidsCollisions(t *testing.T) {
	h := newHarness(t)
	h.ext.Ext = "m4a"
	h.ext.DownloadErr = func(_, spec string) error {
		if spec == consts.DefaultAudioFormatSpec {
			return errors.New("HTTP Error 403: Forbidden")
		}
		return nil
	}
	h.ext.Info[testURL] = &models.MediaInfo{Title: "Song"}
	if err := os.MkdirAll(h.folder, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(h.folder, "Song.m4a"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := h.pipeline().Run(context.Background(), h.request(consts.FormatFLAC), nil)
	if out.Status != models.OutcomeSuccess || !out.Fallback {
		t.Fatalf("outcome = %+v", out)
	}
	if base := filepath.Base(out.OutputPath); base != "Song_1.m4a" {
		t.Errorf("output = %q", base)
	}
	if len(h.tc.Calls()) != 0 {
		t.Errorf("accepted audio should not be converted")
	}
	if !h.rep.Saw("Trying strategy 2/3...") {
		t.Errorf("statuses = %v", h.rep.Statuses())
	}
	hist, _ := h.hist.List()
	if len(hist) != 1 || hist[0].Format != "M4A (Audio Fallback)" {
		t.Errorf("history = %+v", hist)
	}
}

func TestFallbackAllStrategiesFail(t *testing.T) {
	h := newHarness(t)
	h.ext.InfoErr[testURL] = errconsts.New(errconsts.KindUnavailable, "info", errors.New("Private video"))
	h.ext.DownloadErr = func(string, string) error { return errors.New("ERROR: Private video") }

	out := h.pipeline().Run(context.Background(), h.request(consts.FormatMP3), nil)
	if out.Status != models.OutcomeFailed || out.Kind != errconsts.KindAllStrategiesFailed {
		t.Fatalf("outcome = %+v", out)
	}
	if n := h.ext.CallCount("download"); n != len(fallbackStrategies) {
		t.Errorf("downloads = %d", n)
	}
	if !h.rep.Saw("Video completely unavailable") {
		t.Errorf("statuses = %v", h.rep.Statuses())
	}
	if !strings.Contains(out.Reason, "Content not accessible") {
		t.Errorf("reason = %q", out.Reason)
	}
	h.assertNothingRecorded(t)
	h.assertTempCleaned(t)
}

func TestStateNames(t *testing.T) {
	if StateConvertingOrCopying.String() != "converting" || State(99).String() != "unknown" {
		t.Errorf("unexpected state names")
	}
}
