package extractor

import (
	"context"
	"errors"
	"slices"
	"testing"

	"ytxtract/internal/domain/errconsts"
	"ytxtract/internal/models"
)

type call struct {
	name string
	args []string
}

type result struct {
	stdout string
	stderr string
	err    error
}

// scriptedRunner answers each call with the next scripted result.
type scriptedRunner struct {
	results []result
	calls   []call
	lines   []string
}

func (r *scriptedRunner) Run(_ context.Context, name string, args []string, onLine func(string)) ([]byte, []byte, error) {
	r.calls = append(r.calls, call{name: name, args: args})
	if onLine != nil {
		for _, l := range r.lines {
			onLine(l)
		}
	}
	if len(r.results) == 0 {
		return nil, nil, errors.New("unexpected call")
	}
	res := r.results[0]
	r.results = r.results[1:]
	return []byte(res.stdout), []byte(res.stderr), res.err
}

var errExit = errors.New("exit status 1")

func TestGetInfo(t *testing.T) {
	r := &scriptedRunner{results: []result{{stdout: `{"id":"abcdEFGH123","title":"Song","uploader":"Band","duration":213,"upload_date":"20200102",
		"formats":[{"format_id":"140","vcodec":"none","acodec":"mp4a","abr":129}]}`}}}
	c := New("yt-dlp", 30, r)

	info, err := c.GetInfo(context.Background(), "https://www.youtube.com/watch?v=abcdEFGH123")
	if err != nil {
		t.Fatalf("GetInfo: %v", err)
	}
	if info.Title != "Song" || info.Uploader != "Band" || info.DurationSeconds != 213 || len(info.Formats) != 1 {
		t.Fatalf("unexpected info: %+v", info)
	}
	if !slices.Contains(r.calls[0].args, "--dump-single-json") {
		t.Errorf("args = %v", r.calls[0].args)
	}
}

func TestGetInfoClassifiesErrors(t *testing.T) {
	tests := []struct {
		stderr string
		want   errconsts.Kind
	}{
		{"WARNING: something\nERROR: [youtube] abc: Private video. Sign in if you've been granted access", errconsts.KindUnavailable},
		{"ERROR: [youtube] abc: Sign in to confirm your age", errconsts.KindAgeRestricted},
		{"ERROR: Unable to download webpage: connection reset", errconsts.KindNetwork},
		{"ERROR: something odd", errconsts.KindExtraction},
	}
	for _, tt := range tests {
		c := New("", 0, &scriptedRunner{results: []result{{stderr: tt.stderr, err: errExit}}})
		_, err := c.GetInfo(context.Background(), "u")
		if got := errconsts.KindOf(err); got != tt.want {
			t.Errorf("stderr %q: kind %v, want %v", tt.stderr, got, tt.want)
		}
	}
}

func TestGetPlaylistRejectsCollectionIDs(t *testing.T) {
	doc := `{"id":"PLxyz","title":"Mix","entries":[
		{"id":"dQw4w9WgXcQ","url":"https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"id":"PLabcdefghi","url":"https://www.youtube.com/playlist?list=PLabcdefghi"},
		{"id":"UCabcdefghi"},
		{"id":"UUabcdefghi"},
		null,
		{"id":"9bZkp7q19f0"},
		{"webpage_url":"https://www.youtube.com/watch?v=kJQP7kiw5Fk"}
	]}`
	c := New("", 0, &scriptedRunner{results: []result{{stdout: doc}}})

	info, err := c.GetPlaylist(context.Background(), "https://www.youtube.com/playlist?list=PLxyz", 50)
	if err != nil {
		t.Fatalf("GetPlaylist: %v", err)
	}
	if info == nil || len(info.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %+v", info)
	}
	for _, e := range info.Entries {
		for _, p := range []string{"PL", "UC", "UU"} {
			if len(e.ID) >= 2 && e.ID[:2] == p {
				t.Errorf("collection ID emitted: %+v", e)
			}
		}
	}
	if info.Title != "Mix" {
		t.Errorf("Title = %q", info.Title)
	}
}

func TestGetPlaylistFallsBackToFullExtraction(t *testing.T) {
	r := &scriptedRunner{results: []result{
		{stdout: `{"id":"PLxyz","entries":[{"id":"PLnotavideo"},{"title":"no id"}]}`},
		{stdout: `{"id":"PLxyz","title":"Full","entries":[{"id":"dQw4w9WgXcQ"},{"id":"short"}]}`},
	}}
	c := New("", 0, r)

	info, err := c.GetPlaylist(context.Background(), "u", 50)
	if err != nil {
		t.Fatalf("GetPlaylist: %v", err)
	}
	if info == nil || len(info.Entries) != 1 || info.Entries[0].ID != "dQw4w9WgXcQ" {
		t.Fatalf("got %+v", info)
	}
	if len(r.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(r.calls))
	}
	if slices.Contains(r.calls[1].args, "--flat-playlist") {
		t.Errorf("second call must be a full listing: %v", r.calls[1].args)
	}
	if !slices.Contains(r.calls[1].args, "20") {
		t.Errorf("full listing must use the smaller cap: %v", r.calls[1].args)
	}
}

func TestGetPlaylistFallsBackToURLID(t *testing.T) {
	c := New("", 0, &scriptedRunner{results: []result{{stderr: "ERROR: boom", err: errExit}}})

	info, err := c.GetPlaylist(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLabc", 0)
	if err != nil {
		t.Fatalf("GetPlaylist: %v", err)
	}
	if info == nil || len(info.Entries) != 1 || info.Entries[0].ID != "dQw4w9WgXcQ" {
		t.Fatalf("got %+v", info)
	}

	c = New("", 0, &scriptedRunner{results: []result{{stderr: "ERROR: boom", err: errExit}}})
	info, err = c.GetPlaylist(context.Background(), "https://www.youtube.com/playlist?list=PLabc", 0)
	if err != nil || info != nil {
		t.Fatalf("expected nil info, got %+v, %v", info, err)
	}
}

func TestDownloadReportsProgress(t *testing.T) {
	r := &scriptedRunner{
		results: []result{{}},
		lines:   []string{"[ytxtract]  12.5%", "noise", "[ytxtract] 100.0%"},
	}
	c := New("", 0, r)

	var got []float64
	err := c.Download(context.Background(), "u", models.DownloadOptions{
		FormatSpec: "bestaudio/best",
		OnProgress: func(ratio float64) { got = append(got, ratio) },
	})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if len(got) != 2 || got[0] != 0.125 || got[1] != 1 {
		t.Fatalf("progress = %v", got)
	}
}

func TestDownloadErrorKinds(t *testing.T) {
	c := New("", 0, &scriptedRunner{results: []result{{stderr: "ERROR: Video unavailable", err: errExit}}})
	err := c.Download(context.Background(), "u", models.DownloadOptions{})
	if errconsts.KindOf(err) != errconsts.KindUnavailable {
		t.Fatalf("kind = %v", errconsts.KindOf(err))
	}
	if !errors.Is(err, errExit) {
		t.Fatalf("cause lost: %v", err)
	}
}
