package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ytxtract/internal/app"
	"ytxtract/internal/config"
	"ytxtract/internal/domain/consts"
	"ytxtract/internal/fakes"
	"ytxtract/internal/models"
)

type testServer struct {
	srv   *Server
	ext   *fakes.Extractor
	hist  *fakes.History
	store *config.Store
}

func newTestServer(t *testing.T, mutate func(*models.Settings)) *testServer {
	t.Helper()
	dir := t.TempDir()
	store, err := config.NewStore(filepath.Join(dir, "settings.json"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Update(func(s *models.Settings) {
		s.DownloadFolder = filepath.Join(dir, "out")
		if mutate != nil {
			mutate(s)
		}
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	ts := &testServer{
		ext:   &fakes.Extractor{},
		hist:  &fakes.History{},
		store: store,
	}
	ctrl, err := app.New(app.Deps{
		Extractor:  ts.ext,
		Transcoder: &fakes.Transcoder{},
		History:    ts.hist,
		Stats:      &fakes.Stats{},
		TempRoot:   t.TempDir(),
	}, store)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	ts.srv = New(ctrl, ts.hist, &fakes.Stats{}, store)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go ts.srv.Consume(ctx)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.srv.App().Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

// waitJob polls the current job until cond holds.
func (ts *testServer) waitJob(t *testing.T, cond func(jobView) bool) jobView {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		code, body := ts.do(t, http.MethodGet, "/api/v1/jobs/current", "")
		if code != http.StatusOK {
			t.Fatalf("current job: %d %s", code, body)
		}
		var v jobView
		if err := json.Unmarshal(body, &v); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if cond(v) {
			return v
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("timed out waiting for job state")
	return jobView{}
}

func TestSubmitAndHistory(t *testing.T) {
	ts := newTestServer(t, func(s *models.Settings) { s.Format = consts.FormatMP3 })

	code, body := ts.do(t, http.MethodPost, "/api/v1/jobs", `{"input":"https://www.youtube.com/watch?v=dQw4w9WgXcQ"}`)
	if code != http.StatusAccepted || !strings.Contains(string(body), `"id"`) {
		t.Fatalf("submit: %d %s", code, body)
	}

	v := ts.waitJob(t, func(v jobView) bool { return v.Result != nil })
	if v.Result.Status != "success" || !strings.HasSuffix(v.Result.OutputPath, ".mp3") {
		t.Errorf("result = %+v", v.Result)
	}

	code, body = ts.do(t, http.MethodGet, "/api/v1/history", "")
	var entries []models.HistoryEntry
	if err := json.Unmarshal(body, &entries); err != nil || code != http.StatusOK {
		t.Fatalf("history: %d %s", code, body)
	}
	if len(entries) != 1 || entries[0].Format != "MP3" {
		t.Errorf("history = %+v", entries)
	}
}

func TestSubmitRejectsPlaceholder(t *testing.T) {
	ts := newTestServer(t, nil)

	code, body := ts.do(t, http.MethodPost, "/api/v1/jobs", `{"input":"Paste YouTube URL here..."}`)
	if code != http.StatusBadRequest || !strings.Contains(string(body), "valid YouTube URL") {
		t.Errorf("submit placeholder: %d %s", code, body)
	}
	if code, _ := ts.do(t, http.MethodPost, "/api/v1/jobs/current/cancel", ""); code != http.StatusNotFound {
		t.Errorf("cancel without job: %d", code)
	}
}

func TestPlaylistPromptDeclined(t *testing.T) {
	ts := newTestServer(t, func(s *models.Settings) { s.PlaylistMode = false })

	code, body := ts.do(t, http.MethodPost, "/api/v1/jobs", `{"input":"https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLabcdefghijkl"}`)
	if code != http.StatusAccepted {
		t.Fatalf("submit: %d %s", code, body)
	}

	v := ts.waitJob(t, func(v jobView) bool { return v.Prompt != nil })
	if v.Prompt.Kind != "confirm" {
		t.Errorf("prompt = %+v", v.Prompt)
	}

	if code, body := ts.do(t, http.MethodPost, "/api/v1/jobs/current/prompt", `{"yes":false}`); code != http.StatusNoContent {
		t.Fatalf("answer: %d %s", code, body)
	}

	v = ts.waitJob(t, func(v jobView) bool { return v.Result != nil })
	if v.Result.Status != "cancelled" {
		t.Errorf("result = %+v", v.Result)
	}
	if calls := ts.ext.Calls(); len(calls) != 0 {
		t.Errorf("extractor calls = %v", calls)
	}
	if code, _ := ts.do(t, http.MethodPost, "/api/v1/jobs/current/prompt", `{"yes":true}`); code != http.StatusNotFound {
		t.Errorf("second answer: %d", code)
	}
}

func TestSettingsRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	code, body := ts.do(t, http.MethodPut, "/api/v1/settings/format", `{"value":"flac"}`)
	if code != http.StatusOK {
		t.Fatalf("set: %d %s", code, body)
	}
	if got := ts.store.Settings().Format; got != consts.FormatFLAC {
		t.Errorf("format = %q", got)
	}

	if code, _ := ts.do(t, http.MethodPut, "/api/v1/settings/format", `{"value":"avi"}`); code != http.StatusBadRequest {
		t.Errorf("invalid format accepted: %d", code)
	}
	if code, _ := ts.do(t, http.MethodPut, "/api/v1/settings/nope", `{"value":"1"}`); code != http.StatusBadRequest {
		t.Errorf("unknown key accepted: %d", code)
	}

	code, body = ts.do(t, http.MethodGet, "/api/v1/settings", "")
	var s models.Settings
	if err := json.Unmarshal(body, &s); err != nil || code != http.StatusOK {
		t.Fatalf("get: %d %s", code, body)
	}
	if s.Format != consts.FormatFLAC {
		t.Errorf("settings = %+v", s)
	}
}
