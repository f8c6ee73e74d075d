package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func TestCookieFileWritesNetscapeFormat(t *testing.T) {
	cm := NewCookieManager()
	cm.read = func(_ context.Context, domain string) ([]*http.Cookie, error) {
		if domain != "youtube.com" {
			t.Errorf("domain = %q", domain)
		}
		return []*http.Cookie{
			{Name: "SID", Value: "abc", Domain: ".youtube.com", Path: "/", Secure: true, Expires: time.Unix(2000000000, 0)},
			{Name: "PREF", Value: "f1=1"},
		}, nil
	}

	path, cleanup, err := cm.CookieFile(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("CookieFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "# Netscape HTTP Cookie File") {
		t.Errorf("missing header: %q", text)
	}
	if !strings.Contains(text, ".youtube.com\tTRUE\t/\tTRUE\t2000000000\tSID\tabc\n") {
		t.Errorf("SID line missing: %q", text)
	}
	if !strings.Contains(text, "youtube.com\tFALSE\t/\tFALSE\t0\tPREF\tf1=1\n") {
		t.Errorf("PREF line missing: %q", text)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("cookie file not removed")
	}
}

func TestCookieFileWithoutCookies(t *testing.T) {
	cm := NewCookieManager()
	calls := 0
	cm.read = func(context.Context, string) ([]*http.Cookie, error) {
		calls++
		return nil, nil
	}
	for range 2 {
		path, cleanup, err := cm.CookieFile(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
		if err != nil || path != "" {
			t.Fatalf("path=%q err=%v", path, err)
		}
		cleanup()
	}
	if calls != 1 {
		t.Errorf("browser cookies read %d times, want cached after first", calls)
	}
}

func TestProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(`<html><head><meta property="og:title" content="Song"></head><body></body></html>`))
		case "/gone":
			_, _ = w.Write([]byte(`<html><head></head><body>Video unavailable</body></html>`))
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer srv.Close()

	p := NewProber(nil)

	res, err := p.Probe(context.Background(), srv.URL+"/ok")
	if err != nil || !res.Reachable || res.Title != "Song" || res.Blocked {
		t.Fatalf("ok: %+v, %v", res, err)
	}

	res, err = p.Probe(context.Background(), srv.URL+"/gone")
	if err != nil || res.Reachable || res.Blocked {
		t.Fatalf("gone: %+v, %v", res, err)
	}

	res, err = p.Probe(context.Background(), srv.URL+"/blocked")
	if err != nil || res.Reachable || !res.Blocked || res.StatusCode != http.StatusForbidden {
		t.Fatalf("blocked: %+v, %v", res, err)
	}
}
