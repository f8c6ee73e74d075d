package file

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ytxtract/internal/domain/errconsts"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("write %q: %v", path, err)
	}
}

func TestNextAvailablePath(t *testing.T) {
	dir := t.TempDir()
	if got := NextAvailablePath(dir, "song", ".mp3"); got != filepath.Join(dir, "song.mp3") {
		t.Fatalf("got %q", got)
	}
	touch(t, filepath.Join(dir, "song.mp3"))
	touch(t, filepath.Join(dir, "song_1.mp3"))
	if got := NextAvailablePath(dir, "song", ".mp3"); got != filepath.Join(dir, "song_2.mp3") {
		t.Fatalf("got %q", got)
	}
}

func TestFindCompleteFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := FindCompleteFile(dir, "temp_file"); !errors.Is(err, errconsts.ErrNoFile) {
		t.Fatalf("err = %v", err)
	}
	touch(t, filepath.Join(dir, "temp_file.webm.part"))
	touch(t, filepath.Join(dir, "other.webm"))
	if _, err := FindCompleteFile(dir, "temp_file"); !errors.Is(err, errconsts.ErrNoFile) {
		t.Fatalf("partial file accepted: %v", err)
	}
	touch(t, filepath.Join(dir, "temp_file.webm"))
	got, err := FindCompleteFile(dir, "temp_file")
	if err != nil || got != filepath.Join(dir, "temp_file.webm") {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.m4a")
	dst := filepath.Join(dir, "b.m4a")
	touch(t, src)
	if err := MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("source still exists")
	}
	if mb, err := SizeMB(dst); err != nil || mb <= 0 {
		t.Errorf("SizeMB = %v, %v", mb, err)
	}
}

func TestSweepStaleTempDirs(t *testing.T) {
	root := t.TempDir()
	stale := filepath.Join(root, "ytxtract-old")
	fresh := filepath.Join(root, "ytxtract-new")
	other := filepath.Join(root, "unrelated")
	for _, d := range []string{stale, fresh, other} {
		if err := os.Mkdir(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(other, old, old); err != nil {
		t.Fatal(err)
	}

	if n := SweepStaleTempDirs(root, time.Hour); n != 1 {
		t.Fatalf("deleted %d, want 1", n)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale dir kept")
	}
	for _, d := range []string{fresh, other} {
		if _, err := os.Stat(d); err != nil {
			t.Errorf("%q removed: %v", d, err)
		}
	}
}

func TestSweepKeepsDirWithRecentContent(t *testing.T) {
	root := t.TempDir()
	live := filepath.Join(root, "ytxtract-live")
	if err := os.Mkdir(live, 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(live, "video.f137.mp4.part"))
	old := time.Now().Add(-3 * time.Hour)
	if err := os.Chtimes(live, old, old); err != nil {
		t.Fatal(err)
	}

	if n := SweepStaleTempDirs(root, time.Hour); n != 0 {
		t.Fatalf("deleted %d, want 0", n)
	}
	if _, err := os.Stat(live); err != nil {
		t.Fatalf("dir in use removed: %v", err)
	}

	part := filepath.Join(live, "video.f137.mp4.part")
	if err := os.Chtimes(part, old, old); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(live, old, old); err != nil {
		t.Fatal(err)
	}
	if n := SweepStaleTempDirs(root, time.Hour); n != 1 {
		t.Fatalf("deleted %d, want 1", n)
	}
}

func TestRemoveLegacyDataFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "download_stats.json"))
	RemoveLegacyDataFiles(dir)
	if _, err := os.Stat(filepath.Join(dir, "download_stats.json")); !os.IsNotExist(err) {
		t.Fatal("legacy file kept")
	}
}
