// Package file contains utilities related to file operations (e.g. finding, moving and sweeping files).
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ytxtract/internal/domain/consts"
	"ytxtract/internal/domain/errconsts"
	"ytxtract/internal/utils/logging"
)

// FindCompleteFile returns the first finished file in dir whose name starts with prefix.
//
// Files yt-dlp is still writing (.part, .tmp, .ytdl) are skipped.
func FindCompleteFile(dir, prefix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %q: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) || IsPartial(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return "", errconsts.ErrNoFile
	}
	sort.Strings(names)

	path := filepath.Join(dir, names[0])
	logging.D(2, "Found downloaded file %q", path)
	return path, nil
}

// IsPartial reports whether name is an unfinished download.
func IsPartial(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, p := range consts.PartialExtensions {
		if ext == p {
			return true
		}
	}
	return false
}

// SizeMB returns the size of path in MiB.
func SizeMB(path string) (float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, errors.New("path is a directory: " + path)
	}
	return float64(info.Size()) / (1024 * 1024), nil
}

// IsAcceptedAudio reports whether ext is an audio container kept as-is.
func IsAcceptedAudio(ext string) bool {
	ext = strings.ToLower(ext)
	for _, a := range consts.AcceptedAudioExtensions {
		if ext == a {
			return true
		}
	}
	return false
}
