package file

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"ytxtract/internal/domain/consts"
	"ytxtract/internal/utils/logging"
)

// SweepStaleTempDirs removes ytxtract temp directories under root untouched for maxAge.
//
// Pipelines remove their own directory on return; this catches ones left by a killed process.
// A directory is untouched when neither it nor anything inside it was modified within maxAge,
// so a long download still writing fragments is left alone.
func SweepStaleTempDirs(root string, maxAge time.Duration) int {
	if root == "" {
		root = os.TempDir()
	}
	prefix := strings.TrimSuffix(consts.TempDirPattern, "*")

	entries, err := os.ReadDir(root)
	if err != nil {
		logging.E("Error reading temp directory %q: %v", root, err)
		return 0
	}

	deleted := 0
	now := time.Now()
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		path := filepath.Join(root, e.Name())
		last, err := lastModified(path)
		if err != nil || now.Sub(last) < maxAge {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			logging.E("Failed to remove stale temp directory %q: %v", path, err)
			continue
		}
		deleted++
	}
	if deleted > 0 {
		logging.I("Removed %d stale temp directories", deleted)
	}
	return deleted
}

// lastModified returns the newest modification time of dir and everything under it.
func lastModified(dir string) (time.Time, error) {
	var newest time.Time
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
		return nil
	})
	return newest, err
}

// StartSweeper schedules SweepStaleTempDirs and runs it once immediately.
//
// Stop the returned scheduler on shutdown.
func StartSweeper(root string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(consts.SweepSchedule, func() {
		SweepStaleTempDirs(root, consts.StaleTempAge)
	}); err != nil {
		return nil, err
	}
	c.Start()

	go SweepStaleTempDirs(root, consts.StaleTempAge)
	logging.D(1, "Temp directory sweeper started (%s)", consts.SweepSchedule)
	return c, nil
}

// RemoveLegacyDataFiles deletes data files older builds wrote into the download folder.
func RemoveLegacyDataFiles(folder string) {
	for _, name := range consts.LegacyDataFiles {
		path := filepath.Join(folder, name)
		if err := os.Remove(path); err == nil {
			logging.I("Removed legacy data file %q", path)
		} else if !os.IsNotExist(err) {
			logging.W("Could not remove legacy data file %q: %v", path, err)
		}
	}
}
