// Package paths initializes ytxtract's filepaths, directories, etc.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ytxtract/internal/domain/consts"
)

const (
	appDir       = ".ytxtract"
	settingsFile = "settings.json"
	historyFile  = "history.json"
	statsFile    = "stats.json"
	dbFile       = "ytxtract.db"
	logFile      = "ytxtract.log"
)

// File and directory path strings.
var (
	AppDataDir       string
	SettingsFilePath string
	HistoryFilePath  string
	StatsFilePath    string
	DBFilePath       string
	LogFilePath      string
)

// InitProgFilesDirs initializes necessary program directories and filepaths.
//
// An empty dir resolves to ~/.ytxtract.
func InitProgFilesDirs(dir string) error {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("failed to get home directory")
		}
		dir = filepath.Join(home, appDir)
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, consts.PermsAppDataDir); err != nil {
			return fmt.Errorf("failed to make directories: %w", err)
		}
	}
	AppDataDir = dir

	// Main files
	SettingsFilePath = filepath.Join(dir, settingsFile)
	HistoryFilePath = filepath.Join(dir, historyFile)
	StatsFilePath = filepath.Join(dir, statsFile)
	DBFilePath = filepath.Join(dir, dbFile)
	LogFilePath = filepath.Join(dir, logFile)
	return nil
}

// DefaultDownloadFolder returns ~/Downloads, or the working directory if home is unknown.
func DefaultDownloadFolder() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}
