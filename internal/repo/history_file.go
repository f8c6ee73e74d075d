package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/spf13/viper"

	"ytxtract/internal/domain/consts"
	"ytxtract/internal/models"
)

const historyKey = "history"

// HistoryFile keeps the recent-downloads list in its own JSON document.
//
// The document is rewritten after every change.
type HistoryFile struct {
	mu      sync.Mutex
	path    string
	entries []models.HistoryEntry
}

// OpenHistoryFile loads the document at path. A missing document is an empty history.
func OpenHistoryFile(path string) (*HistoryFile, error) {
	v, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	var entries []models.HistoryEntry
	if err := v.UnmarshalKey(historyKey, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode history %q: %w", path, err)
	}
	if len(entries) > consts.HistoryMax {
		entries = entries[:consts.HistoryMax]
	}
	return &HistoryFile{path: path, entries: entries}, nil
}

// Add puts e first, drops the oldest entries past the limit and saves.
func (h *HistoryFile) Add(e models.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := make([]models.HistoryEntry, 0, consts.HistoryMax)
	entries = append(entries, e)
	entries = append(entries, h.entries...)
	if len(entries) > consts.HistoryMax {
		entries = entries[:consts.HistoryMax]
	}

	v := viper.New()
	v.Set(historyKey, entries)
	if err := writeDocument(v, h.path); err != nil {
		return err
	}
	h.entries = entries
	return nil
}

// List returns a copy of the entries, newest first.
func (h *HistoryFile) List() ([]models.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]models.HistoryEntry(nil), h.entries...), nil
}

// readDocument reads a JSON document into a fresh viper instance.
func readDocument(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return v, nil
}

func writeDocument(v *viper.Viper, path string) error {
	v.SetConfigType("json")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}
