// Package config loads and saves the persisted settings document.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"ytxtract/internal/domain/consts"
	"ytxtract/internal/domain/keys"
	"ytxtract/internal/domain/paths"
	"ytxtract/internal/models"
	"ytxtract/internal/utils/logging"
)

// Defaults returns the settings used for keys missing from the document.
func Defaults() models.Settings {
	return models.Settings{
		Quality:          consts.DefaultQuality,
		Format:           consts.DefaultFormat,
		DownloadFolder:   paths.DefaultDownloadFolder(),
		PreserveMetadata: true,
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault(keys.Quality, d.Quality)
	v.SetDefault(keys.Format, d.Format)
	v.SetDefault(keys.DownloadFolder, d.DownloadFolder)
	v.SetDefault(keys.PreserveMetadata, d.PreserveMetadata)
	v.SetDefault(keys.PlaylistMode, d.PlaylistMode)
	v.SetDefault(keys.BatchMode, d.BatchMode)
	v.SetDefault(keys.ClipboardMonitoring, d.ClipboardMonitoring)
	v.SetDefault(keys.ShowResolutionPopup, d.ShowResolutionPopup)
	v.SetDefault(keys.ShowAudioQualityPopup, d.ShowAudioQualityPopup)
}

// Load reads the settings document at path, filling defaults for missing keys.
//
// A missing document yields the defaults.
func Load(path string) (models.Settings, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return models.Settings{}, fmt.Errorf("failed to read settings %q: %w", path, err)
		}
		logging.D(1, "No settings file at %q, using defaults", path)
	}

	var s models.Settings
	if err := v.Unmarshal(&s); err != nil {
		return models.Settings{}, fmt.Errorf("failed to decode settings %q: %w", path, err)
	}
	return s, nil
}

// Save writes every settings key to path.
func Save(path string, s models.Settings) error {
	v := viper.New()
	v.Set(keys.Quality, s.Quality)
	v.Set(keys.Format, s.Format)
	v.Set(keys.DownloadFolder, s.DownloadFolder)
	v.Set(keys.PreserveMetadata, s.PreserveMetadata)
	v.Set(keys.PlaylistMode, s.PlaylistMode)
	v.Set(keys.BatchMode, s.BatchMode)
	v.Set(keys.ClipboardMonitoring, s.ClipboardMonitoring)
	v.Set(keys.ShowResolutionPopup, s.ShowResolutionPopup)
	v.Set(keys.ShowAudioQualityPopup, s.ShowAudioQualityPopup)

	v.SetConfigType("json")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write settings %q: %w", path, err)
	}
	return nil
}

// Store guards the live settings and saves them on every change.
type Store struct {
	mu   sync.RWMutex
	path string
	s    models.Settings
}

// NewStore loads the document at path.
func NewStore(path string) (*Store, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, s: s}, nil
}

// Settings returns a snapshot of the current settings.
func (st *Store) Settings() models.Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s
}

// Update applies fn to a copy of the settings, saves it, then makes it current.
func (st *Store) Update(fn func(*models.Settings)) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	next := st.s
	fn(&next)
	if err := Save(st.path, next); err != nil {
		return err
	}
	st.s = next
	return nil
}

// Set parses value for key and saves.
func (st *Store) Set(key, value string) error {
	apply, err := parseSetting(key, value)
	if err != nil {
		return err
	}
	return st.Update(apply)
}

// Get renders one setting as text.
func Get(s models.Settings, key string) (string, error) {
	switch key {
	case keys.Quality:
		return s.Quality, nil
	case keys.Format:
		return s.Format, nil
	case keys.DownloadFolder:
		return s.DownloadFolder, nil
	case keys.PreserveMetadata:
		return strconv.FormatBool(s.PreserveMetadata), nil
	case keys.PlaylistMode:
		return strconv.FormatBool(s.PlaylistMode), nil
	case keys.BatchMode:
		return strconv.FormatBool(s.BatchMode), nil
	case keys.ClipboardMonitoring:
		return strconv.FormatBool(s.ClipboardMonitoring), nil
	case keys.ShowResolutionPopup:
		return strconv.FormatBool(s.ShowResolutionPopup), nil
	case keys.ShowAudioQualityPopup:
		return strconv.FormatBool(s.ShowAudioQualityPopup), nil
	}
	return "", fmt.Errorf("unknown setting %q", key)
}

func parseSetting(key, value string) (func(*models.Settings), error) {
	value = strings.TrimSpace(value)

	switch key {
	case keys.Quality:
		kbps, err := strconv.Atoi(value)
		if err != nil || kbps <= 0 {
			return nil, fmt.Errorf("quality must be a positive bitrate in kbps, got %q", value)
		}
		return func(s *models.Settings) { s.Quality = strconv.Itoa(kbps) }, nil

	case keys.Format:
		f := models.OutputFormat(strings.ToLower(value))
		if !f.Valid() {
			return nil, fmt.Errorf("format must be one of %v, got %q", consts.AllFormats, value)
		}
		return func(s *models.Settings) { s.Format = string(f) }, nil

	case keys.DownloadFolder:
		if value == "" {
			return nil, errors.New("download folder cannot be empty")
		}
		return func(s *models.Settings) { s.DownloadFolder = value }, nil
	}

	target := boolField(key)
	if target == nil {
		return nil, fmt.Errorf("unknown setting %q", key)
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false, got %q", key, value)
	}
	return func(s *models.Settings) { *target(s) = b }, nil
}

func boolField(key string) func(*models.Settings) *bool {
	switch key {
	case keys.PreserveMetadata:
		return func(s *models.Settings) *bool { return &s.PreserveMetadata }
	case keys.PlaylistMode:
		return func(s *models.Settings) *bool { return &s.PlaylistMode }
	case keys.BatchMode:
		return func(s *models.Settings) *bool { return &s.BatchMode }
	case keys.ClipboardMonitoring:
		return func(s *models.Settings) *bool { return &s.ClipboardMonitoring }
	case keys.ShowResolutionPopup:
		return func(s *models.Settings) *bool { return &s.ShowResolutionPopup }
	case keys.ShowAudioQualityPopup:
		return func(s *models.Settings) *bool { return &s.ShowAudioQualityPopup }
	}
	return nil
}
