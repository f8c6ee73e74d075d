package cfg

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"ytxtract/internal/app"
	"ytxtract/internal/command/execute"
	"ytxtract/internal/config"
	"ytxtract/internal/domain/errconsts"
	"ytxtract/internal/domain/keys"
	"ytxtract/internal/domain/paths"
	"ytxtract/internal/extractor"
	"ytxtract/internal/file"
	"ytxtract/internal/repo"
	"ytxtract/internal/scraper"
	"ytxtract/internal/transcoder"
	"ytxtract/internal/utils/logging"
)

// runtime holds the stores every command opens.
type runtime struct {
	v        *viper.Viper
	settings *config.Store
	stores   *repo.Store
}

// openRuntime loads settings and opens the configured history and stats backend.
func openRuntime(v *viper.Viper) (*runtime, error) {
	settings, err := config.NewStore(paths.SettingsFilePath)
	if err != nil {
		return nil, err
	}

	stores, err := repo.InitStores(repo.StoreOptions{
		Backend:     v.GetString(keys.StoreBackend),
		HistoryFile: paths.HistoryFilePath,
		StatsFile:   paths.StatsFilePath,
		DBFile:      paths.DBFilePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", v.GetString(keys.StoreBackend), err)
	}
	return &runtime{v: v, settings: settings, stores: stores}, nil
}

// Close releases the store backend.
func (rt *runtime) Close() {
	if err := rt.stores.Close(); err != nil {
		logging.E("Failed to close store: %v", err)
	}
}

// controller wires the external programs and stores into a job controller.
func (rt *runtime) controller(src app.SettingsSource) (*app.Controller, error) {
	runner := execute.ExecRunner{}
	deps := app.Deps{
		Extractor:     extractor.New(rt.v.GetString(keys.YtdlpPath), rt.v.GetInt(keys.SocketTimeout), runner),
		Transcoder:    transcoder.New(rt.v.GetString(keys.FFmpegPath), runner),
		History:       rt.stores.HistoryStore(),
		Stats:         rt.stores.StatsStore(),
		TempRoot:      os.TempDir(),
		PlaylistLimit: rt.v.GetInt(keys.PlaylistLimit),
	}

	// Cookies stays a nil interface when disabled.
	var cm *scraper.CookieManager
	if rt.v.GetBool(keys.CookiesFromBrowser) {
		cm = scraper.NewCookieManager()
		deps.Cookies = cm
	}
	deps.Prober = scraper.NewProber(cm)

	file.RemoveLegacyDataFiles(src.Settings().DownloadFolder)
	return app.New(deps, src)
}

// submitError renders a rejected submission.
func submitError(err error) string {
	if errors.Is(err, errconsts.ErrJobActive) {
		return err.Error()
	}
	return errconsts.UserMessage(errconsts.KindOf(err))
}
