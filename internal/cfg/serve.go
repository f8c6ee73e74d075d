package cfg

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ytxtract/internal/domain/keys"
	"ytxtract/internal/file"
	"ytxtract/internal/server"
	"ytxtract/internal/utils/logging"
)

// serveCmd exposes the job controller over HTTP.
func serveCmd(v *viper.Viper) *cobra.Command {
	srvCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long:  "Run the job controller behind a local HTTP API until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(v)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctrl, err := rt.controller(rt.settings)
			if err != nil {
				return err
			}

			sweeper, err := file.StartSweeper(os.TempDir())
			if err != nil {
				logging.W("Temp directory sweeper not started: %v", err)
			} else {
				defer sweeper.Stop()
			}

			srv := server.New(ctrl, rt.stores.HistoryStore(), rt.stores.StatsStore(), rt.settings)
			return srv.Listen(cmd.Context(), v.GetString(keys.ServeAddr))
		},
	}

	srvCmd.Flags().String(keys.ServeAddr, server.DefaultAddr, "Listen address")
	// BindPFlag only fails for a nil flag.
	_ = v.BindPFlag(keys.ServeAddr, srvCmd.Flags().Lookup(keys.ServeAddr))
	return srvCmd
}
