// Package cfg provides configuration and command-line interface setup for ytxtract.
package cfg

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"ytxtract/internal/domain/consts"
	"ytxtract/internal/domain/keys"
	"ytxtract/internal/domain/paths"
	"ytxtract/internal/utils/logging"
)

// Execute runs the command tree against os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the command tree. Program flags bind to a fresh viper instance, so each tree
// reads its own flags and YTXTRACT_* environment overrides.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(keys.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_")) // "ffmpeg-path" reads YTXTRACT_FFMPEG_PATH
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "ytxtract [url...]",
		Short: "ytxtract downloads YouTube videos and audio through yt-dlp and ffmpeg.",
		Long: "ytxtract downloads videos, playlists and URL batches through yt-dlp, converts them with ffmpeg " +
			"and keeps a history of finished downloads.\n\nWith URLs it downloads them; without, it starts the interactive shell.",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := paths.InitProgFilesDirs(v.GetString(keys.ConfigDir)); err != nil {
				return err
			}
			logging.Level = v.GetInt(keys.DebugLevel)
			if err := logging.SetupLogging(paths.LogFilePath); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "could not set up file logging, proceeding without: %v\n", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Close()
		},
	}

	initProgramFlags(rootCmd, v)

	rf := &runFlags{}
	dl := downloadCmd(v, rf)
	sh := shellCmd(v, rf)
	rootCmd.Flags().AddFlagSet(dl.Flags())
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !cmd.Flags().Changed("urls-file") {
			return sh.RunE(cmd, args)
		}
		return dl.RunE(cmd, args)
	}

	rootCmd.AddCommand(dl, sh, settingsCmd(), historyCmd(v), statsCmd(v), serveCmd(v))
	return rootCmd
}

// initProgramFlags initializes flags related to the core program. E.g. logging level.
func initProgramFlags(rootCmd *cobra.Command, v *viper.Viper) {
	pf := rootCmd.PersistentFlags()

	pf.Int(keys.DebugLevel, 0, "Debugging level (0 - 5)")
	pf.String(keys.ConfigDir, "", "Directory holding settings, history and logs (default ~/.ytxtract)")

	// External programs
	pf.String(keys.YtdlpPath, "yt-dlp", "yt-dlp executable")
	pf.String(keys.FFmpegPath, "ffmpeg", "ffmpeg executable")
	pf.Int(keys.SocketTimeout, consts.DefaultSocketTimeout, "yt-dlp socket timeout in seconds")

	// Storage and fetching
	pf.String(keys.StoreBackend, keys.BackendJSON, "History and stats backend ('json' or 'sqlite')")
	pf.Bool(keys.CookiesFromBrowser, true, "Read browser cookies for the cookie download strategy")
	pf.Int(keys.PlaylistLimit, consts.PlaylistFlatLimit, "Maximum playlist entries to enumerate")

	pf.VisitAll(func(f *pflag.Flag) {
		// BindPFlag only fails for a nil flag.
		_ = v.BindPFlag(f.Name, f)
	})
}
