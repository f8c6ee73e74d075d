package cfg

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"ytxtract/internal/app"
	"ytxtract/internal/domain/consts"
	"ytxtract/internal/models"
	"ytxtract/internal/parsing"
	"ytxtract/internal/utils/prompt"
)

// Per-run override flags.
const (
	flagFormat   = "format"
	flagQuality  = "quality"
	flagOutput   = "output"
	flagPlaylist = "playlist"
	flagChoose   = "choose"
)

// runFlags overrides saved settings for one invocation without persisting them.
type runFlags struct {
	format   string
	quality  string
	output   string
	playlist bool
	choose   bool

	set *pflag.FlagSet
}

func (f *runFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.format, flagFormat, "f", "", fmt.Sprintf("Output format %v", consts.AllFormats))
	fs.StringVarP(&f.quality, flagQuality, "q", "", "Audio bitrate in kbps")
	fs.StringVarP(&f.output, flagOutput, "o", "", "Download folder")
	fs.BoolVar(&f.playlist, flagPlaylist, false, "Download whole playlists")
	fs.BoolVar(&f.choose, flagChoose, false, "Choose the resolution or audio quality per download")
}

func (f *runFlags) validate() error {
	if f.format != "" && !models.OutputFormat(strings.ToLower(f.format)).Valid() {
		return fmt.Errorf("format must be one of %v, got %q", consts.AllFormats, f.format)
	}
	if f.quality != "" {
		if kbps, err := strconv.Atoi(f.quality); err != nil || kbps <= 0 {
			return fmt.Errorf("quality must be a positive bitrate in kbps, got %q", f.quality)
		}
	}
	return nil
}

// overlay applies changed run flags on top of a settings source.
type overlay struct {
	base  app.SettingsSource
	flags *runFlags
}

// Settings implements app.SettingsSource.
func (o overlay) Settings() models.Settings {
	s := o.base.Settings()
	f := o.flags
	if f.set == nil {
		return s
	}
	if f.set.Changed(flagFormat) {
		s.Format = strings.ToLower(f.format)
	}
	if f.set.Changed(flagQuality) {
		s.Quality = f.quality
	}
	if f.set.Changed(flagOutput) {
		s.DownloadFolder = f.output
	}
	if f.set.Changed(flagPlaylist) {
		s.PlaylistMode = f.playlist
	}
	if f.set.Changed(flagChoose) {
		s.ShowResolutionPopup = f.choose
		s.ShowAudioQualityPopup = f.choose
	}
	return s
}

// downloadCmd downloads the URLs given as arguments, or read from stdin.
func downloadCmd(v *viper.Viper, rf *runFlags) *cobra.Command {
	var urlsFile string

	dlCmd := &cobra.Command{
		Use:   "download [url...]",
		Short: "Download URLs",
		Long: "Download each URL argument as its own job. With no arguments (or '-') URLs are read from stdin: " +
			"one job per line, or a single batch job when batch mode is on. --urls-file reads a file of URLs, " +
			"one per line, '#' starting a comment.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rf.validate(); err != nil {
				return err
			}
			rf.set = cmd.Flags()

			rt, err := openRuntime(v)
			if err != nil {
				return err
			}
			defer rt.Close()

			src := overlay{base: rt.settings, flags: rf}
			ctrl, err := rt.controller(src)
			if err != nil {
				return err
			}
			term := prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
			ctx := cmd.Context()

			batch := src.Settings().BatchMode
			inputs := args
			switch {
			case urlsFile != "":
				urls, err := parsing.ParseURLFile(urlsFile)
				if err != nil {
					return fmt.Errorf("failed to read URL file %q: %w", urlsFile, err)
				}
				inputs = append(inputs, joinBatch(urls, batch)...)
			case len(args) == 0 || (len(args) == 1 && args[0] == "-"):
				inputs = readInputs(ctx, term, batch)
			}
			if len(inputs) == 0 {
				return fmt.Errorf("no URLs given")
			}

			failed := 0
			for _, in := range inputs {
				if ctx.Err() != nil {
					break
				}
				if !runJob(ctx, ctrl, term, in) {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d downloads failed", failed, len(inputs))
			}
			return nil
		},
	}
	rf.register(dlCmd.Flags())
	dlCmd.Flags().StringVar(&urlsFile, "urls-file", "", "File of URLs to download")
	return dlCmd
}

// readInputs drains the terminal. In batch mode all lines form one input.
func readInputs(ctx context.Context, term *prompt.Terminal, batch bool) []string {
	var lines []string
	for {
		line, ok := term.ReadLine(ctx)
		if !ok {
			break
		}
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return joinBatch(lines, batch)
}

// joinBatch makes lines one batch input when batch is set.
func joinBatch(lines []string, batch bool) []string {
	if batch && len(lines) > 0 {
		return []string{strings.Join(lines, "\n")}
	}
	return lines
}

// runJob submits one input and follows it to its terminal event. It reports false for a rejected
// submission or a failed job; a cancelled job is not a failure.
//
// When ctx is done the job is cancelled and still followed to its end.
func runJob(ctx context.Context, ctrl *app.Controller, term *prompt.Terminal, input string) bool {
	if _, err := ctrl.Submit(ctx, input); err != nil {
		term.Printf("%s%s\n", consts.RedFailed, submitError(err))
		return false
	}

	stop := context.AfterFunc(ctx, ctrl.Cancel)
	defer stop()

	res := term.Follow(ctx, ctrl.Events())
	return res != nil && res.Outcome.Status != models.OutcomeFailed
}
