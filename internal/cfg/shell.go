package cfg

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ytxtract/internal/domain/consts"
	"ytxtract/internal/file"
	"ytxtract/internal/utils/logging"
	"ytxtract/internal/utils/prompt"
)

// shellCmd reads URLs interactively until EOF or "quit".
func shellCmd(v *viper.Viper, rf *runFlags) *cobra.Command {
	shCmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive download shell",
		Long: "Read one URL per line and download it. In batch mode lines are collected until a blank line. " +
			"'set <key> <value>' changes a setting, 'quit' leaves.",
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

			sweeper, err := file.StartSweeper(os.TempDir())
			if err != nil {
				logging.W("Temp directory sweeper not started: %v", err)
			} else {
				defer sweeper.Stop()
			}

			ctx := cmd.Context()
			term := prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
			for {
				batch := src.Settings().BatchMode
				if batch {
					term.Printf("%sbatch (blank line to start)> ", consts.ColorReset)
				} else {
					term.Printf("%s> ", consts.ColorReset)
				}

				line, ok := term.ReadLine(ctx)
				if !ok {
					term.Printf("\n")
					return nil
				}
				line = strings.TrimSpace(line)

				switch fields := strings.Fields(line); {
				case line == "":
					continue
				case line == "quit" || line == "exit":
					return nil
				case fields[0] == "set":
					if len(fields) < 3 {
						term.Printf("%susage: set <key> <value>\n", consts.RedFailed)
						continue
					}
					if err := rt.settings.Set(fields[1], strings.Join(fields[2:], " ")); err != nil {
						term.Printf("%s%v\n", consts.RedFailed, err)
						continue
					}
					term.Printf("%s%s updated\n", consts.GreenDone, fields[1])
					continue
				}

				input := line
				if batch {
					input = collectBatch(ctx, term, line)
				}
				runJob(ctx, ctrl, term, input)
			}
		},
	}
	rf.register(shCmd.Flags())
	return shCmd
}

// collectBatch reads further lines until a blank line or EOF.
func collectBatch(ctx context.Context, term *prompt.Terminal, first string) string {
	lines := []string{first}
	for {
		line, ok := term.ReadLine(ctx)
		if !ok || strings.TrimSpace(line) == "" {
			return strings.Join(lines, "\n")
		}
		lines = append(lines, strings.TrimSpace(line))
	}
}
