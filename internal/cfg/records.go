package cfg

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ytxtract/internal/parsing"
)

// historyCmd lists recent downloads, newest first.
func historyCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recent downloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(v)
			if err != nil {
				return err
			}
			defer rt.Close()

			entries, err := rt.stores.HistoryStore().List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No downloads yet")
				return nil
			}
			for _, e := range entries {
				when := e.Timestamp
				if t, err := parsing.ParseTimestamp(e.Timestamp); err == nil {
					when = t.Format("Jan _2 15:04")
				}
				fmt.Fprintf(out, "%s  %-22s %s\n", when, e.Format, e.Title)
				if e.DurationSeconds > 0 {
					fmt.Fprintf(out, "    %s  %s\n", parsing.FormatDuration(e.DurationSeconds), e.Path)
				} else {
					fmt.Fprintf(out, "    %s\n", e.Path)
				}
			}
			return nil
		},
	}
}

// statsCmd prints the cumulative statistics.
func statsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show download statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(v)
			if err != nil {
				return err
			}
			defer rt.Close()

			s, err := rt.stores.StatsStore().Get()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Downloads:  %d\n", s.TotalDownloads)
			fmt.Fprintf(out, "Total size: %.2f MB\n", s.TotalSizeMB)
			fmt.Fprintf(out, "Time spent: %s\n", parsing.FormatDuration(s.TotalTimeSavedSeconds))
			return nil
		},
	}
}
