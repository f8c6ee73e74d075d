package cfg

import (
	"fmt"

	"github.com/spf13/cobra"

	"ytxtract/internal/config"
	"ytxtract/internal/domain/keys"
	"ytxtract/internal/domain/paths"
)

// settingsCmd is the entrypoint for the settings subcommands.
func settingsCmd() *cobra.Command {
	setCmd := &cobra.Command{
		Use:   "settings",
		Short: "Settings commands",
		Long:  "Show or change the persisted settings.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("please specify a subcommand. Use --help to see available subcommands")
		},
	}

	setCmd.AddCommand(showSettingsCmd(), setSettingCmd())
	return setCmd
}

// showSettingsCmd prints every setting, or the named ones.
func showSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [key...]",
		Short: "Show settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := config.NewStore(paths.SettingsFilePath)
			if err != nil {
				return err
			}
			s := st.Settings()

			names := args
			if len(names) == 0 {
				names = keys.AllSettings[:]
			}
			for _, k := range names {
				val, err := config.Get(s, k)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", k, val)
			}
			return nil
		},
	}
}

// setSettingCmd validates and saves one setting.
func setSettingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := config.NewStore(paths.SettingsFilePath)
			if err != nil {
				return err
			}
			if err := st.Set(args[0], args[1]); err != nil {
				return err
			}
			val, _ := config.Get(st.Settings(), args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], val)
			return nil
		},
	}
}
