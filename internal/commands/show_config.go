package alpreval

import (
	"github.com/mwiater/alpreval/internal/appconfig"
	"github.com/spf13/cobra"
)

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON config is loaded properly and overridden by flags accordingly. With --debug the raw struct is dumped too.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), cfg.ConfigPath, *cfg, DebugEnabled())
		return nil
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
