// internal/commands/root.go
package alpreval

import (
	"fmt"
	"os"

	"github.com/mwiater/alpreval/internal/appconfig"
	"github.com/mwiater/alpreval/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "alpreval",
	Short: "alpreval: accuracy harness for an external plate recognizer",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(cmd); err != nil {
			return err
		}

		cfg, err := appconfig.FromViper(viper.GetViper())
		if err != nil {
			return err
		}
		cfg.ConfigPath = viper.ConfigFileUsed()
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if cfg.Debug {
			logging.LogEvent("Command %q using config %q", cmd.CommandPath(), cfg.ConfigPath)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		_ = logging.Close()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	appconfig.SetDefaults(viper.GetViper())

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().Int("timeout", 0, "seconds allowed per external invocation (0 = none)")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file. The default file may be absent;
// one named explicitly with --config must exist.
func ensureConfigLoaded(cmd *cobra.Command) error {
	if err := viper.ReadInConfig(); err != nil {
		explicit := cmd.Flags().Changed("config") && cfgFile != appconfig.DefaultConfigPath
		if appconfig.IsNotFound(err) && !explicit {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// GetConfig returns the loaded application configuration for other packages.
// Before the root pre-run has loaded it, the current viper state is used.
func GetConfig() (*appconfig.Config, error) {
	if currentConfig != nil {
		return currentConfig, nil
	}
	cfg, err := appconfig.FromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
