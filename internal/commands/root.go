// Package promptdeck wires the cobra command tree of the promptdeck CLI.
package promptdeck

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/mwiater/promptdeck/internal/appconfig"
	"github.com/mwiater/promptdeck/internal/logging"
	"github.com/mwiater/promptdeck/internal/notify"
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
	Use:           "promptdeck",
	Short:         "promptdeck manages the prompt commands you run against a local model server",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		currentConfig = &cfg

		echo := cfg.Debug && cmd.Name() != "panel"
		if err := logging.Init(cfg.LogFilePath(), echo); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.LogEvent("promptdeck %s: running %q", appVersion, cmd.CommandPath())
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		notify.Failure(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default "+appconfig.DefaultConfigPath+")")
	rootCmd.PersistentFlags().String("settings", "", "settings document (default ~/.promptdeck/settings.json)")
	rootCmd.PersistentFlags().Int("timeout", 0, "model server request timeout in seconds (0 = default)")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	_ = viper.BindPFlag("settingsPath", rootCmd.PersistentFlags().Lookup("settings"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	viper.SetEnvPrefix("PROMPTDECK")
	viper.AutomaticEnv()
}

// initConfig loads a .env file from the working directory, if there is one,
// so PROMPTDECK_* variables can live next to the project.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.LogEvent("ignoring unreadable .env: %v", err)
	}
}

// resolveConfig layers the config file under environment variables and flags.
// File values become viper defaults, so anything set more explicitly wins.
func resolveConfig() (appconfig.Config, error) {
	fileCfg, err := appconfig.Load(cfgFile)
	if err != nil {
		return appconfig.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	viper.SetDefault("settingsPath", fileCfg.SettingsPath)
	viper.SetDefault("timeout", fileCfg.TimeoutSeconds)
	viper.SetDefault("logFile", fileCfg.LogFile)
	viper.SetDefault("debug", fileCfg.Debug)

	var cfg appconfig.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return appconfig.Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ConfigPath = fileCfg.ConfigPath
	return cfg, nil
}

// GetConfig returns the loaded application configuration for other packages.
// Before the root command has run it returns an all-defaults Config.
func GetConfig() *appconfig.Config {
	if currentConfig == nil {
		return &appconfig.Config{}
	}
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
