// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mwiater/promptdeck/internal/settings"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout is the default timeout for model-server requests.
	defaultRequestTimeout = 30 * time.Second
	// defaultLogFile is used when no log file is configured.
	defaultLogFile = "promptdeck.log"
)

// Config holds how promptdeck runs, as opposed to the user's settings document.
type Config struct {
	SettingsPath   string `json:"settingsPath,omitempty" mapstructure:"settingsPath"`
	TimeoutSeconds int    `json:"timeout,omitempty" mapstructure:"timeout"`
	LogFile        string `json:"logFile,omitempty" mapstructure:"logFile"`
	Debug          bool   `json:"debug" mapstructure:"debug"`
	ConfigPath     string `json:"-" mapstructure:"-"`
}

// RequestTimeout returns the timeout for model-server requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// SettingsFilePath returns the settings document path, or the per-user default.
func (c Config) SettingsFilePath() (string, error) {
	if path := strings.TrimSpace(c.SettingsPath); path != "" {
		return path, nil
	}
	return settings.DefaultPath()
}

// Load reads the application configuration from path. A missing file at the
// default path yields an empty Config; a missing explicit path is an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		config.ConfigPath = path
		return config, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		if explicit {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{TimeoutSeconds: int(defaultRequestTimeout.Seconds())}, nil
	}
	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}
	return config, nil
}
