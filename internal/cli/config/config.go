// Package config loads the greasekit configuration from greasekit.yml, with
// environment overrides under the GREASEKIT_ prefix.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the tool configuration.
type Config struct {
	ScriptsDir          string    `mapstructure:"scripts_dir"`
	ManifestName        string    `mapstructure:"manifest_name"`
	FetchTimeoutSeconds int       `mapstructure:"fetch_timeout_seconds"`
	Log                 LogConfig `mapstructure:"log"`
}

// LogConfig controls the logger the commands build.
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// Load reads greasekit.yml from the working directory or
// $HOME/.config/greasekit, falling back to defaults when absent.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("scripts_dir", defaultScriptsDir())
	v.SetDefault("manifest_name", "manifest.json")
	v.SetDefault("fetch_timeout_seconds", 30)
	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")

	v.SetConfigName("greasekit")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "greasekit"))
	}

	v.SetEnvPrefix("GREASEKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// config file not found: defaults apply
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func defaultScriptsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "scripts"
	}
	return filepath.Join(home, ".greasekit", "scripts")
}

func validate(c *Config) error {
	if c.ScriptsDir == "" {
		return fmt.Errorf("scripts_dir must not be empty")
	}
	if c.ManifestName == "" {
		return fmt.Errorf("manifest_name must not be empty")
	}
	if strings.ContainsAny(c.ManifestName, "/\\") {
		return fmt.Errorf("manifest_name must be a bare filename, got %q", c.ManifestName)
	}
	if c.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch_timeout_seconds must be positive, got %d", c.FetchTimeoutSeconds)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	return nil
}
