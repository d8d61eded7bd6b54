package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".fxbeat"))
		}

		// Check /etc
		v.AddConfigPath("/etc/fxbeat/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Upstream defaults
	v.SetDefault("myfxbook.url", "https://www.myfxbook.com/api")
	v.SetDefault("myfxbook.timeout", "30s")

	// Rates defaults
	v.SetDefault("rates.enabled", false)
	v.SetDefault("rates.url", "https://api.frankfurter.dev/v1")

	// Watch defaults
	v.SetDefault("watch.interval", "5m")
	v.SetDefault("watch.block_backoff", "30m")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Myfxbook.URL == "" {
		return fmt.Errorf("myfxbook.url is required")
	}

	if cfg.Myfxbook.Timeout <= 0 {
		return fmt.Errorf("myfxbook.timeout must be positive")
	}

	if cfg.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be positive")
	}

	if cfg.Rates.Enabled {
		if cfg.Rates.URL == "" {
			return fmt.Errorf("rates.url is required when rates are enabled")
		}
		if len(cfg.Rates.Currency) != 3 {
			return fmt.Errorf("rates.currency must be a 3-letter code, got %q", cfg.Rates.Currency)
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
