package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/s0up4200/postarr/poster"
	"github.com/s0up4200/postarr/tmdb"
)

// EnvPrefix prefixes environment overrides, e.g. POSTARR_DOWNLOAD_WIDTH
const EnvPrefix = "POSTARR"

// Load loads the configuration from file and environment. Without an explicit
// path a missing config file is not an error and defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

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
			v.AddConfigPath(filepath.Join(home, ".postarr"))
		}

		// Check /etc
		v.AddConfigPath("/etc/postarr/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// TMDB defaults
	v.SetDefault("tmdb.api_url", tmdb.DefaultBaseURL)
	v.SetDefault("tmdb.image_url", tmdb.DefaultImageBaseURL)
	v.SetDefault("tmdb.timeout", "30s")
	v.SetDefault("tmdb.max_retries", 2)

	// Download defaults
	v.SetDefault("download.width", "original")
	v.SetDefault("download.source", string(tmdb.DefaultSource))
	v.SetDefault("download.output_dir", "posters")
	v.SetDefault("download.concurrency", poster.DefaultConcurrency)
	v.SetDefault("download.filter", "")

	// Radarr defaults
	v.SetDefault("radarr.url", "http://localhost:7878")
	v.SetDefault("radarr.api_key", "")
	v.SetDefault("radarr.tag", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// Validate checks if the configuration is valid. It is exported so callers
// can re-check after applying command line overrides.
func Validate(cfg *Config) error {
	if cfg.TMDB.APIURL == "" {
		return fmt.Errorf("tmdb.api_url is required")
	}
	if cfg.TMDB.ImageURL == "" {
		return fmt.Errorf("tmdb.image_url is required")
	}
	if cfg.TMDB.Timeout <= 0 {
		return fmt.Errorf("tmdb.timeout must be positive, got %s", cfg.TMDB.Timeout)
	}
	if cfg.TMDB.MaxRetries < 0 || cfg.TMDB.MaxRetries > 10 {
		return fmt.Errorf("invalid tmdb.max_retries: %d (must be between 0 and 10)", cfg.TMDB.MaxRetries)
	}

	if _, err := tmdb.ParseWidth(cfg.Download.Width); err != nil {
		return fmt.Errorf("invalid download.width: %w", err)
	}
	if _, err := tmdb.ParseSource(cfg.Download.Source); err != nil {
		return fmt.Errorf("invalid download.source: %w", err)
	}
	if cfg.Download.OutputDir == "" {
		return fmt.Errorf("download.output_dir is required")
	}
	if cfg.Download.Concurrency < 1 || cfg.Download.Concurrency > poster.MaxConcurrency {
		return fmt.Errorf("invalid download.concurrency: %d (must be between 1 and %d)",
			cfg.Download.Concurrency, poster.MaxConcurrency)
	}

	// Validate logging level
	validLevels := map[string]bool{
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
