package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	TMDB     TMDBConfig     `mapstructure:"tmdb"`
	Download DownloadConfig `mapstructure:"download"`
	Radarr   RadarrConfig   `mapstructure:"radarr"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// TMDBConfig holds catalog API and image host settings. The API token is
// not part of the config; it comes from the credential provider.
type TMDBConfig struct {
	APIURL     string        `mapstructure:"api_url"`
	ImageURL   string        `mapstructure:"image_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// DownloadConfig controls what is downloaded and where
type DownloadConfig struct {
	Width       string `mapstructure:"width"`
	Source      string `mapstructure:"source"`
	OutputDir   string `mapstructure:"output_dir"`
	Concurrency int    `mapstructure:"concurrency"`
	Filter      string `mapstructure:"filter"`
}

// RadarrConfig holds Radarr API connection details
type RadarrConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
	Tag    string `mapstructure:"tag"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
