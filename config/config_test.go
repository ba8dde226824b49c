package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate makes sure no config file from the host is picked up
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.APIURL)
	assert.Equal(t, "https://image.tmdb.org/t/p", cfg.TMDB.ImageURL)
	assert.Equal(t, 30*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, 2, cfg.TMDB.MaxRetries)
	assert.Equal(t, "original", cfg.Download.Width)
	assert.Equal(t, "imdb", cfg.Download.Source)
	assert.Equal(t, "posters", cfg.Download.OutputDir)
	assert.Equal(t, 4, cfg.Download.Concurrency)
	assert.Empty(t, cfg.Download.Filter)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.True(t, cfg.Logging.Color)
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)

	content := `
tmdb:
  timeout: 5s
  max_retries: 0
download:
  width: "342"
  source: tmdb
  output_dir: /srv/posters
  concurrency: 8
  filter: Year > 2000
radarr:
  url: http://radarr:7878
  api_key: secret
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, 0, cfg.TMDB.MaxRetries)
	assert.Equal(t, "342", cfg.Download.Width)
	assert.Equal(t, "tmdb", cfg.Download.Source)
	assert.Equal(t, "/srv/posters", cfg.Download.OutputDir)
	assert.Equal(t, 8, cfg.Download.Concurrency)
	assert.Equal(t, "Year > 2000", cfg.Download.Filter)
	assert.Equal(t, "http://radarr:7878", cfg.Radarr.URL)
	assert.Equal(t, "secret", cfg.Radarr.APIKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("POSTARR_DOWNLOAD_WIDTH", "500")
	t.Setenv("POSTARR_DOWNLOAD_CONCURRENCY", "2")
	t.Setenv("POSTARR_RADARR_API_KEY", "from-env")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "500", cfg.Download.Width)
	assert.Equal(t, 2, cfg.Download.Concurrency)
	assert.Equal(t, "from-env", cfg.Radarr.APIKey)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("explicit file missing", func(t *testing.T) {
		dir := isolate(t)
		_, err := Load(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid value", func(t *testing.T) {
		isolate(t)
		t.Setenv("POSTARR_DOWNLOAD_WIDTH", "300")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "download.width")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			TMDB: TMDBConfig{
				APIURL:     "https://api.themoviedb.org/3",
				ImageURL:   "https://image.tmdb.org/t/p",
				Timeout:    30 * time.Second,
				MaxRetries: 2,
			},
			Download: DownloadConfig{
				Width:       "original",
				Source:      "imdb",
				OutputDir:   "posters",
				Concurrency: 4,
			},
			Logging: LoggingConfig{
				Level:  "info",
				Format: "console",
			},
		}
	}

	tests := []struct {
		name        string
		modify      func(*Config)
		errContains string
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "width 500", modify: func(c *Config) { c.Download.Width = "500" }},
		{name: "unsupported width", modify: func(c *Config) { c.Download.Width = "1000" }, errContains: "download.width"},
		{name: "youtube source", modify: func(c *Config) { c.Download.Source = "youtube" }},
		{name: "invalid source", modify: func(c *Config) { c.Download.Source = "imdb/../x" }, errContains: "download.source"},
		{name: "empty output dir", modify: func(c *Config) { c.Download.OutputDir = "" }, errContains: "output_dir"},
		{name: "zero concurrency", modify: func(c *Config) { c.Download.Concurrency = 0 }, errContains: "concurrency"},
		{name: "too much concurrency", modify: func(c *Config) { c.Download.Concurrency = 17 }, errContains: "concurrency"},
		{name: "zero timeout", modify: func(c *Config) { c.TMDB.Timeout = 0 }, errContains: "timeout"},
		{name: "negative retries", modify: func(c *Config) { c.TMDB.MaxRetries = -1 }, errContains: "max_retries"},
		{name: "missing api url", modify: func(c *Config) { c.TMDB.APIURL = "" }, errContains: "api_url"},
		{name: "bad log level", modify: func(c *Config) { c.Logging.Level = "trace" }, errContains: "logging level"},
		{name: "bad log format", modify: func(c *Config) { c.Logging.Format = "xml" }, errContains: "logging format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)

			err := Validate(cfg)
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}
