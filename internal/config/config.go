package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// API holds transcription provider settings.
type API struct {
	BaseURL         string `toml:"base_url"`
	PollIntervalSec int    `toml:"poll_interval_sec"`
	PollTimeoutSec  int    `toml:"poll_timeout_sec"`
	RateLimitPerMin int    `toml:"rate_limit_per_min"`
	MaxConcurrent   int    `toml:"max_concurrent"`
}

// Lyrics holds the line-grouping policy for LRC output.
type Lyrics struct {
	MaxWordsPerLine int  `toml:"max_words_per_line"`
	MaxGapMS        int  `toml:"max_gap_ms"`
	SentenceSplit   bool `toml:"sentence_split"`
}

// Config is the full application configuration. The API key is deliberately
// not part of it: it comes from the environment and is passed explicitly to
// the client.
type Config struct {
	API    API    `toml:"api"`
	Lyrics Lyrics `toml:"lyrics"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: API{
			BaseURL:         "https://api.assemblyai.com/v2",
			PollIntervalSec: 3,
			PollTimeoutSec:  300,
			RateLimitPerMin: 30,
			MaxConcurrent:   3,
		},
		Lyrics: Lyrics{
			MaxWordsPerLine: 8,
			MaxGapMS:        2000,
			SentenceSplit:   true,
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "auralynx", "config.toml")
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error; the defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// WriteSample writes the embedded sample config to path, creating parent
// directories. It refuses to overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Render returns the configuration as TOML text.
func (c *Config) Render() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(data), nil
}
