// Package models defines data structures for configuration and grammar.
package models

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration. Values come from an optional YAML file
// and are overridden by CLI flags.
type Config struct {
	DBPath          string        `yaml:"db_path"`
	CacheDir        string        `yaml:"cache_dir"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	UserAgent       string        `yaml:"user_agent"`
	PageBaseURL     string        `yaml:"page_base_url"`
	SearchBaseURL   string        `yaml:"search_base_url"`
	RequestInterval time.Duration `yaml:"request_interval"`
	Retries         int           `yaml:"retries"`
	WorkerCount     int           `yaml:"worker_count"`
	TermsFile       string        `yaml:"terms_file,omitempty"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		DBPath:          "grc-lexicon.db",
		CacheDir:        ".grc-cache",
		CacheTTL:        7 * 24 * time.Hour,
		UserAgent:       "grc-lexicon-parser/1.0 (+https://github.com/dtnitsch/grc-lexicon-parser)",
		PageBaseURL:     "https://en.wiktionary.org/wiki/",
		SearchBaseURL:   "https://en.wiktionary.org/w/api.php",
		RequestInterval: time.Second,
		Retries:         2,
		WorkerCount:     2,
	}
}

// LoadConfig reads a YAML config file on top of the defaults. A missing file
// is not an error.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if config.Retries < 0 {
		config.Retries = 0
	}
	return config, nil
}
