// Package models defines request, page and configuration types.
package models

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath   = "stealth-fetch.yaml"
	DefaultServerName   = "scrapling-fetch-mcp"
	DefaultMaxBodyBytes = 10 * 1024 * 1024
)

// Version is stamped at build time with -ldflags.
var Version = "0.3.0"

// Config holds process-wide settings. It is loaded once at start-up and
// read-only afterwards.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	HTTP     HTTPConfig     `yaml:"http"`
	Browser  BrowserConfig  `yaml:"browser"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Storage  StorageConfig  `yaml:"storage"`
}

type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

type HTTPConfig struct {
	// UserAgent pins the User-Agent; empty means a random real browser UA per request.
	UserAgent    string `yaml:"user_agent"`
	Proxy        string `yaml:"proxy"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

type BrowserConfig struct {
	Bin   string `yaml:"bin"` // Chromium binary; empty lets rod find or download one
	Proxy string `yaml:"proxy"`
}

type MarkdownConfig struct {
	// Readability extracts the main article before rendering markdown.
	Readability bool `yaml:"readability"`
}

type StorageConfig struct {
	// DB is the SQLite file for auto-saved selector fingerprints. Empty keeps them in memory.
	DB string `yaml:"db"`
}

// LoadConfig reads a YAML config file. A missing file at the default path
// yields the defaults; any other read or parse failure is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnv()
	return cfg.WithDefaults(), nil
}

func (c *Config) applyEnv() {
	c.HTTP.Proxy = envOr(c.HTTP.Proxy, os.Getenv("STEALTH_FETCH_PROXY"))
	c.Browser.Proxy = envOr(c.Browser.Proxy, os.Getenv("STEALTH_FETCH_PROXY"))
	c.Browser.Bin = envOr(c.Browser.Bin, os.Getenv("STEALTH_FETCH_BROWSER_BIN"))
	c.Storage.DB = envOr(c.Storage.DB, os.Getenv("STEALTH_FETCH_DB"))
	c.Log.Level = envOr(c.Log.Level, os.Getenv("STEALTH_FETCH_LOG_LEVEL"))
}

// WithDefaults fills zero values in place and returns c.
func (c *Config) WithDefaults() *Config {
	if c == nil {
		c = &Config{}
	}
	if c.Server.Name == "" {
		c.Server.Name = DefaultServerName
	}
	if c.Server.Version == "" {
		c.Server.Version = Version
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		c.HTTP.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return c
}

// envOr prefers a non-empty environment value over the file value.
func envOr(existing, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return existing
	}
	return value
}
