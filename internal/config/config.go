package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "metawrite"

// Defaults applied when a value is missing or out of range.
const (
	DefaultCoverTimeout = 10 * time.Second
	DefaultUserAgent    = "metawrite/1.0 (https://github.com/llehouerou/metawrite)"
	DefaultLogLevel     = "warn"
)

type Config struct {
	Cover CoverConfig `koanf:"cover"`
	Log   LogConfig   `koanf:"log"`
}

// CoverConfig controls how cover images are fetched and prepared.
type CoverConfig struct {
	Timeout      time.Duration `koanf:"timeout"`       // HTTP timeout for remote covers (default: 10s)
	UserAgent    string        `koanf:"user_agent"`    // User-Agent sent when fetching covers
	MaxDimension int           `koanf:"max_dimension"` // downscale larger JPEG/PNG covers; 0 disables
}

// LogConfig controls diagnostics written to stderr.
type LogConfig struct {
	Level string `koanf:"level"` // trace, debug, info, warn, error, off (default: warn)
	JSON  bool   `koanf:"json"`
}

// Load reads configuration files in order of priority (last wins).
// explicit, when non-empty, must point to an existing file.
func Load(explicit string) (*Config, error) {
	paths := getConfigPaths()
	if explicit != "" {
		explicit = expandPath(explicit)
		if _, err := os.Stat(explicit); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		paths = append(paths, explicit)
	}
	return load(paths)
}

func load(paths []string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	cfg := defaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	// Values set to empty or out of range in a file fall back again
	cfg.applyDefaults()

	return cfg, nil
}

// defaultConfig returns the configuration used when no file is present.
func defaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Cover.Timeout <= 0 {
		c.Cover.Timeout = DefaultCoverTimeout
	}
	c.Cover.UserAgent = strings.TrimSpace(c.Cover.UserAgent)
	if c.Cover.UserAgent == "" {
		c.Cover.UserAgent = DefaultUserAgent
	}
	if c.Cover.MaxDimension < 0 {
		c.Cover.MaxDimension = 0
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/metawrite/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./metawrite.toml (pwd, highest priority)
		appName + ".toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
