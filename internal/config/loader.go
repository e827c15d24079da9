package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr             string   `json:"addr" yaml:"addr" toml:"addr"`
	ModelPath        string   `json:"model_path" yaml:"model_path" toml:"model_path"`
	WatchMode        string   `json:"watch_mode" yaml:"watch_mode" toml:"watch_mode"`
	PollIntervalMs   int      `json:"poll_interval_ms" yaml:"poll_interval_ms" toml:"poll_interval_ms"`
	ReloadCooldownMs int      `json:"reload_cooldown_ms" yaml:"reload_cooldown_ms" toml:"reload_cooldown_ms"`
	RequestTimeoutMs int      `json:"request_timeout_ms" yaml:"request_timeout_ms" toml:"request_timeout_ms"`
	MaxBodyBytes     int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	DebounceMs       int      `json:"debounce_ms" yaml:"debounce_ms" toml:"debounce_ms"`
	MinChars         int      `json:"min_chars" yaml:"min_chars" toml:"min_chars"`
	LogLevel         string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	CORSEnabled      bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins      []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// WithDefaults fills unspecified fields with the documented policy defaults.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ModelPath == "" {
		c.ModelPath = "./model/weights.json"
	}
	if c.WatchMode == "" {
		c.WatchMode = "auto"
	}
	if c.PollIntervalMs <= 0 {
		c.PollIntervalMs = 5000
	}
	if c.ReloadCooldownMs <= 0 {
		c.ReloadCooldownMs = 2000
	}
	if c.RequestTimeoutMs <= 0 {
		c.RequestTimeoutMs = 5000
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 64 << 10
	}
	if c.DebounceMs <= 0 {
		c.DebounceMs = 800
	}
	if c.MinChars <= 0 {
		c.MinChars = 5
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return c
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
