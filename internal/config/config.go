package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	APIBaseURL     string `yaml:"apiBaseURL"`
	LogLevel       string `yaml:"logLevel"`
	PrefsDir       string `yaml:"prefsDir"`
	RedisAddr      string `yaml:"redisAddr"`
	RedisPassword  string `yaml:"redisPassword"`
	RequestTimeout string `yaml:"requestTimeout"`
	CacheTTL       string `yaml:"cacheTTL"`
}

// Load reads config from path. A missing file is fine: env vars and defaults
// cover everything except the API base URL.
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	if v := os.Getenv("EZMA_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("EZMA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v := os.Getenv("EZMA_PREFS_DIR"); v != "" {
		cfg.PrefsDir = strings.TrimSpace(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("EZMA_REQUEST_TIMEOUT"); v != "" {
		cfg.RequestTimeout = strings.TrimSpace(v)
	}
	if v := os.Getenv("EZMA_CACHE_TTL"); v != "" {
		cfg.CacheTTL = strings.TrimSpace(v)
	}
	if cfg.PrefsDir == "" {
		cfg.PrefsDir = defaultPrefsDir()
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DefaultPath is the config file looked up when none is given.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(base, "ezma-admin", "config.yaml")
}

func defaultPrefsDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "ezma-admin"
	}
	return filepath.Join(base, "ezma-admin")
}

func validateConfig(cfg FileConfig) error {
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return errors.New("config: apiBaseURL is required (set in config.yaml or EZMA_API_BASE_URL)")
	}
	return nil
}

// ParseRequestTimeout parses the optional request timeout duration string.
func ParseRequestTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid requestTimeout duration: %w", err)
	}
	return dur, nil
}

// ParseCacheTTL parses the optional cache TTL duration string.
func ParseCacheTTL(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid cacheTTL duration: %w", err)
	}
	return dur, nil
}
