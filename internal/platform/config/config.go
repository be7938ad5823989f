package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvBridge       = "RESOLVEMCP_BRIDGE"
	EnvBridgeSHA256 = "RESOLVEMCP_BRIDGE_SHA256"
	EnvPlatform     = "RESOLVEMCP_PLATFORM"
	EnvLogLevel     = "RESOLVEMCP_LOG_LEVEL"
	EnvJournal      = "RESOLVEMCP_JOURNAL"
)

type Config struct {
	Bridge     BridgeConfig     `yaml:"bridge"`
	Platform   string           `yaml:"platform"`
	Log        LogConfig        `yaml:"log"`
	Journal    JournalConfig    `yaml:"journal"`
	Pagination PaginationConfig `yaml:"pagination"`
}

type BridgeConfig struct {
	Binary       string        `yaml:"binary"`
	SHA256       string        `yaml:"sha256"`
	StartTimeout time.Duration `yaml:"start_timeout"`
	CallTimeout  time.Duration `yaml:"call_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type PaginationConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

func Default() Config {
	return Config{
		Bridge: BridgeConfig{
			StartTimeout: 5 * time.Second,
			CallTimeout:  30 * time.Second,
		},
		Platform: runtime.GOOS,
		Log:      LogConfig{Level: "info"},
		Journal: JournalConfig{
			Enabled: true,
			Path:    defaultJournalPath(),
		},
		Pagination: PaginationConfig{DefaultLimit: 50, MaxLimit: 500},
	}
}

// Load reads the optional YAML file at path over the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		decoder := yaml.NewDecoder(bytes.NewReader(raw))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("decode config: %w", err)
		}
	}
	applyEnv(&cfg, os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvBridge)); v != "" {
		cfg.Bridge.Binary = v
	}
	if v := strings.TrimSpace(getenv(EnvBridgeSHA256)); v != "" {
		cfg.Bridge.SHA256 = v
	}
	if v := strings.TrimSpace(getenv(EnvPlatform)); v != "" {
		cfg.Platform = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(getenv(EnvJournal)); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Journal.Enabled = enabled
		} else {
			cfg.Journal.Enabled = true
			cfg.Journal.Path = v
		}
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Bridge.Binary) == "" {
		return fmt.Errorf("bridge binary is required (set bridge.binary or %s)", EnvBridge)
	}
	if c.Bridge.StartTimeout <= 0 {
		return fmt.Errorf("bridge start_timeout must be positive, got %s", c.Bridge.StartTimeout)
	}
	if c.Bridge.CallTimeout <= 0 {
		return fmt.Errorf("bridge call_timeout must be positive, got %s", c.Bridge.CallTimeout)
	}
	if c.Platform == "" {
		return fmt.Errorf("platform is required")
	}
	if c.Journal.Enabled && c.Journal.Path == "" {
		return fmt.Errorf("journal path is required when the journal is enabled")
	}
	if c.Pagination.DefaultLimit <= 0 {
		return fmt.Errorf("pagination default_limit must be positive, got %d", c.Pagination.DefaultLimit)
	}
	if c.Pagination.MaxLimit < c.Pagination.DefaultLimit {
		return fmt.Errorf("pagination max_limit (%d) must be >= default_limit (%d)", c.Pagination.MaxLimit, c.Pagination.DefaultLimit)
	}
	return nil
}

func defaultJournalPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "resolvemcp", "journal.db")
}
