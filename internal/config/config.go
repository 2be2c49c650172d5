// Package config loads the muse configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file inside the muse home directory.
const FileName = "config.yaml"

// Provider names for the reasoning and image backends.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Database drivers.
const (
	DriverCGO  = "sqlite3"
	DriverPure = "sqlite"
)

// Config represents the muse configuration.
type Config struct {
	Database     DatabaseConfig `yaml:"database"`
	Blobs        BlobsConfig    `yaml:"blobs"`
	Reasoning    BackendConfig  `yaml:"reasoning"`
	Image        BackendConfig  `yaml:"image"`
	Network      NetworkConfig  `yaml:"network"`
	Logging      LoggingConfig  `yaml:"logging"`
	Server       ServerConfig   `yaml:"server"`
	PersonasFile string         `yaml:"personas_file,omitempty"` // empty uses the built-in catalog
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type BlobsConfig struct {
	Root    string `yaml:"root"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// BackendConfig selects a provider and model for one backend.
type BackendConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
}

type NetworkConfig struct {
	Proxy string `yaml:"proxy,omitempty"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type ServerConfig struct {
	GRPCAddr    string `yaml:"grpc_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// Home returns the muse home directory: $MUSE_HOME, or ~/.muse.
func Home() (string, error) {
	if dir := os.Getenv("MUSE_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".muse"), nil
}

// Default returns the configuration rooted at dir.
func Default(dir string) *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: DriverCGO,
			Path:   filepath.Join(dir, "muse.db"),
		},
		Blobs: BlobsConfig{
			Root: filepath.Join(dir, "art"),
		},
		Reasoning: BackendConfig{Provider: ProviderGemini},
		Image:     BackendConfig{Provider: ProviderGemini},
		Logging:   LoggingConfig{Level: "info"},
		Server: ServerConfig{
			GRPCAddr:    "127.0.0.1:7420",
			MetricsAddr: "127.0.0.1:7421",
		},
	}
}

// Load reads config.yaml from dir over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(dir string) (*Config, error) {
	cfg := Default(dir)

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to config.yaml in dir.
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// API keys may be present.
	if err := os.WriteFile(filepath.Join(dir, FileName), data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("MUSE_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := getenv("MUSE_DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := getenv("MUSE_PROXY"); v != "" {
		c.Network.Proxy = v
	}
	for _, b := range []*BackendConfig{&c.Reasoning, &c.Image} {
		if b.APIKey != "" {
			continue
		}
		switch b.Provider {
		case ProviderGemini:
			b.APIKey = getenv("GEMINI_API_KEY")
		case ProviderOpenAI:
			b.APIKey = getenv("OPENAI_API_KEY")
		}
	}
}

// Validate checks the fields that have a closed set of values.
// API keys are checked when a backend is built, not here.
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case DriverCGO, DriverPure:
	default:
		errs = append(errs, fmt.Errorf("database.driver must be %q or %q, got %q", DriverCGO, DriverPure, c.Database.Driver))
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if strings.TrimSpace(c.Blobs.Root) == "" {
		errs = append(errs, errors.New("blobs.root is required"))
	}
	for name, b := range map[string]BackendConfig{"reasoning": c.Reasoning, "image": c.Image} {
		switch b.Provider {
		case ProviderGemini, ProviderOpenAI:
		default:
			errs = append(errs, fmt.Errorf("%s.provider must be %q or %q, got %q", name, ProviderGemini, ProviderOpenAI, b.Provider))
		}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
