package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// RemoteConfig holds remote replica settings.
type RemoteConfig struct {
	SnapshotPath string `yaml:"snapshot_path,omitempty"`
}

// VerifyConfig holds existence-verification settings.
type VerifyConfig struct {
	TTLSeconds     int `yaml:"ttl_seconds"`
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Config holds forkline configuration.
type Config struct {
	Version  string       `yaml:"version"`
	Language string       `yaml:"language,omitempty"` // preamble locale hint, e.g. "en", "zh-CN"
	Remote   RemoteConfig `yaml:"remote,omitempty"`
	Verify   VerifyConfig `yaml:"verify,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Version:  "1",
		Language: "en",
		Verify: VerifyConfig{
			TTLSeconds:     300,
			TimeoutSeconds: 5,
		},
	}
}

// Store represents a loaded FORKLINE_HOME.
type Store struct {
	Home   string
	Config Config
}

// Issue represents a health check finding.
type Issue struct {
	Severity string // "warning" or "error"
	Message  string
}

// Home returns the FORKLINE_HOME path, respecting the FORKLINE_HOME env var.
func Home() string {
	if h := os.Getenv("FORKLINE_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".forkline")
	}
	return filepath.Join(home, ".forkline")
}

// Init creates the FORKLINE_HOME directory structure.
func Init(home string, force bool) error {
	if _, err := os.Stat(home); err == nil && !force {
		return fmt.Errorf("FORKLINE_HOME already exists at %s (use --force to reinitialize)", home)
	}

	dirs := []string{
		home,
		filepath.Join(home, "snapshots"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", d, err)
		}
	}

	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	cfgPath := filepath.Join(home, "config.yaml")
	if err := os.WriteFile(cfgPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Load reads and validates an existing FORKLINE_HOME.
// Missing config fields are filled from defaults.
func Load(home string) (*Store, error) {
	cfgPath := filepath.Join(home, "config.yaml")
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read FORKLINE_HOME config at %s: %w", cfgPath, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config.yaml: %w", err)
	}
	return &Store{Home: home, Config: cfg}, nil
}

// SaveConfig writes the current config to config.yaml.
func (s *Store) SaveConfig() error {
	data, err := yaml.Marshal(s.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	cfgPath := filepath.Join(s.Home, "config.yaml")
	if err := os.WriteFile(cfgPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// SetConfigValue sets a config value by dot-path key (e.g. "language").
func (s *Store) SetConfigValue(key, value string) error {
	switch key {
	case "language":
		s.Config.Language = value
	case "remote.snapshot_path":
		s.Config.Remote.SnapshotPath = value
	case "verify.ttl_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("verify.ttl_seconds must be a positive integer")
		}
		s.Config.Verify.TTLSeconds = n
	case "verify.timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("verify.timeout_seconds must be a positive integer")
		}
		s.Config.Verify.TimeoutSeconds = n
	default:
		return fmt.Errorf("unknown config key: %s\nValid keys: language, remote.snapshot_path, verify.ttl_seconds, verify.timeout_seconds", key)
	}
	return s.SaveConfig()
}

// Path resolves a path within FORKLINE_HOME.
func (s *Store) Path(parts ...string) string {
	all := append([]string{s.Home}, parts...)
	return filepath.Join(all...)
}
