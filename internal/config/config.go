// Package config persists user preferences between lampctl sessions.
//
// The config file lives in the platform config directory
// (e.g. ~/.config/lampctl/config.yaml) and currently stores the last-used
// lamp address and the quick-timer presets shown in the interactive menu.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "lampctl"
	configFile = "config.yaml"
)

// DefaultQuickTimers are the quick-timer presets (minutes) offered by the
// interactive menu when no config file exists
var DefaultQuickTimers = []int{5, 30, 60}

var (
	// Mutex for thread-safe file operations
	fileMutex sync.Mutex
)

// Config is the persisted lampctl configuration
type Config struct {
	// Version is the config schema version
	Version int `yaml:"version"`

	// LastAddress is the most recently used lamp address
	LastAddress string `yaml:"last_address,omitempty"`

	// QuickTimers are the quick-timer presets in minutes
	QuickTimers []int `yaml:"quick_timers,omitempty"`
}

// New returns a config with defaults
func New() *Config {
	return &Config{
		Version:     1,
		QuickTimers: append([]int(nil), DefaultQuickTimers...),
	}
}

// Dir returns the OS-appropriate configuration directory for lampctl:
//   - Linux: $XDG_CONFIG_HOME/lampctl or $HOME/.config/lampctl
//   - macOS: $HOME/.config/lampctl (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\lampctl
func Dir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			return filepath.Join(userProfile, "AppData", "Local", appName), nil
		}
		return filepath.Join(localAppData, appName), nil

	default:
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			return filepath.Join(xdgConfigHome, appName), nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil
	}
}

// Path returns the full path to the configuration file
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the configuration from disk.
// If the file doesn't exist, a default config is returned.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Version != 1 {
		return nil, fmt.Errorf("unsupported config version: %d (expected 1)", cfg.Version)
	}

	if len(cfg.QuickTimers) == 0 {
		cfg.QuickTimers = append([]int(nil), DefaultQuickTimers...)
	}

	return &cfg, nil
}

// Save writes the configuration to disk.
// Performs an atomic write to prevent corruption on crash.
func (c *Config) Save() error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	dir, err := Dir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path, err := Path()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# lampctl configuration file\n# Stores the last-used lamp address and menu presets.\n\n")
	data = append(header, data...)

	// Write to temporary file first, then rename (atomic on all platforms)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}

// RememberAddress stores the address as the session default and saves.
// Failures are returned but safe to ignore: losing the remembered address
// only costs the user a prompt next session.
func (c *Config) RememberAddress(address string) error {
	if address == "" || address == c.LastAddress {
		return nil
	}
	c.LastAddress = address
	return c.Save()
}
