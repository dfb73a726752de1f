package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultConfigDir is the default directory name for devmode configs
	DefaultConfigDir = ".devmode"
	// DefaultConfigName is the default config file name
	DefaultConfigName = "devmode.yaml"
)

// GetConfigDir returns the devmode configuration directory path
// Defaults to ~/.devmode/ unless overridden by environment
func GetConfigDir() (string, error) {
	if dir := os.Getenv("DEVMODE_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, DefaultConfigDir), nil
}

// FindConfig finds a configuration file by name
// If name is an absolute path, returns it as-is
// If name is a filename, looks in the config directory
// If name is empty, looks for the default config
func FindConfig(name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("config file not found: %s", name)
			}
			return "", fmt.Errorf("failed to stat config file %s: %w", name, err)
		}
		return name, nil
	}

	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if name == "" {
		name = DefaultConfigName
	}

	if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
		name += ".yaml"
	}

	configPath := filepath.Join(configDir, name)

	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("config file not found: %s", configPath)
		}
		return "", fmt.Errorf("failed to stat config file %s: %w", configPath, err)
	}

	return configPath, nil
}

// ListConfigs returns a list of all available configuration files
func ListConfigs() ([]string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config directory %s: %w", configDir, err)
	}

	var configs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			configs = append(configs, name)
		}
	}

	return configs, nil
}
