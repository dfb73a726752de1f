package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a configuration file from the given path
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer file.Close()

	return LoadFromReader(file)
}

// LoadFromReader reads and parses a configuration from an io.Reader
func LoadFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// LoadOrDefault loads the named config, or the default config when no
// file exists. The tool must work with zero configuration, the same way
// the original provisioning script did.
func LoadOrDefault(name string) (*Config, string, error) {
	path, err := FindConfig(name)
	if err != nil {
		if name == "" {
			// No config file is fine; run on defaults
			return Default(), "", nil
		}
		return nil, "", err
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// applyDefaults fills in the invocation settings a file may omit
func (c *Config) applyDefaults() {
	defaults := Default()
	if c.Salt.Binary == "" {
		c.Salt.Binary = defaults.Salt.Binary
	}
	if c.Salt.FileRoot == "" {
		c.Salt.FileRoot = defaults.Salt.FileRoot
	}
	if c.Remote != nil && c.Remote.Port == 0 {
		c.Remote.Port = 22
	}
}
