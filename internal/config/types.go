package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML configs can use human-readable
// values like "10m" or "600s"
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config represents the devmode configuration
type Config struct {
	Version string        `yaml:"version"`
	Salt    SaltConfig    `yaml:"salt"`
	Pillar  PillarConfig  `yaml:"pillar,omitempty"`
	Remote  *RemoteConfig `yaml:"remote,omitempty"`
}

// SaltConfig defines how the Salt client is invoked
type SaltConfig struct {
	Binary   string        `yaml:"binary,omitempty"`
	FileRoot string        `yaml:"file_root,omitempty"`
	LogLevel string        `yaml:"log_level,omitempty"`
	Sudo     *bool         `yaml:"sudo,omitempty"`
	Timeout  Duration      `yaml:"timeout,omitempty"`
}

// PillarConfig defines the pillar payload sources
type PillarConfig struct {
	// Username overrides the invoking user's name in the payload
	Username string `yaml:"username,omitempty"`
	// Values are static entries merged into every payload
	Values map[string]interface{} `yaml:"values,omitempty"`
	// Secrets are keyring entry names injected at apply time
	Secrets []string `yaml:"secrets,omitempty"`
}

// RemoteConfig defines an optional SSH target for remote application
type RemoteConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port,omitempty"`
	User    string `yaml:"user,omitempty"`
	KeyFile string `yaml:"key_file,omitempty"`
}

// Log levels accepted by the Salt client
var validLogLevels = map[string]bool{
	"quiet":   true,
	"error":   true,
	"warning": true,
	"info":    true,
	"debug":   true,
	"trace":   true,
	"all":     true,
}

// Default returns the configuration used when no config file exists.
// It matches the behavior of the original provisioning script: salt-call
// under sudo against the dev-mode state tree in the working directory.
func Default() *Config {
	return &Config{
		Version: "v1",
		Salt: SaltConfig{
			Binary:   "salt-call",
			FileRoot: "vagrant/devmode/salt/roots",
		},
	}
}

// Validate performs validation on the Config struct
func (c *Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}

	if err := c.Salt.Validate(); err != nil {
		return fmt.Errorf("salt validation failed: %w", err)
	}

	if err := c.Pillar.Validate(); err != nil {
		return fmt.Errorf("pillar validation failed: %w", err)
	}

	if c.Remote != nil {
		if err := c.Remote.Validate(); err != nil {
			return fmt.Errorf("remote validation failed: %w", err)
		}
	}

	return nil
}

// Validate checks the Salt invocation settings
func (s *SaltConfig) Validate() error {
	if s.LogLevel != "" && !validLogLevels[s.LogLevel] {
		return fmt.Errorf("invalid log level: %s", s.LogLevel)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	return nil
}

// Validate checks the pillar settings
func (p *PillarConfig) Validate() error {
	for i, name := range p.Secrets {
		if name == "" {
			return fmt.Errorf("secret name at index %d is empty", i)
		}
	}
	return nil
}

// Validate checks the remote target settings
func (r *RemoteConfig) Validate() error {
	if r.Host == "" {
		return fmt.Errorf("host is required")
	}
	if r.Port < 0 || r.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", r.Port)
	}
	return nil
}

// SudoEnabled reports whether the Salt client should run under sudo.
// Elevation is the default; the config must opt out explicitly.
func (s *SaltConfig) SudoEnabled() bool {
	if s.Sudo == nil {
		return true
	}
	return *s.Sudo
}
