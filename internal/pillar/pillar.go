package pillar

import (
	"fmt"
	"os"
	"strings"

	yamlv3 "gopkg.in/yaml.v3"
	"sigs.k8s.io/yaml"
)

// UsernameKey is the pillar key carrying the invoking user's name
const UsernameKey = "username"

// Payload is the pillar mapping handed to the configuration tool.
// It is built fresh for every invocation and discarded afterwards.
type Payload map[string]interface{}

// New creates a payload containing only the username key
func New(username string) (Payload, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}
	return Payload{UsernameKey: username}, nil
}

// Set adds or replaces a single entry
func (p Payload) Set(key string, value interface{}) error {
	if key == "" {
		return fmt.Errorf("pillar key cannot be empty")
	}
	p[key] = value
	return nil
}

// Merge copies all entries from values into the payload, replacing
// existing keys
func (p Payload) Merge(values map[string]interface{}) {
	for k, v := range values {
		p[k] = v
	}
}

// MergeYAMLFile parses a YAML file containing a mapping and merges its
// top-level entries into the payload
func (p Payload) MergeYAMLFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read pillar file %s: %w", path, err)
	}

	var values map[string]interface{}
	if err := yamlv3.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to parse pillar file %s: %w", path, err)
	}

	p.Merge(values)
	return nil
}

// ParseKV splits a "key=value" argument into its parts
func ParseKV(arg string) (string, string, error) {
	parts := strings.SplitN(arg, "=", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", "", fmt.Errorf("invalid pillar argument %q: expected key=value", arg)
	}
	return parts[0], parts[1], nil
}

// Serialize renders the payload as compact JSON. JSON is a subset of
// YAML, which is what the tool parses for its pillar argument, and the
// output is deterministic (keys sorted), which keeps command lines
// reproducible.
func (p Payload) Serialize() (string, error) {
	if len(p) == 0 {
		return "", fmt.Errorf("payload cannot be empty")
	}

	// Round-trip through YAML so nested yaml.v3 types normalize to
	// JSON-compatible ones
	y, err := yamlv3.Marshal(map[string]interface{}(p))
	if err != nil {
		return "", fmt.Errorf("failed to marshal pillar payload: %w", err)
	}

	j, err := yaml.YAMLToJSON(y)
	if err != nil {
		return "", fmt.Errorf("failed to serialize pillar payload: %w", err)
	}

	return string(j), nil
}
