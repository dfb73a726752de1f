package secrets

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/calamari-project/devmode/internal/config"
)

const (
	// KeyringService is the service name used in the OS keyring
	KeyringService = "devmode"
	// indexFileName tracks stored secret names; the keyring API itself
	// cannot enumerate entries
	indexFileName = "secrets.index"
	// fallbackDirName holds file-backed secrets when no keyring is
	// available (headless machines, CI)
	fallbackDirName = "secrets"
)

// Store saves a secret pillar value under the given name
// Falls back to file storage if keyring is unavailable
func Store(name, value string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if value == "" {
		return fmt.Errorf("secret value cannot be empty")
	}

	if err := keyring.Set(KeyringService, name, value); err != nil {
		if err := storeInFile(name, value); err != nil {
			return err
		}
	}

	return addToIndex(name)
}

// Load retrieves a secret pillar value by name
// Falls back to file storage if keyring is unavailable
func Load(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	value, err := keyring.Get(KeyringService, name)
	if err == nil {
		return value, nil
	}

	return loadFromFile(name)
}

// Delete removes a secret from both the keyring and file storage
func Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	keyringErr := keyring.Delete(KeyringService, name)
	fileErr := deleteFile(name)

	if keyringErr != nil && fileErr != nil {
		return fmt.Errorf("failed to delete secret %s from keyring (%v) and file (%v)", name, keyringErr, fileErr)
	}

	return removeFromIndex(name)
}

// List returns the names of all stored secrets, sorted
func List() ([]string, error) {
	path, err := indexPath()
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open secrets index: %w", err)
	}
	defer file.Close()

	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name != "" {
			names = append(names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read secrets index: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// Resolve fetches the named secrets as a pillar-ready mapping
func Resolve(names []string) (map[string]interface{}, error) {
	values := make(map[string]interface{}, len(names))
	for _, name := range names {
		value, err := Load(name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve secret %s: %w", name, err)
		}
		values[name] = value
	}
	return values, nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("secret name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\ \t\n") {
		return fmt.Errorf("secret name %q contains invalid characters", name)
	}
	return nil
}

func indexPath() (string, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, indexFileName), nil
}

func secretFilePath(name string) (string, error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fallbackDirName, name), nil
}

// storeInFile stores the secret in a file with restrictive permissions
func storeInFile(name, value string) error {
	path, err := secretFilePath(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create secrets directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(value), 0600); err != nil {
		return fmt.Errorf("failed to write secret file: %w", err)
	}

	return nil
}

func loadFromFile(name string) (string, error) {
	path, err := secretFilePath(name)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("secret not found: %s", name)
		}
		return "", fmt.Errorf("failed to read secret file: %w", err)
	}

	return string(data), nil
}

func deleteFile(name string) error {
	path, err := secretFilePath(name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

func addToIndex(name string) error {
	names, err := List()
	if err != nil {
		return err
	}

	for _, existing := range names {
		if existing == name {
			return nil
		}
	}

	return writeIndex(append(names, name))
}

func removeFromIndex(name string) error {
	names, err := List()
	if err != nil {
		return err
	}

	kept := names[:0]
	for _, existing := range names {
		if existing != name {
			kept = append(kept, existing)
		}
	}

	return writeIndex(kept)
}

func writeIndex(names []string) error {
	path, err := indexPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	sort.Strings(names)
	content := strings.Join(names, "\n")
	if content != "" {
		content += "\n"
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write secrets index: %w", err)
	}

	return nil
}
