package ssh

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/ssh"
)

// defaultKeyNames are the private keys tried when none is configured
var defaultKeyNames = []string{"id_ed25519", "id_rsa"}

// Connect establishes an SSH connection to a remote host
func Connect(opts *ConnectionOptions) (*Connection, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid connection options: %w", err)
	}

	config := &ssh.ClientConfig{
		User: opts.User,
		Auth: []ssh.AuthMethod{opts.AuthMethod},
		// Dev-environment hosts churn; host keys are not verified
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         time.Duration(opts.Timeout) * time.Second,
	}

	if opts.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	client, err := ssh.Dial("tcp", opts.Address(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", opts.Address(), err)
	}

	return &Connection{
		Host:   opts.Host,
		Port:   opts.Port,
		User:   opts.User,
		client: client,
	}, nil
}

// Close closes the SSH connection
func (c *Connection) Close() error {
	if c.client == nil {
		return fmt.Errorf("connection is not established")
	}
	return c.client.Close()
}

// KeyFileAuth builds an auth method from a private key file
func KeyFileAuth(path string) (ssh.AuthMethod, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file %s: %w", path, err)
	}

	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse key file %s: %w", path, err)
	}

	return ssh.PublicKeys(signer), nil
}

// DefaultKeyAuth builds an auth method from the first usable key under
// ~/.ssh, tried in order of preference
func DefaultKeyAuth() (ssh.AuthMethod, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	for _, name := range defaultKeyNames {
		path := filepath.Join(homeDir, ".ssh", name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		auth, err := KeyFileAuth(path)
		if err != nil {
			continue
		}
		return auth, nil
	}

	return nil, fmt.Errorf("no usable private key found under ~/.ssh (tried %v)", defaultKeyNames)
}
