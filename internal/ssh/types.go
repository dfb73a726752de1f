package ssh

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"golang.org/x/crypto/ssh"
)

// Connection represents an active SSH connection to a remote host
type Connection struct {
	Host   string
	Port   int
	User   string
	client *ssh.Client
}

// ConnectionOptions contains options for establishing an SSH connection
type ConnectionOptions struct {
	Host       string
	Port       int
	User       string
	AuthMethod ssh.AuthMethod
	Timeout    int // timeout in seconds, default 30
}

// Validate validates the ConnectionOptions
func (opts *ConnectionOptions) Validate() error {
	if opts.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if opts.Port <= 0 || opts.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", opts.Port)
	}
	if opts.User == "" {
		return fmt.Errorf("user cannot be empty")
	}
	if opts.AuthMethod == nil {
		return fmt.Errorf("auth method cannot be nil")
	}
	if opts.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	return nil
}

// Address returns the host:port address string
func (opts *ConnectionOptions) Address() string {
	return net.JoinHostPort(opts.Host, fmt.Sprintf("%d", opts.Port))
}

// ParseTarget splits a "user@host[:port]" target string into its parts
func ParseTarget(target string) (user, host string, port int, err error) {
	port = 22

	at := strings.LastIndex(target, "@")
	if at <= 0 || at == len(target)-1 {
		return "", "", 0, fmt.Errorf("invalid target %q: expected user@host[:port]", target)
	}
	user = target[:at]
	host = target[at+1:]

	if h, p, splitErr := net.SplitHostPort(host); splitErr == nil {
		parsed, convErr := strconv.Atoi(p)
		if convErr != nil || parsed <= 0 || parsed > 65535 {
			return "", "", 0, fmt.Errorf("invalid port in target %q", target)
		}
		host = h
		port = parsed
	}

	if host == "" {
		return "", "", 0, fmt.Errorf("invalid target %q: empty host", target)
	}

	return user, host, port, nil
}
