package ssh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func TestConnectionOptionsValidate(t *testing.T) {
	auth := ssh.Password("x")

	tests := []struct {
		name    string
		opts    ConnectionOptions
		wantErr string
	}{
		{name: "valid", opts: ConnectionOptions{Host: "h", Port: 22, User: "u", AuthMethod: auth}},
		{name: "empty host", opts: ConnectionOptions{Port: 22, User: "u", AuthMethod: auth}, wantErr: "host cannot be empty"},
		{name: "bad port", opts: ConnectionOptions{Host: "h", Port: 70000, User: "u", AuthMethod: auth}, wantErr: "port must be between"},
		{name: "zero port", opts: ConnectionOptions{Host: "h", User: "u", AuthMethod: auth}, wantErr: "port must be between"},
		{name: "empty user", opts: ConnectionOptions{Host: "h", Port: 22, AuthMethod: auth}, wantErr: "user cannot be empty"},
		{name: "nil auth", opts: ConnectionOptions{Host: "h", Port: 22, User: "u"}, wantErr: "auth method cannot be nil"},
		{name: "negative timeout", opts: ConnectionOptions{Host: "h", Port: 22, User: "u", AuthMethod: auth, Timeout: -1}, wantErr: "timeout cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestAddress(t *testing.T) {
	opts := ConnectionOptions{Host: "devbox.local", Port: 2222}
	assert.Equal(t, "devbox.local:2222", opts.Address())
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		user    string
		host    string
		port    int
		wantErr bool
	}{
		{name: "user and host", target: "vagrant@devbox", user: "vagrant", host: "devbox", port: 22},
		{name: "with port", target: "vagrant@devbox:2222", user: "vagrant", host: "devbox", port: 2222},
		{name: "no user", target: "devbox", wantErr: true},
		{name: "empty user", target: "@devbox", wantErr: true},
		{name: "empty host", target: "vagrant@", wantErr: true},
		{name: "non-numeric port", target: "vagrant@devbox:zero", wantErr: true},
		{name: "port out of range", target: "vagrant@devbox:99999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, host, port, err := ParseTarget(tt.target)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.user, user)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.port, port)
		})
	}
}

func TestCommandLine(t *testing.T) {
	line := commandLine("sudo", []string{"salt-call", "--local", `pillar={"username":"vagrant"}`})
	assert.Equal(t, `sudo salt-call --local 'pillar={"username":"vagrant"}'`, line)
}
