package token

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"

	"github.com/opsforge/nodemedic/pkg/log"
)

// SSHFetcher reads the join token off the control plane over SSH with
// password authentication. Public-key auth is deliberately not offered:
// the remediation flow assumes a freshly imaged or half-broken node
// whose keys may not be distributed yet.
type SSHFetcher struct {
	// User is the remote user, root in the standard flow
	User string

	// Port is the SSH port (default: 22)
	Port int

	// Password authenticates the session
	Password string

	// RemotePath is the token file on the control plane
	RemotePath string

	// Timeout bounds the connection handshake (default: 15 seconds)
	Timeout time.Duration

	logger zerolog.Logger
}

// NewSSHFetcher creates a fetcher for the given remote token path
func NewSSHFetcher(user string, port int, password, remotePath string) *SSHFetcher {
	if port == 0 {
		port = 22
	}
	return &SSHFetcher{
		User:       user,
		Port:       port,
		Password:   password,
		RemotePath: remotePath,
		Timeout:    15 * time.Second,
		logger:     log.WithComponent("ssh"),
	}
}

// FetchToken reads the remote token file and returns its contents.
// Unknown host keys are accepted; the tool targets nodes that may never
// have spoken to this control plane before.
func (f *SSHFetcher) FetchToken(ctx context.Context, addr string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	config := &ssh.ClientConfig{
		User: f.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(f.Password),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         f.Timeout,
	}

	target := fmt.Sprintf("%s:%d", addr, f.Port)
	f.logger.Debug().Str("addr", target).Str("user", f.User).Msg("connecting to control plane")

	client, err := ssh.Dial("tcp", target, config)
	if err != nil {
		return "", fmt.Errorf("ssh connection to %s failed: %w", target, err)
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create ssh session: %w", err)
	}
	defer session.Close()

	out, err := session.Output("cat " + f.RemotePath)
	if err != nil {
		if exitErr, ok := err.(*ssh.ExitError); ok {
			return "", fmt.Errorf("reading %s exited %d", f.RemotePath, exitErr.ExitStatus())
		}
		return "", fmt.Errorf("reading %s failed: %w", f.RemotePath, err)
	}

	f.logger.Debug().Str("addr", target).Msg("token read from control plane")
	return string(out), nil
}
