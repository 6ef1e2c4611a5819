package token

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/opsforge/nodemedic/pkg/log"
)

// Outcome describes what EnsureToken did
type Outcome string

const (
	// OutcomePresent means a non-empty token was already on disk
	OutcomePresent Outcome = "present"
	// OutcomeFetched means the token was fetched from the control plane
	OutcomeFetched Outcome = "fetched"
)

// Fetcher retrieves the join token from the control plane
type Fetcher interface {
	FetchToken(ctx context.Context, addr string) (string, error)
}

// Provisioner ensures the local join-token file holds a usable token
type Provisioner struct {
	// TokenFilePath is the local token file
	TokenFilePath string

	fetcher Fetcher
	logger  zerolog.Logger
}

// NewProvisioner creates a token provisioner
func NewProvisioner(tokenFilePath string, fetcher Fetcher) *Provisioner {
	return &Provisioner{
		TokenFilePath: tokenFilePath,
		fetcher:       fetcher,
		logger:        log.WithComponent("token"),
	}
}

// EnsureToken makes sure the token file exists and is non-empty. A file
// already holding content is left untouched and no connection is made.
// Otherwise the token is fetched from the control plane at addr and
// written with mode 0600. A failed or empty fetch leaves the local file
// as it was.
func (p *Provisioner) EnsureToken(ctx context.Context, addr string) (Outcome, error) {
	if Present(p.TokenFilePath) {
		p.logger.Debug().Str("path", p.TokenFilePath).Msg("join token already present")
		return OutcomePresent, nil
	}

	p.logger.Info().
		Str("path", p.TokenFilePath).
		Str("control_plane", addr).
		Msg("join token missing, fetching from control plane")

	token, err := p.fetcher.FetchToken(ctx, addr)
	if err != nil {
		return "", fmt.Errorf("token fetch from %s failed: %w", addr, err)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("control plane %s returned an empty token", addr)
	}

	if err := os.MkdirAll(filepath.Dir(p.TokenFilePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create token directory: %w", err)
	}

	if err := os.WriteFile(p.TokenFilePath, []byte(token+"\n"), 0600); err != nil {
		return "", fmt.Errorf("failed to write token file: %w", err)
	}

	p.logger.Info().Str("path", p.TokenFilePath).Msg("join token provisioned")
	return OutcomeFetched, nil
}

// Present reports whether the token file at path exists with non-empty
// content. The command layer uses it to decide whether a password will
// be needed before the run starts.
func Present(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) != ""
}
