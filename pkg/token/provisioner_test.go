package token

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	token string
	err   error
	calls int
}

func (f *fakeFetcher) FetchToken(ctx context.Context, addr string) (string, error) {
	f.calls++
	return f.token, f.err
}

func TestEnsureToken_AlreadyPresent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cluster-token")
	require.NoError(t, os.WriteFile(path, []byte("K10abc::server:secret\n"), 0600))

	fetcher := &fakeFetcher{token: "should-not-be-used"}
	p := NewProvisioner(path, fetcher)

	outcome, err := p.EnsureToken(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, OutcomePresent, outcome)

	// No remote connection attempted, file untouched
	assert.Zero(t, fetcher.calls)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "K10abc::server:secret\n", string(data))
}

func TestEnsureToken_FetchesMissingToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rancher", "k3s", "cluster-token")

	fetcher := &fakeFetcher{token: "K10def::server:fetched\n"}
	p := NewProvisioner(path, fetcher)

	outcome, err := p.EnsureToken(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeFetched, outcome)
	assert.Equal(t, 1, fetcher.calls)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "K10def::server:fetched\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestEnsureToken_EmptyFileTriggersFetch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cluster-token")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0600))

	fetcher := &fakeFetcher{token: "K10ghi::server:refetched"}
	p := NewProvisioner(path, fetcher)

	outcome, err := p.EnsureToken(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeFetched, outcome)
	assert.Equal(t, 1, fetcher.calls)
}

func TestEnsureToken_FetchError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cluster-token")

	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	p := NewProvisioner(path, fetcher)

	_, err := p.EnsureToken(context.Background(), "10.0.0.1")
	require.Error(t, err)

	// Local file stays absent
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestEnsureToken_EmptyFetchRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cluster-token")

	fetcher := &fakeFetcher{token: "   \n"}
	p := NewProvisioner(path, fetcher)

	_, err := p.EnsureToken(context.Background(), "10.0.0.1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty token")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestNewSSHFetcher_Defaults(t *testing.T) {
	f := NewSSHFetcher("root", 0, "secret", "/var/lib/rancher/k3s/server/node-token")
	assert.Equal(t, 22, f.Port)
	assert.NotZero(t, f.Timeout)
}
