package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "k3s-agent", cfg.ServiceName)
	assert.Equal(t, "/etc/systemd/system/k3s-agent.service", cfg.ServiceFilePath)
	assert.Equal(t, "root", cfg.SSHUser)
	assert.Equal(t, 3, cfg.PingCount)
	assert.Equal(t, Duration(2*time.Second), cfg.StopSettle)
	assert.Equal(t, Duration(10*time.Second), cfg.StartSettle)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nodemedic.yaml")

	content := `
controlPlane: 10.0.0.1
service: custom-agent
binary: /opt/agent/bin/agent
pingCount: 5
stopSettle: 100ms
startSettle: 250ms
historyDB: /var/lib/nodemedic/history.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.1", cfg.ControlPlaneAddr)
	assert.Equal(t, "custom-agent", cfg.ServiceName)
	assert.Equal(t, "/opt/agent/bin/agent", cfg.AgentBinaryPath)
	assert.Equal(t, 5, cfg.PingCount)
	assert.Equal(t, Duration(100*time.Millisecond), cfg.StopSettle)
	assert.Equal(t, Duration(250*time.Millisecond), cfg.StartSettle)
	assert.Equal(t, "/var/lib/nodemedic/history.db", cfg.HistoryDBPath)

	// Unset keys keep their defaults
	assert.Equal(t, "/etc/rancher/k3s/cluster-token", cfg.TokenFilePath)
	assert.Equal(t, 22, cfg.SSHPort)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/nodemedic.yaml")
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestResolveBinaryPath(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ResolveBinaryPath())

	assert.NotEmpty(t, cfg.AgentBinaryPath)
	assert.Equal(t, "k3s", filepath.Base(cfg.AgentBinaryPath))

	// An explicit path is left alone
	cfg2 := Default()
	cfg2.AgentBinaryPath = "/usr/local/bin/k3s"
	require.NoError(t, cfg2.ResolveBinaryPath())
	assert.Equal(t, "/usr/local/bin/k3s", cfg2.AgentBinaryPath)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.AgentBinaryPath = "/usr/local/bin/k3s"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "empty service", mutate: func(c *Config) { c.ServiceName = "" }, wantErr: true},
		{name: "empty binary", mutate: func(c *Config) { c.AgentBinaryPath = "" }, wantErr: true},
		{name: "relative unit file", mutate: func(c *Config) { c.ServiceFilePath = "k3s-agent.service" }, wantErr: true},
		{name: "relative token file", mutate: func(c *Config) { c.TokenFilePath = "token" }, wantErr: true},
		{name: "zero ping count", mutate: func(c *Config) { c.PingCount = 0 }, wantErr: true},
		{name: "bad ssh port", mutate: func(c *Config) { c.SSHPort = 70000 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
