package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults target a stock k3s agent installation
const (
	DefaultServiceName     = "k3s-agent"
	DefaultServiceFilePath = "/etc/systemd/system/k3s-agent.service"
	DefaultTokenFilePath   = "/etc/rancher/k3s/cluster-token"
	DefaultRemoteTokenPath = "/var/lib/rancher/k3s/server/node-token"
	DefaultSSHUser         = "root"
	DefaultSSHPort         = 22
	DefaultAPIPort         = 6443
	DefaultPingCount       = 3
	DefaultJournalLines    = 20
)

// Duration wraps time.Duration so YAML values like "10s" parse
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config holds everything a remediation run needs. All host interaction
// paths are explicit so a run is reproducible from the config alone.
type Config struct {
	// ControlPlaneAddr is the hostname or IP of the cluster control plane
	ControlPlaneAddr string `yaml:"controlPlane"`

	// ServiceName is the systemd unit supervising the agent
	ServiceName string `yaml:"service"`

	// AgentBinaryPath is the expected agent binary location. Empty means
	// "the k3s binary beside the nodemedic executable".
	AgentBinaryPath string `yaml:"binary"`

	// ServiceFilePath is the systemd unit file for the agent
	ServiceFilePath string `yaml:"unitFile"`

	// TokenFilePath is the local join-token file
	TokenFilePath string `yaml:"tokenFile"`

	// RemoteTokenPath is where the control plane keeps the join token
	RemoteTokenPath string `yaml:"remoteTokenPath"`

	// SSHUser and SSHPort configure the token-fetch connection
	SSHUser string `yaml:"sshUser"`
	SSHPort int    `yaml:"sshPort"`

	// APIPort is the control-plane API port probed after the ICMP check
	APIPort int `yaml:"apiPort"`

	// PingCount is the number of echo probes sent to the control plane
	PingCount int `yaml:"pingCount"`

	// StopSettle and StartSettle are the waits after stopping and
	// starting the agent service
	StopSettle  Duration `yaml:"stopSettle"`
	StartSettle Duration `yaml:"startSettle"`

	// JournalLines is how many log lines to show on failure/summary
	JournalLines int `yaml:"journalLines"`

	// HistoryDBPath enables the local run-history database when set
	HistoryDBPath string `yaml:"historyDB"`

	// PushgatewayURL enables a metrics push after the run when set
	PushgatewayURL string `yaml:"pushgateway"`

	// Logging
	LogLevel string `yaml:"logLevel"`
	LogJSON  bool   `yaml:"logJSON"`
}

// Default returns a Config populated with defaults for a k3s agent node
func Default() *Config {
	return &Config{
		ServiceName:     DefaultServiceName,
		ServiceFilePath: DefaultServiceFilePath,
		TokenFilePath:   DefaultTokenFilePath,
		RemoteTokenPath: DefaultRemoteTokenPath,
		SSHUser:         DefaultSSHUser,
		SSHPort:         DefaultSSHPort,
		APIPort:         DefaultAPIPort,
		PingCount:       DefaultPingCount,
		StopSettle:      Duration(2 * time.Second),
		StartSettle:     Duration(10 * time.Second),
		JournalLines:    DefaultJournalLines,
		LogLevel:        "info",
	}
}

// Load reads a YAML config file over the defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// ResolveBinaryPath fills AgentBinaryPath when unset, defaulting to a k3s
// binary in the same directory as the running executable
func (c *Config) ResolveBinaryPath() error {
	if c.AgentBinaryPath != "" {
		return nil
	}

	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate own executable: %w", err)
	}

	c.AgentBinaryPath = filepath.Join(filepath.Dir(self), "k3s")
	return nil
}

// Validate checks the config for a remediation run. ControlPlaneAddr is
// validated separately because it may still be supplied interactively.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service name must not be empty")
	}
	if c.AgentBinaryPath == "" {
		return fmt.Errorf("agent binary path must not be empty")
	}
	if !filepath.IsAbs(c.ServiceFilePath) {
		return fmt.Errorf("unit file path %q must be absolute", c.ServiceFilePath)
	}
	if !filepath.IsAbs(c.TokenFilePath) {
		return fmt.Errorf("token file path %q must be absolute", c.TokenFilePath)
	}
	if c.PingCount <= 0 {
		return fmt.Errorf("ping count must be positive, got %d", c.PingCount)
	}
	if c.SSHPort <= 0 || c.SSHPort > 65535 {
		return fmt.Errorf("ssh port %d out of range", c.SSHPort)
	}
	return nil
}
