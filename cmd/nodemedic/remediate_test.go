package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRemediate_NotRoot_FailsBeforeAnyPrompt(t *testing.T) {
	orig := geteuid
	geteuid = func() int { return 1000 }
	defer func() { geteuid = orig }()

	// No flags, no config file, no stdin: were the privilege check not
	// first, this would stall on (or fail inside) the address prompt.
	err := runRemediate(remediateCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must run as root")
	assert.Contains(t, err.Error(), "1000")
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	cmd := remediateCmd
	require.NoError(t, cmd.Flags().Set("control-plane", "10.1.2.3"))
	require.NoError(t, cmd.Flags().Set("service", "custom-agent"))
	defer func() {
		_ = cmd.Flags().Set("control-plane", "")
		_ = cmd.Flags().Set("service", "")
	}()

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "10.1.2.3", cfg.ControlPlaneAddr)
	assert.Equal(t, "custom-agent", cfg.ServiceName)

	// Untouched flags leave defaults in place
	assert.Equal(t, "/etc/rancher/k3s/cluster-token", cfg.TokenFilePath)
}
