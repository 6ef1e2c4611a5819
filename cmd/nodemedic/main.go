package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nodemedic",
	Short: "nodemedic - repair a NotReady Kubernetes worker node",
	Long: `nodemedic repairs a k3s worker node stuck in NotReady state.

It verifies the control plane is reachable, reconciles the agent's
systemd unit with the expected binary path, provisions the cluster
join token (fetching it from the control plane when missing), restarts
the agent and verifies it reaches active state.

The tool runs once per invocation and must be run as root on the
affected node.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"nodemedic version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.AddCommand(remediateCmd)
	rootCmd.AddCommand(historyCmd)
}
