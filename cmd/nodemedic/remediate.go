package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/opsforge/nodemedic/pkg/cmdrun"
	"github.com/opsforge/nodemedic/pkg/config"
	"github.com/opsforge/nodemedic/pkg/log"
	"github.com/opsforge/nodemedic/pkg/metrics"
	"github.com/opsforge/nodemedic/pkg/remediator"
	"github.com/opsforge/nodemedic/pkg/store"
	"github.com/opsforge/nodemedic/pkg/token"
)

// sshPasswordEnv lets unattended runs skip the password prompt
const sshPasswordEnv = "NODEMEDIC_SSH_PASSWORD"

// geteuid is swapped out in tests
var geteuid = os.Geteuid

var remediateCmd = &cobra.Command{
	Use:   "remediate",
	Short: "Run the node remediation sequence",
	Long: `Run the one-shot remediation sequence against this node.

The control-plane address is taken from --control-plane, the config
file, or an interactive prompt, in that order. The SSH password for the
token fetch is prompted only when the local token file is missing or
empty; set ` + sshPasswordEnv + ` for unattended runs.

Exits 0 when the agent service verifies active after the restart.`,
	RunE: runRemediate,
}

func init() {
	remediateCmd.Flags().String("control-plane", "", "Control-plane hostname or IP")
	remediateCmd.Flags().StringP("config", "c", "", "YAML config file")
	remediateCmd.Flags().String("service", "", "Agent systemd unit name")
	remediateCmd.Flags().String("binary", "", "Expected agent binary path")
	remediateCmd.Flags().String("unit-file", "", "Agent unit file path")
	remediateCmd.Flags().String("token-file", "", "Local join-token file path")
	remediateCmd.Flags().Bool("json-logs", false, "Emit JSON logs instead of console output")
}

func runRemediate(cmd *cobra.Command, args []string) error {
	// Root comes first: an unprivileged run must fail before any prompt
	// asks for a control-plane address or a root password.
	if euid := geteuid(); euid != 0 {
		return fmt.Errorf("must run as root (euid %d)", euid)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	log.Init(log.Config{
		Level:      log.Level(cfg.LogLevel),
		JSONOutput: cfg.LogJSON || jsonLogs,
	})

	if err := cfg.ResolveBinaryPath(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Last-resort interactive prompt for the control plane
	if strings.TrimSpace(cfg.ControlPlaneAddr) == "" {
		addr, err := readLine("Control-plane address: ")
		if err != nil {
			return err
		}
		cfg.ControlPlaneAddr = strings.TrimSpace(addr)
	}
	if cfg.ControlPlaneAddr == "" {
		return fmt.Errorf("control-plane address must not be empty")
	}

	// The SSH password is only needed when a token fetch is coming
	password := os.Getenv(sshPasswordEnv)
	if password == "" && !token.Present(cfg.TokenFilePath) {
		password, err = readPassword(fmt.Sprintf("Password for %s@%s: ", cfg.SSHUser, cfg.ControlPlaneAddr))
		if err != nil {
			return err
		}
	}

	runner := cmdrun.NewLocal()
	fetcher := token.NewSSHFetcher(cfg.SSHUser, cfg.SSHPort, password, cfg.RemoteTokenPath)

	record, runErr := remediator.New(cfg, runner, fetcher).Run(cmd.Context())

	// History and metrics are audit trails; their failures never change
	// the remediation outcome.
	if cfg.HistoryDBPath != "" {
		if s, err := store.NewBoltStore(cfg.HistoryDBPath); err != nil {
			log.Errorf("failed to open history database", err)
		} else {
			if err := s.SaveRun(record); err != nil {
				log.Errorf("failed to record run", err)
			}
			s.Close()
		}
	}
	if cfg.PushgatewayURL != "" {
		metrics.RecordRun(record)
		if err := metrics.Push(cfg.PushgatewayURL, cfg.ControlPlaneAddr, cfg.ServiceName); err != nil {
			log.Errorf("failed to push metrics", err)
		}
	}

	return runErr
}

// loadConfig merges defaults, the optional config file, and flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v, _ := cmd.Flags().GetString("control-plane"); v != "" {
		cfg.ControlPlaneAddr = v
	}
	if v, _ := cmd.Flags().GetString("service"); v != "" {
		cfg.ServiceName = v
	}
	if v, _ := cmd.Flags().GetString("binary"); v != "" {
		cfg.AgentBinaryPath = v
	}
	if v, _ := cmd.Flags().GetString("unit-file"); v != "" {
		cfg.ServiceFilePath = v
	}
	if v, _ := cmd.Flags().GetString("token-file"); v != "" {
		cfg.TokenFilePath = v
	}

	return cfg, nil
}

func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return line, nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}
