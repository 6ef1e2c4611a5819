package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/opsforge/nodemedic/pkg/config"
	"github.com/opsforge/nodemedic/pkg/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent remediation runs",
	Long: `Show remediation runs recorded in the local history database.

History is only written when a historyDB path is configured for
remediate; this command reads the same database.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringP("config", "c", "", "YAML config file")
	historyCmd.Flags().String("db", "", "History database path (overrides config)")
	historyCmd.Flags().Int("last", 10, "Number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	dbPath := cfg.HistoryDBPath
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		dbPath = v
	}
	if dbPath == "" {
		return fmt.Errorf("no history database configured (set historyDB or --db)")
	}

	s, err := store.NewBoltStore(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	last, _ := cmd.Flags().GetInt("last")
	runs, err := s.ListRuns(last)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No remediation runs recorded.")
		return nil
	}

	for _, run := range runs {
		outcome := "✓"
		if !run.Succeeded {
			outcome = "✗"
		}
		fmt.Printf("%s %s  control-plane=%s service=%s duration=%s\n",
			outcome,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.ControlPlane,
			run.Service,
			run.Duration().Round(10*time.Millisecond),
		)
		if !run.Succeeded {
			if failed := run.FailedStep(); failed != nil {
				fmt.Printf("    failed at %s: %s\n", failed.Name, failed.Detail)
			}
		}
	}
	return nil
}
