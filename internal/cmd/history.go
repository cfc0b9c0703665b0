package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvaughn/solvercheck/internal/history"
	"github.com/mvaughn/solvercheck/internal/models"
)

// NewHistoryCommand creates the 'solvercheck history' command
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded harness runs",
		Long: `Display recent harness runs from the history database, newest first,
with their mode, pass counts, and durations.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	cmd.Flags().String("config", "", "Path to config file (default: .solvercheck/config.yaml)")

	cmd.AddCommand(newHistoryShowCommand())

	return cmd
}

// newHistoryShowCommand creates the 'solvercheck history show' command
func newHistoryShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show per-example results for one run",
		Long: `Display every example result recorded for a run, including skipped
examples and the specs that were never found. The run may be identified by a
unique prefix of its ID.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(cmd, args[0])
		},
	}

	cmd.Flags().String("config", "", "Path to config file (default: .solvercheck/config.yaml)")

	return cmd
}

// openHistoryStore opens the configured history database for reading.
func openHistoryStore(cmd *cobra.Command) (*history.Store, error) {
	cfg, err := loadConfigFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.History.DBPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("no history database at %s (has a run been recorded?)", cfg.History.DBPath)
	}
	return history.NewStore(cfg.History.DBPath)
}

// runHistoryList implements 'history'
func runHistoryList(cmd *cobra.Command, limit int) error {
	store, err := openHistoryStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(out, "%-36s  %-8s  %-19s  %-9s  %s\n", "RUN", "MODE", "STARTED", "DURATION", "RESULT")
	for _, r := range runs {
		fmt.Fprintf(out, "%-36s  %-8s  %-19s  %-9s  %d/%d\n",
			r.ID, r.Mode, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Duration.Round(time.Millisecond), r.Passed, r.Total)
	}
	return nil
}

// runHistoryShow implements 'history show'
func runHistoryShow(cmd *cobra.Command, idPrefix string) error {
	store, err := openHistoryStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	run, examples, err := store.GetRun(idPrefix)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s mode), started %s, %d/%d passed\n\n",
		run.ID, run.Mode, run.StartedAt.Local().Format("2006-01-02 15:04:05"), run.Passed, run.Total)

	for _, ex := range examples {
		switch {
		case ex.Passed:
			fmt.Fprintf(out, "  %s : .\n", ex.ExampleName)
		case ex.LogMissing:
			fmt.Fprintf(out, "  %s : skipped (log unavailable: %s)\n", ex.ExampleName, ex.LogPath)
		default:
			fmt.Fprintf(out, "  %s : F\n", ex.ExampleName)
			for _, check := range ex.Checks {
				if check.Outcome != models.OutcomePassed {
					fmt.Fprintf(out, "      %s\n", check.Message())
				}
			}
		}
	}
	return nil
}
