package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for solvercheck
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solvercheck",
		Short: "Regression-test harness for solver example problems",
		Long: `Solvercheck scans solver log files for expected numerical values and
phrases and reports pass/fail per example problem.

Checks are declared in YAML suite files: for each example, a list of
(name, target, tolerance, column) value checks and phrase presence/absence
checks. One linear scan of each example's log resolves all of its values;
checks are evaluated afterwards and a machine-parsable summary line is
printed for CI consumption.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewReportCommand())
	cmd.AddCommand(NewCICommand())

	return cmd
}
