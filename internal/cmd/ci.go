package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvaughn/solvercheck/internal/cistep"
)

// NewCICommand creates the 'solvercheck ci' command
func NewCICommand() *cobra.Command {
	var mode string
	var harness string

	cmd := &cobra.Command{
		Use:   "ci <suite-file>...",
		Short: "Run the harness as a CI build step",
		Long: `Invoke the harness as a subprocess and derive a build-step status from
its output.

The step watches stdout for the "Test Summary : P/T" line and collects
summary and failing-benchmark lines into a short report. The subprocess's
exit status is ignored; the step status comes purely from the counts:

  success (exit 0)   every example passed
  warnings (exit 1)  the harness ran but some examples failed
  failure (exit 2)   the harness could not run or printed no summary

Examples:
  solvercheck ci examples.yaml
  solvercheck ci --mode parallel examples.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runCIStep(cmd, harness, mode, args)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "ci step: %v\n", err)
			}
			if result.Status != cistep.StatusSuccess {
				os.Exit(result.Status.ExitCode())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "serial", "Invocation mode: serial or parallel")
	cmd.Flags().StringVar(&harness, "harness", "", "Harness binary to invoke (default: this executable)")

	return cmd
}

// runCIStep builds and runs the CI step, printing its report and status.
func runCIStep(cmd *cobra.Command, harness, mode string, suiteFiles []string) (*cistep.Result, error) {
	if harness == "" {
		exe, err := os.Executable()
		if err != nil {
			return &cistep.Result{Status: cistep.StatusFailure}, fmt.Errorf("locate harness binary: %w", err)
		}
		harness = exe
	}

	args := append([]string{"run", "--mode", mode}, suiteFiles...)
	step := &cistep.Step{
		Harness: harness,
		Args:    args,
		Output:  cmd.OutOrStdout(),
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := step.Run(ctx)
	if result == nil {
		result = &cistep.Result{Status: cistep.StatusFailure}
	}

	out := cmd.OutOrStdout()
	if len(result.Report) > 0 {
		fmt.Fprintln(out)
		for _, line := range result.Report {
			fmt.Fprintln(out, line)
		}
	}
	fmt.Fprintf(out, "\ntests passed: %d\ntests failed: %d\nstep status: %s\n",
		result.Passed, result.Total-result.Passed, result.Status)

	return result, err
}
