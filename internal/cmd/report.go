package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvaughn/solvercheck/internal/history"
	"github.com/mvaughn/solvercheck/internal/report"
)

// NewReportCommand creates the 'solvercheck report' command
func NewReportCommand() *cobra.Command {
	var html bool
	var output string

	cmd := &cobra.Command{
		Use:   "report [run-id]",
		Short: "Render a recorded run as a Markdown or HTML report",
		Long: `Render one recorded run as a report document.

With no run-id the most recent run is used; otherwise the run may be
identified by a unique prefix of its ID. The report lists every example with
its status and details each failure, distinguishing values that were never
found from values out of tolerance and from skipped examples.

Examples:
  solvercheck report
  solvercheck report 4fa2 --html --output report.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idPrefix := ""
			if len(args) == 1 {
				idPrefix = args[0]
			}
			return runReport(cmd, idPrefix, html, output)
		},
	}

	cmd.Flags().BoolVar(&html, "html", false, "Render HTML instead of Markdown")
	cmd.Flags().StringVar(&output, "output", "", "Output file path (stdout if not specified)")
	cmd.Flags().String("config", "", "Path to config file (default: .solvercheck/config.yaml)")

	return cmd
}

// runReport implements the report command
func runReport(cmd *cobra.Command, idPrefix string, html bool, output string) error {
	store, err := openHistoryStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	var run *history.RunRecord
	var examples []history.ExampleRecord
	if idPrefix == "" {
		run, examples, err = store.LatestRun()
	} else {
		run, examples, err = store.GetRun(idPrefix)
	}
	if err != nil {
		return err
	}

	doc := report.BuildMarkdown(*run, examples)
	if html {
		doc, err = report.RenderHTML(doc)
		if err != nil {
			return err
		}
	}

	if output == "" {
		fmt.Fprint(cmd.OutOrStdout(), doc)
		return nil
	}
	if err := os.WriteFile(output, []byte(doc), 0644); err != nil {
		return fmt.Errorf("write report to %s: %w", output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote report for run %s to %s\n", run.ID, output)
	return nil
}
