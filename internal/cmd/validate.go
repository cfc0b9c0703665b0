package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvaughn/solvercheck/internal/fileutil"
	"github.com/mvaughn/solvercheck/internal/parser"
	"github.com/mvaughn/solvercheck/internal/suite"
)

// NewValidateCommand creates and returns the validate subcommand
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <suite-file>...",
		Short: "Validate suite files without scanning any logs",
		Long: `Parse and validate suite files, checking for:
  - Well-formed YAML with no unknown fields
  - Non-empty example names, log paths, and spec names
  - Columns >= 1 and tolerances >= 0
  - Valid phrase expectations (present/absent) and modes (serial/parallel)
  - Duplicate example names and colliding check identifiers

No log file is opened; this is the same fail-fast construction step the run
command performs, applied to every example regardless of mode.

Exit code: 0 if valid, 1 if errors found`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateSuiteFiles(cmd, args)
		},
		SilenceUsage: true,
	}

	return cmd
}

// validateSuiteFiles parses and constructs every suite file, all modes.
func validateSuiteFiles(cmd *cobra.Command, paths []string) error {
	out := cmd.OutOrStdout()

	files, err := fileutil.ExpandPaths(paths)
	if err != nil {
		return err
	}

	s := suite.New()
	for _, path := range files {
		sf, err := parser.ParseFile(path)
		if err != nil {
			return err
		}
		// Empty mode selects every example, so mode-restricted examples are
		// validated too.
		if err := sf.Build(s, ""); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Fprintf(out, "%s: OK (%d example(s))\n", path, len(sf.Examples))
	}

	total := 0
	for _, ex := range s.Examples() {
		total += len(ex.CheckIDs())
	}
	fmt.Fprintf(out, "Validated %d example(s), %d check(s)\n", s.Len(), total)
	return nil
}
