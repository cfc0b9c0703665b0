// Package reporter renders harness results to the console.
//
// The line shapes here are a contract consumed by CI tooling and must not
// change: one "<example> : ." or "<example> : F ..." line per example, and a
// final "Test Summary : <passed>/<total>" line whose fourth whitespace token
// is the passed/total pair. Color only ever wraps the pass/fail marker, never
// the surrounding text.
package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/mvaughn/solvercheck/internal/models"
)

// Console writes result lines to a writer.
type Console struct {
	writer      io.Writer
	colorOutput bool
}

// NewConsole creates a Console reporter. colorMode is one of auto, always,
// never; auto enables color only when the writer is a TTY.
func NewConsole(w io.Writer, colorMode string) *Console {
	return &Console{
		writer:      w,
		colorOutput: useColor(w, colorMode),
	}
}

func useColor(w io.Writer, colorMode string) bool {
	switch colorMode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return !color.NoColor && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// mark renders the pass/fail marker, colorized on TTYs.
func (c *Console) mark(s string, col color.Attribute) string {
	if !c.colorOutput {
		return s
	}
	return color.New(col).Sprint(s)
}

// LogExampleStart implements suite.Logger; the console reporter emits nothing
// until an example's checks are evaluated.
func (c *Console) LogExampleStart(name, logPath string) {}

// LogExampleComplete implements suite.Logger by reporting the example.
func (c *Console) LogExampleComplete(result models.ExampleResult) {
	c.Example(result)
}

// Example writes the detail and status lines for one evaluated example.
func (c *Console) Example(result models.ExampleResult) {
	name := result.ExampleName

	if result.LogMissing {
		fmt.Fprintf(c.writer, "[%s]...skipping: log file missing or misnamed: %s\n", name, result.LogPath)
		fmt.Fprintf(c.writer, "%s : %s log unavailable\n", name, c.mark("F", color.FgRed))
		return
	}

	for _, check := range result.Checks {
		if check.Found {
			fmt.Fprintf(c.writer, "[%s] %s : %g\n", name, check.Name, check.Observed)
		}
	}

	if result.Passed() {
		fmt.Fprintf(c.writer, "%s : %s\n", name, c.mark(".", color.FgGreen))
		return
	}

	var reasons []string
	if missing := result.Missing(); len(missing) > 0 {
		fmt.Fprintf(c.writer, "[%s]...could not find all requested values in the log file\n", name)
		fmt.Fprintf(c.writer, "[%s]...%s were not found\n", name, strings.Join(missing, ", "))
		reasons = append(reasons, fmt.Sprintf("missing: %s", strings.Join(missing, ", ")))
	}
	if oot := result.OutOfTolerance(); len(oot) > 0 {
		parts := make([]string, 0, len(oot))
		for _, check := range oot {
			parts = append(parts, fmt.Sprintf("%s (observed=%g target=%g tolerance=%g)",
				check.Name, check.Observed, check.Target, check.Tol))
		}
		reasons = append(reasons, fmt.Sprintf("out of tolerance: %s", strings.Join(parts, ", ")))
	}
	for _, check := range result.Checks {
		switch check.Outcome {
		case models.OutcomePhraseNotFound:
			fmt.Fprintf(c.writer, "[%s]...could not find %q in the log file\n", name, check.Name)
			reasons = append(reasons, fmt.Sprintf("phrase not found: %q", check.Name))
		case models.OutcomeUnexpectedPhrase:
			reasons = append(reasons, fmt.Sprintf("forbidden phrase found: %q", check.Name))
		}
	}

	fmt.Fprintf(c.writer, "%s : %s %s\n", name, c.mark("F", color.FgRed), strings.Join(reasons, "; "))
}

// Summary writes the final machine-parsable summary line.
func (c *Console) Summary(run models.RunResult) {
	fmt.Fprintf(c.writer, "Test Summary : %d/%d\n", run.Passed(), run.Total())
}
