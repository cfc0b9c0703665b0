package cistep

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Status is the overall outcome of a CI step.
type Status int

const (
	// StatusSuccess means every example passed.
	StatusSuccess Status = iota
	// StatusWarnings means the harness ran but some examples failed.
	StatusWarnings
	// StatusFailure means the harness could not be run or produced no
	// summary line.
	StatusFailure
)

// String returns the string representation of the Status
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusWarnings:
		return "warnings"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// ExitCode maps the status to a process exit code (0/1/2).
func (s Status) ExitCode() int {
	return int(s)
}

// Step describes one harness invocation.
type Step struct {
	// Harness is the harness binary to invoke.
	Harness string
	// Args are passed to the harness verbatim
	// (typically: run --mode <mode> <suite-file>).
	Args []string
	// Output, when non-nil, receives a copy of the harness's stdout lines.
	Output io.Writer
}

// Result is the evaluated outcome of a step.
type Result struct {
	Status Status
	Passed int
	Total  int
	Report []string
}

// Run invokes the harness and derives the step result from its output.
// The harness's exit status is deliberately ignored: pass/fail is decided
// purely from the summary counts.
func (s *Step) Run(ctx context.Context) (*Result, error) {
	cmd := exec.CommandContext(ctx, s.Harness, s.Args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("attach to harness stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return &Result{Status: StatusFailure}, fmt.Errorf("start harness %s: %w", s.Harness, err)
	}

	observer := NewObserver()
	sc := bufio.NewScanner(stdout)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		observer.Line(line)
		if s.Output != nil {
			fmt.Fprintln(s.Output, line)
		}
	}
	scanErr := sc.Err()

	// A failing harness exit is not itself a step failure; only a missing
	// summary line is.
	_ = cmd.Wait()

	if scanErr != nil {
		return &Result{Status: StatusFailure, Report: observer.Report()},
			fmt.Errorf("read harness output: %w", scanErr)
	}

	passed, total, ok := observer.Counts()
	result := &Result{Passed: passed, Total: total, Report: observer.Report()}
	switch {
	case !ok:
		result.Status = StatusFailure
	case passed < total:
		result.Status = StatusWarnings
	default:
		result.Status = StatusSuccess
	}
	return result, nil
}
