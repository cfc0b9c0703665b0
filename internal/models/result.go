package models

import (
	"fmt"
	"time"
)

// CheckOutcome classifies the result of evaluating a single check.
type CheckOutcome int

const (
	// OutcomePassed means the check's assertion held.
	OutcomePassed CheckOutcome = iota
	// OutcomeSkipped means the log file was missing or unreadable, so the
	// check was never evaluated. Skipped is distinct from failed.
	OutcomeSkipped
	// OutcomeValueNotFound means no log line matched the spec's name with a
	// parsable value in the designated column.
	OutcomeValueNotFound
	// OutcomeValueOutOfTolerance means a value was found but lies outside
	// target +/- tolerance.
	OutcomeValueOutOfTolerance
	// OutcomePhraseNotFound means a required phrase never occurred in the log.
	OutcomePhraseNotFound
	// OutcomeUnexpectedPhrase means a forbidden phrase occurred in the log.
	OutcomeUnexpectedPhrase
)

// String returns the string representation of the CheckOutcome
func (o CheckOutcome) String() string {
	switch o {
	case OutcomePassed:
		return "passed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeValueNotFound:
		return "value not found"
	case OutcomeValueOutOfTolerance:
		return "out of tolerance"
	case OutcomePhraseNotFound:
		return "phrase not found"
	case OutcomeUnexpectedPhrase:
		return "unexpected phrase"
	default:
		return "unknown"
	}
}

// CheckResult is the evaluated outcome of one declared check.
// For numeric checks, Observed is meaningful only when Found is true.
type CheckResult struct {
	ID       string       // Sanitized, suite-unique check identifier
	Name     string       // Declared spec name or phrase
	Outcome  CheckOutcome // How the check resolved
	Found    bool         // Whether a value was extracted from the log
	Observed float64      // Value extracted from the log (numeric checks)
	Target   float64      // Declared target (numeric checks)
	Tol      float64      // Declared tolerance (numeric checks)
}

// Message renders a human-readable diagnostic for a non-passing check.
func (c CheckResult) Message() string {
	switch c.Outcome {
	case OutcomeValueOutOfTolerance:
		return fmt.Sprintf("%s: observed=%g target=%g tolerance=%g", c.Name, c.Observed, c.Target, c.Tol)
	case OutcomeValueNotFound:
		return fmt.Sprintf("%s: not found in log", c.Name)
	case OutcomePhraseNotFound:
		return fmt.Sprintf("phrase %q not found in log", c.Name)
	case OutcomeUnexpectedPhrase:
		return fmt.Sprintf("forbidden phrase %q found in log", c.Name)
	case OutcomeSkipped:
		return fmt.Sprintf("%s: skipped, log unavailable", c.Name)
	default:
		return c.Name
	}
}

// ExampleResult holds the full evaluation of one example problem.
// Each example owns its state exclusively; results are never shared or
// inherited across examples.
type ExampleResult struct {
	ExampleName string                    // Name of the example problem
	LogPath     string                    // Path to the scanned log file
	LogMissing  bool                      // Log file missing or unreadable
	Pending     []string                  // Spec names never matched in the log
	Found       map[string]ExtractedValue // Spec name -> extracted value
	Checks      []CheckResult             // One entry per declared check, in order
}

// Passed reports whether every declared check for the example passed.
func (r ExampleResult) Passed() bool {
	for _, c := range r.Checks {
		if c.Outcome != OutcomePassed {
			return false
		}
	}
	return len(r.Checks) > 0
}

// Missing returns the names of specs that were never found in the log.
func (r ExampleResult) Missing() []string {
	return r.Pending
}

// OutOfTolerance returns the checks that found a value outside tolerance.
func (r ExampleResult) OutOfTolerance() []CheckResult {
	var out []CheckResult
	for _, c := range r.Checks {
		if c.Outcome == OutcomeValueOutOfTolerance {
			out = append(out, c)
		}
	}
	return out
}

// RunResult is the aggregate result of evaluating a whole suite.
type RunResult struct {
	RunID     string          // Unique identifier for this harness invocation
	Mode      string          // Mode the run was invoked with (serial, parallel)
	StartedAt time.Time       // When evaluation began
	Duration  time.Duration   // Total evaluation time
	Examples  []ExampleResult // One entry per declared example, in order
}

// Passed counts examples whose every declared check passed.
func (r RunResult) Passed() int {
	n := 0
	for _, ex := range r.Examples {
		if ex.Passed() {
			n++
		}
	}
	return n
}

// Total returns the number of declared examples.
func (r RunResult) Total() int {
	return len(r.Examples)
}
