// Package cistep wraps a harness invocation for CI build steps.
//
// The step runs the harness as a blocking subprocess, watches its standard
// output line by line for the "Test Summary : P/T" line, and derives an
// overall step status from the counts. It also collects summary and
// failing-benchmark lines into a short report for the build log.
package cistep

import (
	"strconv"
	"strings"
)

// Observer consumes harness output one line at a time.
type Observer struct {
	passed     int
	total      int
	sawSummary bool
	report     []string
}

// NewObserver creates an empty observer.
func NewObserver() *Observer {
	return &Observer{}
}

// Line feeds one line of harness output to the observer.
func (o *Observer) Line(line string) {
	if strings.Contains(line, "Test Summary") {
		if passed, total, ok := parseSummary(line); ok {
			o.passed = passed
			o.total = total
			o.sawSummary = true
		}
	}

	if strings.Contains(line, "Summary") {
		o.report = append(o.report, line)
	}
	if strings.Contains(line, "F ") && !strings.Contains(line, "successful") {
		o.report = append(o.report, "Failing benchmark : ", line)
	}
}

// parseSummary extracts the passed/total counts from a summary line of the
// shape "Test Summary : P/T" (the fourth whitespace token is P/T).
func parseSummary(line string) (int, int, bool) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return 0, 0, false
	}
	parts := strings.SplitN(fields[3], "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	passed, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	total, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return passed, total, true
}

// Counts returns the parsed passed/total counts and whether a summary line
// was seen at all.
func (o *Observer) Counts() (passed, total int, ok bool) {
	return o.passed, o.total, o.sawSummary
}

// Report returns the collected summary and failing-benchmark lines.
func (o *Observer) Report() []string {
	return o.report
}
