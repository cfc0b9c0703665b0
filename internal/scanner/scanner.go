// Package scanner extracts expected numeric values and phrases from solver
// log files.
//
// A scan is a single top-to-bottom pass over one log file. For each pending
// value spec, the first line containing the spec's name as a substring and
// carrying a parsable float in the designated column claims the spec; later
// matches are ignored. Specs whose matching line fails to parse stay pending
// and may be claimed by a later line.
package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mvaughn/solvercheck/internal/models"
)

// ErrLogUnavailable indicates the log file is missing or unreadable.
// This is a soft failure: the caller reports the example as skipped and
// continues with the remaining examples.
var ErrLogUnavailable = errors.New("log file missing or unreadable")

// Scan reads the log file at logPath once, resolving as many of the pending
// value specs as possible.
//
// The returned found map holds every spec that matched a line with a parsable
// value; stillPending holds the rest. The input map is not modified. Every
// spec ends in exactly one of the two maps.
//
// If the file cannot be opened, Scan returns an error wrapping
// ErrLogUnavailable with all specs still pending and none found.
func Scan(logPath string, pending map[string]models.ValueSpec) (map[string]models.ExtractedValue, map[string]models.ValueSpec, error) {
	found := make(map[string]models.ExtractedValue)
	stillPending := make(map[string]models.ValueSpec, len(pending))
	for name, spec := range pending {
		stillPending[name] = spec
	}

	f, err := os.Open(logPath)
	if err != nil {
		return found, stillPending, fmt.Errorf("%w: %s", ErrLogUnavailable, logPath)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if len(stillPending) == 0 {
			break
		}
		line := sc.Text()

		// Snapshot the pending names: the map mutates inside the loop.
		names := make([]string, 0, len(stillPending))
		for name := range stillPending {
			names = append(names, name)
		}

		for _, name := range names {
			if !strings.Contains(line, name) {
				continue
			}
			spec := stillPending[name]
			value, ok := extractColumn(line, spec.Column)
			if !ok {
				// Wrong column count or non-numeric token. The spec stays
				// pending; a later line may still qualify.
				continue
			}
			found[name] = models.ExtractedValue{Spec: spec, Observed: value}
			delete(stillPending, name)
		}
	}
	if err := sc.Err(); err != nil {
		return found, stillPending, fmt.Errorf("%w: %s: %v", ErrLogUnavailable, logPath, err)
	}

	return found, stillPending, nil
}

// extractColumn splits line on whitespace and parses the token at the given
// 1-based position from the end as a float.
func extractColumn(line string, column int) (float64, bool) {
	fields := strings.Fields(line)
	idx := len(fields) - column
	if idx < 0 || idx >= len(fields) {
		return 0, false
	}
	value, err := strconv.ParseFloat(fields[idx], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// FindPhrase reports whether the log file at logPath contains phrase as a
// substring of any line. The scan short-circuits on the first match.
//
// If the file cannot be opened, FindPhrase returns an error wrapping
// ErrLogUnavailable.
func FindPhrase(logPath, phrase string) (bool, error) {
	f, err := os.Open(logPath)
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrLogUnavailable, logPath)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if strings.Contains(sc.Text(), phrase) {
			return true, nil
		}
	}
	if err := sc.Err(); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrLogUnavailable, logPath, err)
	}
	return false, nil
}
