// Package suite assembles declarative check tables into runnable example
// evaluations.
//
// A Suite is an explicit accumulator: callers construct one, add examples to
// it, and run it. Malformed check tables (empty names, bad columns, duplicate
// identifiers) are construction-time errors reported before any log file is
// opened. Runtime conditions (missing logs, missing values, out-of-tolerance
// values) never abort a run; they surface as outcomes in the results.
package suite

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mvaughn/solvercheck/internal/models"
)

// identRegex matches runs of characters unsuitable for identifiers.
// Underscore is included so repeated separators collapse to one.
var identRegex = regexp.MustCompile(`[_\W]+`)

// SanitizeIdent converts an arbitrary name into a stable identifier by
// collapsing each run of non-alphanumeric characters to a single underscore.
func SanitizeIdent(name string) string {
	return strings.Trim(identRegex.ReplaceAllString(name, "_"), "_")
}

// Example is one example problem's declared checks, bound to its log file.
type Example struct {
	Name    string
	LogPath string
	Values  []models.ValueSpec
	Phrases []models.PhraseSpec

	checkIDs []string // one per check, values first, declaration order
}

// CheckIDs returns the sanitized identifier of every declared check, in
// declaration order (value checks first, then phrase checks).
func (e *Example) CheckIDs() []string {
	return e.checkIDs
}

// Suite is an ordered collection of examples to evaluate.
type Suite struct {
	examples []*Example
	byName   map[string]struct{}
}

// New creates an empty suite.
func New() *Suite {
	return &Suite{byName: make(map[string]struct{})}
}

// Len returns the number of examples added so far.
func (s *Suite) Len() int {
	return len(s.examples)
}

// Examples returns the examples in declaration order.
func (s *Suite) Examples() []*Example {
	return s.examples
}

// AddExample declares one example problem's checks and registers it with the
// suite. The example name, every value spec, and every phrase spec are
// validated here; any violation is a caller bug and fails immediately, before
// any scanning begins.
//
// Check identifiers are derived from the spec names by sanitization. Two
// specs in the same example that normalize to the same identifier would
// silently shadow each other at report time, so they are rejected here.
func (s *Suite) AddExample(name, logPath string, values []models.ValueSpec, phrases []models.PhraseSpec) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("example has empty name")
	}
	if strings.TrimSpace(logPath) == "" {
		return fmt.Errorf("example %q: empty log path", name)
	}
	if _, dup := s.byName[name]; dup {
		return fmt.Errorf("duplicate example name %q", name)
	}
	if len(values) == 0 && len(phrases) == 0 {
		return fmt.Errorf("example %q declares no checks", name)
	}

	ex := &Example{
		Name:    name,
		LogPath: logPath,
		Values:  values,
		Phrases: phrases,
	}

	seen := make(map[string]string)
	for i, v := range values {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("example %q: %w", name, err)
		}
		id := SanitizeIdent(fmt.Sprintf("check_%s_%02d", v.Name, i))
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("example %q: specs %q and %q normalize to the same identifier %q", name, prev, v.Name, id)
		}
		seen[id] = v.Name
		ex.checkIDs = append(ex.checkIDs, id)
	}
	for i, p := range phrases {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("example %q: %w", name, err)
		}
		id := SanitizeIdent(fmt.Sprintf("phrase_%s_%02d", p.Phrase, i))
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("example %q: phrases %q and %q normalize to the same identifier %q", name, prev, p.Phrase, id)
		}
		seen[id] = p.Phrase
		ex.checkIDs = append(ex.checkIDs, id)
	}

	// Duplicate raw spec names are a construction error too: the scanner's
	// pending set is keyed by name, so a repeated name could only ever claim
	// one value. First-declared-first-claimed is authoritative; true
	// duplicates are caller bugs.
	names := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := names[v.Name]; ok {
			return fmt.Errorf("example %q: duplicate value spec name %q", name, v.Name)
		}
		names[v.Name] = struct{}{}
	}

	s.examples = append(s.examples, ex)
	s.byName[name] = struct{}{}
	return nil
}
