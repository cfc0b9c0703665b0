package models

import (
	"fmt"
	"strings"
)

// ValueSpec describes one expected numeric result in a solver log.
// Name is the substring searched for in each log line. Column is the
// position of the value within the whitespace-split matching line,
// counted backward from the last token (1 = last token).
type ValueSpec struct {
	Name      string  // Substring key to search for
	Target    float64 // Acceptable value for this check
	Tolerance float64 // Acceptable range: target +/- tolerance
	Column    int     // Column from the end of the line (1-based)
}

// Validate checks that the spec is well-formed.
// Violations are caller bugs and should fail before any scanning begins.
func (s ValueSpec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("value spec has empty name")
	}
	if s.Column < 1 {
		return fmt.Errorf("value spec %q: column must be >= 1, got %d", s.Name, s.Column)
	}
	if s.Tolerance < 0 {
		return fmt.Errorf("value spec %q: tolerance must be >= 0, got %g", s.Name, s.Tolerance)
	}
	return nil
}

// PhraseExpect selects the assertion mode for a phrase check.
type PhraseExpect int

const (
	// PhrasePresent asserts the phrase occurs somewhere in the log.
	PhrasePresent PhraseExpect = iota
	// PhraseAbsent asserts the phrase never occurs in the log.
	PhraseAbsent
)

// String returns the string representation of the PhraseExpect
func (e PhraseExpect) String() string {
	switch e {
	case PhrasePresent:
		return "present"
	case PhraseAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// ParsePhraseExpect converts a suite-file string to a PhraseExpect.
func ParsePhraseExpect(s string) (PhraseExpect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "present":
		return PhrasePresent, nil
	case "absent":
		return PhraseAbsent, nil
	default:
		return PhrasePresent, fmt.Errorf("invalid phrase expectation %q (want present or absent)", s)
	}
}

// PhraseSpec describes a presence/absence assertion over an entire log file.
type PhraseSpec struct {
	Phrase string       // Literal substring to look for
	Expect PhraseExpect // Whether the phrase must be present or absent
}

// Validate checks that the phrase spec is well-formed.
func (s PhraseSpec) Validate() error {
	if s.Phrase == "" {
		return fmt.Errorf("phrase spec has empty phrase")
	}
	if s.Expect != PhrasePresent && s.Expect != PhraseAbsent {
		return fmt.Errorf("phrase spec %q: invalid expectation %d", s.Phrase, s.Expect)
	}
	return nil
}

// ExtractedValue pairs a ValueSpec with the value found for it in the log.
type ExtractedValue struct {
	Spec     ValueSpec
	Observed float64
}
