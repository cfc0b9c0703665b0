// Package parser loads declarative suite files: the YAML tables that declare,
// per example problem, which numeric values and phrases to check in its log.
package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mvaughn/solvercheck/internal/models"
	"github.com/mvaughn/solvercheck/internal/suite"
)

// ValueDef is the YAML form of one expected numeric value.
type ValueDef struct {
	Name      string  `yaml:"name"`
	Target    float64 `yaml:"target"`
	Tolerance float64 `yaml:"tolerance"`
	Column    int     `yaml:"column"`
}

// PhraseDef is the YAML form of one phrase presence/absence check.
type PhraseDef struct {
	Phrase string `yaml:"phrase"`
	Expect string `yaml:"expect"` // "present" (default) or "absent"
}

// ExampleDef declares one example problem: its log file and its checks.
// Modes restricts which invocation modes evaluate the example; an empty list
// means all modes.
type ExampleDef struct {
	Name    string      `yaml:"name"`
	Log     string      `yaml:"log"`
	Modes   []string    `yaml:"modes"`
	Values  []ValueDef  `yaml:"values"`
	Phrases []PhraseDef `yaml:"phrases"`
}

// SuiteFile is a parsed suite definition.
type SuiteFile struct {
	Name     string       `yaml:"name"`
	Examples []ExampleDef `yaml:"examples"`

	// Dir is the directory the file was loaded from; relative log paths
	// resolve against it. Empty for suites parsed from a reader.
	Dir string `yaml:"-"`
}

// Parse reads a suite definition from r. Unknown fields are errors: a typo in
// a check table silently dropping a check would mask regressions.
func Parse(r io.Reader) (*SuiteFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var sf SuiteFile
	if err := dec.Decode(&sf); err != nil {
		return nil, fmt.Errorf("failed to parse suite file: %w", err)
	}
	if len(sf.Examples) == 0 {
		return nil, fmt.Errorf("suite file declares no examples")
	}
	for _, ex := range sf.Examples {
		for _, m := range ex.Modes {
			switch strings.ToLower(strings.TrimSpace(m)) {
			case "serial", "parallel":
			default:
				return nil, fmt.Errorf("example %q: unknown mode %q (want serial or parallel)", ex.Name, m)
			}
		}
	}
	return &sf, nil
}

// ParseFile loads and parses the suite file at path.
func ParseFile(path string) (*SuiteFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open suite file: %w", err)
	}
	defer f.Close()

	sf, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sf.Dir = filepath.Dir(path)
	return sf, nil
}

// InMode reports whether the example should be evaluated for the given
// invocation mode. Examples with no declared modes run in every mode, and an
// empty mode selects every example (used by validation).
func (e ExampleDef) InMode(mode string) bool {
	if len(e.Modes) == 0 || mode == "" {
		return true
	}
	for _, m := range e.Modes {
		if strings.EqualFold(strings.TrimSpace(m), mode) {
			return true
		}
	}
	return false
}

// resolveLog resolves the example's log path against the suite file's
// directory.
func (e ExampleDef) resolveLog(dir string) string {
	if dir == "" || filepath.IsAbs(e.Log) {
		return e.Log
	}
	return filepath.Join(dir, e.Log)
}

// Build assembles the examples selected by mode into the given suite.
// Malformed definitions (bad columns, duplicate names, unknown phrase
// expectations) fail here, before any log file is opened.
func (sf *SuiteFile) Build(s *suite.Suite, mode string) error {
	for _, ex := range sf.Examples {
		if !ex.InMode(mode) {
			continue
		}

		values := make([]models.ValueSpec, 0, len(ex.Values))
		for _, v := range ex.Values {
			values = append(values, models.ValueSpec{
				Name:      v.Name,
				Target:    v.Target,
				Tolerance: v.Tolerance,
				Column:    v.Column,
			})
		}

		phrases := make([]models.PhraseSpec, 0, len(ex.Phrases))
		for _, p := range ex.Phrases {
			expect, err := models.ParsePhraseExpect(p.Expect)
			if err != nil {
				return fmt.Errorf("example %q: %w", ex.Name, err)
			}
			phrases = append(phrases, models.PhraseSpec{Phrase: p.Phrase, Expect: expect})
		}

		if err := s.AddExample(ex.Name, ex.resolveLog(sf.Dir), values, phrases); err != nil {
			return err
		}
	}
	return nil
}
