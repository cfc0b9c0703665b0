package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvaughn/solvercheck/internal/models"
	"github.com/mvaughn/solvercheck/internal/suite"
)

const sampleSuite = `name: nek-examples
examples:
  - name: "2d_eig serial-iter-err"
    log: srlLog/eig1.err
    modes: [serial]
    values:
      - name: "iters 2"
        target: 4.0
        tolerance: 0.5
        column: 1
  - name: "3dbox serial"
    log: srlLog/b3d.log.1
    phrases:
      - phrase: "end of time-step loop"
        expect: present
  - name: "tools"
    log: tools.out
    modes: [serial, parallel]
    phrases:
      - phrase: "Error "
        expect: absent
`

func TestParseSuiteFile(t *testing.T) {
	sf, err := Parse(strings.NewReader(sampleSuite))
	require.NoError(t, err)

	assert.Equal(t, "nek-examples", sf.Name)
	require.Len(t, sf.Examples, 3)

	first := sf.Examples[0]
	assert.Equal(t, "2d_eig serial-iter-err", first.Name)
	assert.Equal(t, "srlLog/eig1.err", first.Log)
	assert.Equal(t, []string{"serial"}, first.Modes)
	require.Len(t, first.Values, 1)
	assert.Equal(t, ValueDef{Name: "iters 2", Target: 4.0, Tolerance: 0.5, Column: 1}, first.Values[0])

	assert.Equal(t, "absent", sf.Examples[2].Phrases[0].Expect)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader(`name: x
examples:
  - name: a
    log: a.log
    values:
      - name: v
        target: 1
        tolerence: 0.5
        column: 1
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tolerence")
}

func TestParseRejectsEmptySuite(t *testing.T) {
	_, err := Parse(strings.NewReader("name: empty\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no examples")
}

func TestParseFileResolvesDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSuite), 0644))

	sf, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, dir, sf.Dir)

	s := suite.New()
	require.NoError(t, sf.Build(s, "serial"))
	require.Equal(t, 3, s.Len())
	assert.Equal(t, filepath.Join(dir, "srlLog", "eig1.err"), s.Examples()[0].LogPath)
}

func TestInModeFiltering(t *testing.T) {
	sf, err := Parse(strings.NewReader(sampleSuite))
	require.NoError(t, err)

	s := suite.New()
	require.NoError(t, sf.Build(s, "parallel"))

	// The serial-only example is excluded; the unrestricted and the
	// serial+parallel examples remain.
	require.Equal(t, 2, s.Len())
	assert.Equal(t, "3dbox serial", s.Examples()[0].Name)
	assert.Equal(t, "tools", s.Examples()[1].Name)
}

func TestBuildPropagatesConstructionErrors(t *testing.T) {
	sf, err := Parse(strings.NewReader(`name: bad
examples:
  - name: a
    log: a.log
    values:
      - name: v
        target: 1
        tolerance: 0.5
        column: 0
`))
	require.NoError(t, err)

	err = sf.Build(suite.New(), "serial")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column must be >= 1")
}

func TestBuildPhraseExpectError(t *testing.T) {
	sf, err := Parse(strings.NewReader(`name: bad
examples:
  - name: a
    log: a.log
    phrases:
      - phrase: p
        expect: sometimes
`))
	require.NoError(t, err)

	err = sf.Build(suite.New(), "serial")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid phrase expectation")
}

func TestPhraseSpecDefaultsToPresent(t *testing.T) {
	sf, err := Parse(strings.NewReader(`name: x
examples:
  - name: a
    log: a.log
    phrases:
      - phrase: "end of time-step loop"
`))
	require.NoError(t, err)

	s := suite.New()
	require.NoError(t, sf.Build(s, "serial"))
	require.Len(t, s.Examples()[0].Phrases, 1)
	assert.Equal(t, models.PhrasePresent, s.Examples()[0].Phrases[0].Expect)
}
