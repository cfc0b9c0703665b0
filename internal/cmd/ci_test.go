package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvaughn/solvercheck/internal/cistep"
)

// fakeHarnessScript writes a shell script echoing the given lines.
func fakeHarnessScript(t *testing.T, lines ...string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "harness.sh")
	var sb strings.Builder
	sb.WriteString("#!/bin/sh\n")
	for _, line := range lines {
		sb.WriteString("echo '" + line + "'\n")
	}
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0755))
	return path
}

// newTestCICmd builds a bare cobra command capturing output, for driving
// runCIStep directly (the RunE wrapper calls os.Exit on non-success).
func newTestCICmd() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	return cmd, &out
}

func TestRunCIStepSuccess(t *testing.T) {
	harness := fakeHarnessScript(t,
		"2d_eig : .",
		"axi : .",
		"Test Summary : 2/2",
	)
	cmd, out := newTestCICmd()

	result, err := runCIStep(cmd, harness, "serial", []string{"suite.yaml"})
	require.NoError(t, err)
	assert.Equal(t, cistep.StatusSuccess, result.Status)
	assert.Contains(t, out.String(), "tests passed: 2")
	assert.Contains(t, out.String(), "tests failed: 0")
	assert.Contains(t, out.String(), "step status: success")
}

func TestRunCIStepWarnings(t *testing.T) {
	harness := fakeHarnessScript(t,
		"2d_eig : .",
		"axi : F missing: PRES:",
		"Test Summary : 1/2",
	)
	cmd, out := newTestCICmd()

	result, err := runCIStep(cmd, harness, "serial", []string{"suite.yaml"})
	require.NoError(t, err)
	assert.Equal(t, cistep.StatusWarnings, result.Status)
	assert.Equal(t, 1, result.Status.ExitCode())
	assert.Contains(t, out.String(), "Failing benchmark : ")
	assert.Contains(t, out.String(), "axi : F missing: PRES:")
}

func TestRunCIStepFailureNoSummary(t *testing.T) {
	harness := fakeHarnessScript(t, "garbled output")
	cmd, _ := newTestCICmd()

	result, err := runCIStep(cmd, harness, "serial", []string{"suite.yaml"})
	require.NoError(t, err)
	assert.Equal(t, cistep.StatusFailure, result.Status)
	assert.Equal(t, 2, result.Status.ExitCode())
}

func TestRunCIStepFailureMissingBinary(t *testing.T) {
	cmd, _ := newTestCICmd()

	result, err := runCIStep(cmd, filepath.Join(t.TempDir(), "nope"), "serial", []string{"suite.yaml"})
	require.Error(t, err)
	assert.Equal(t, cistep.StatusFailure, result.Status)
}

func TestRunCIStepForwardsHarnessOutput(t *testing.T) {
	harness := fakeHarnessScript(t, "tools : .", "Test Summary : 1/1")
	cmd, out := newTestCICmd()

	_, err := runCIStep(cmd, harness, "parallel", []string{"suite.yaml"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "tools : .")
	assert.Contains(t, out.String(), "Test Summary : 1/1")
}
