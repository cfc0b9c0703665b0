package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvaughn/solvercheck/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(id string, startedAt time.Time) models.RunResult {
	return models.RunResult{
		RunID:     id,
		Mode:      "serial",
		StartedAt: startedAt,
		Duration:  1500 * time.Millisecond,
		Examples: []models.ExampleResult{
			{
				ExampleName: "2d_eig",
				LogPath:     "srlLog/eig1.err",
				Checks: []models.CheckResult{
					{ID: "check_iters_2_00", Name: "iters 2", Outcome: models.OutcomePassed, Found: true, Observed: 3.9, Target: 4.0, Tol: 0.5},
				},
			},
			{
				ExampleName: "axi",
				LogPath:     "srlLog/axi.log.1",
				Pending:     []string{"PRES: "},
				Checks: []models.CheckResult{
					{ID: "check_PRES_00", Name: "PRES: ", Outcome: models.OutcomeValueNotFound},
				},
			},
		},
	}
}

func TestRecordAndListRuns(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordRun(sampleRun("run-1", base)))
	require.NoError(t, s.RecordRun(sampleRun("run-2", base.Add(time.Minute))))

	runs, err := s.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "run-1", runs[1].ID)
	assert.Equal(t, "serial", runs[0].Mode)
	assert.Equal(t, 1, runs[0].Passed)
	assert.Equal(t, 2, runs[0].Total)
	assert.Equal(t, 1500*time.Millisecond, runs[0].Duration)
}

func TestGetRunByPrefix(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordRun(sampleRun("abc-123", base)))
	require.NoError(t, s.RecordRun(sampleRun("def-456", base.Add(time.Second))))

	run, examples, err := s.GetRun("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", run.ID)
	require.Len(t, examples, 2)

	assert.Equal(t, "2d_eig", examples[0].ExampleName)
	assert.True(t, examples[0].Passed)
	require.Len(t, examples[0].Checks, 1)
	assert.Equal(t, models.OutcomePassed, examples[0].Checks[0].Outcome)
	assert.InDelta(t, 3.9, examples[0].Checks[0].Observed, 1e-12)

	assert.Equal(t, "axi", examples[1].ExampleName)
	assert.False(t, examples[1].Passed)
	assert.Equal(t, []string{"PRES: "}, examples[1].MissingSpecs)
}

func TestGetRunUnknownID(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.GetRun("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no run matches")
}

func TestGetRunAmbiguousPrefix(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordRun(sampleRun("run-1", base)))
	require.NoError(t, s.RecordRun(sampleRun("run-2", base.Add(time.Second))))

	_, _, err := s.GetRun("run-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
}

func TestLatestRun(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordRun(sampleRun("older", base)))
	require.NoError(t, s.RecordRun(sampleRun("newest", base.Add(time.Hour))))

	run, examples, err := s.LatestRun()
	require.NoError(t, err)
	assert.Equal(t, "newest", run.ID)
	assert.Len(t, examples, 2)
}

func TestLatestRunEmptyHistory(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.LatestRun()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history is empty")
}

func TestPruneKeepsNewestRuns(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		run := sampleRun(string(rune('a'+i))+"-run", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.RecordRun(run))
	}

	require.NoError(t, s.Prune(2))

	runs, err := s.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "e-run", runs[0].ID)
	assert.Equal(t, "d-run", runs[1].ID)

	// Pruned runs lose their example rows too
	_, _, err = s.GetRun("a-run")
	require.Error(t, err)
}

func TestPruneDisabled(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordRun(sampleRun("only", base)))

	require.NoError(t, s.Prune(0))

	runs, err := s.ListRuns(10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
