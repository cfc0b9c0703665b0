package suite

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mvaughn/solvercheck/internal/models"
	"github.com/mvaughn/solvercheck/internal/scanner"
)

// Logger receives progress notifications during a run.
// Implementations must tolerate being called with partial results.
type Logger interface {
	// LogExampleStart is called before an example's log file is scanned.
	LogExampleStart(name, logPath string)
	// LogExampleComplete is called after all of an example's checks have
	// been evaluated.
	LogExampleComplete(result models.ExampleResult)
}

// nopLogger discards all notifications.
type nopLogger struct{}

func (nopLogger) LogExampleStart(string, string)          {}
func (nopLogger) LogExampleComplete(models.ExampleResult) {}

// Run evaluates every example in declaration order and returns the aggregate
// result. Examples are strictly sequential; each owns its pending/found state
// exclusively, so no example's failure can affect another. Run never returns
// an error: missing logs and failed checks are recorded as outcomes.
func (s *Suite) Run(mode string, logger Logger) models.RunResult {
	if logger == nil {
		logger = nopLogger{}
	}

	run := models.RunResult{
		RunID:     uuid.NewString(),
		Mode:      mode,
		StartedAt: time.Now(),
	}

	for _, ex := range s.examples {
		logger.LogExampleStart(ex.Name, ex.LogPath)
		result := ex.Evaluate()
		logger.LogExampleComplete(result)
		run.Examples = append(run.Examples, result)
	}

	run.Duration = time.Since(run.StartedAt)
	return run
}

// Evaluate resolves every check for this example. All value specs are
// resolved by a single scanner pass before any assertion runs, so assertions
// see a finalized found/pending partition.
func (e *Example) Evaluate() models.ExampleResult {
	result := models.ExampleResult{
		ExampleName: e.Name,
		LogPath:     e.LogPath,
	}

	pending := make(map[string]models.ValueSpec, len(e.Values))
	for _, v := range e.Values {
		pending[v.Name] = v
	}

	found, stillPending, scanErr := scanner.Scan(e.LogPath, pending)
	result.Found = found
	result.LogMissing = scanErr != nil

	names := make([]string, 0, len(stillPending))
	for name := range stillPending {
		names = append(names, name)
	}
	sort.Strings(names)
	result.Pending = names

	idx := 0
	for _, v := range e.Values {
		result.Checks = append(result.Checks, e.valueCheck(v, e.checkIDs[idx], result))
		idx++
	}
	for _, p := range e.Phrases {
		result.Checks = append(result.Checks, e.phraseCheck(p, e.checkIDs[idx]))
		idx++
	}

	return result
}

// valueCheck asserts that a value spec was found within tolerance of its
// target. The scan is final by the time this runs.
func (e *Example) valueCheck(spec models.ValueSpec, id string, result models.ExampleResult) models.CheckResult {
	check := models.CheckResult{
		ID:     id,
		Name:   spec.Name,
		Target: spec.Target,
		Tol:    spec.Tolerance,
	}

	if result.LogMissing {
		check.Outcome = models.OutcomeSkipped
		return check
	}

	extracted, ok := result.Found[spec.Name]
	if !ok {
		check.Outcome = models.OutcomeValueNotFound
		return check
	}

	check.Found = true
	check.Observed = extracted.Observed
	if math.Abs(extracted.Observed-spec.Target) < spec.Tolerance {
		check.Outcome = models.OutcomePassed
	} else {
		check.Outcome = models.OutcomeValueOutOfTolerance
	}
	return check
}

// phraseCheck asserts presence or absence of a literal phrase in the log.
// The file is re-read with a short-circuiting scan.
func (e *Example) phraseCheck(spec models.PhraseSpec, id string) models.CheckResult {
	check := models.CheckResult{
		ID:   id,
		Name: spec.Phrase,
	}

	seen, err := scanner.FindPhrase(e.LogPath, spec.Phrase)
	if err != nil {
		check.Outcome = models.OutcomeSkipped
		return check
	}

	switch {
	case spec.Expect == models.PhrasePresent && seen:
		check.Found = true
		check.Outcome = models.OutcomePassed
	case spec.Expect == models.PhrasePresent:
		check.Outcome = models.OutcomePhraseNotFound
	case seen:
		check.Found = true
		check.Outcome = models.OutcomeUnexpectedPhrase
	default:
		check.Outcome = models.OutcomePassed
	}
	return check
}
