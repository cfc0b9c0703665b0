package suite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvaughn/solvercheck/internal/models"
)

func TestSanitizeIdent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"total solver time", "total_solver_time"},
		{"PRES: ", "PRES"},
		{"Example 2d_eig/SRL: Serial-iter/err", "Example_2d_eig_SRL_Serial_iter_err"},
		{"a___b", "a_b"},
		{"  iters 2   ", "iters_2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeIdent(tt.in), "SanitizeIdent(%q)", tt.in)
	}
}

func TestAddExampleValidation(t *testing.T) {
	value := models.ValueSpec{Name: "iters", Target: 4, Tolerance: 0.5, Column: 1}

	tests := []struct {
		name      string
		example   string
		logPath   string
		values    []models.ValueSpec
		phrases   []models.PhraseSpec
		wantErr   string
	}{
		{
			name:    "empty example name",
			example: "",
			logPath: "x.log",
			values:  []models.ValueSpec{value},
			wantErr: "empty name",
		},
		{
			name:    "empty log path",
			example: "axi",
			logPath: "  ",
			values:  []models.ValueSpec{value},
			wantErr: "empty log path",
		},
		{
			name:    "no checks",
			example: "axi",
			logPath: "x.log",
			wantErr: "declares no checks",
		},
		{
			name:    "bad column",
			example: "axi",
			logPath: "x.log",
			values:  []models.ValueSpec{{Name: "iters", Target: 4, Tolerance: 0.5, Column: 0}},
			wantErr: "column must be >= 1",
		},
		{
			name:    "duplicate spec names",
			example: "axi",
			logPath: "x.log",
			values: []models.ValueSpec{
				{Name: "iters", Target: 4, Tolerance: 0.5, Column: 1},
				{Name: "iters", Target: 5, Tolerance: 0.5, Column: 2},
			},
			wantErr: "duplicate value spec name",
		},
		{
			name:    "empty phrase",
			example: "axi",
			logPath: "x.log",
			phrases: []models.PhraseSpec{{Phrase: ""}},
			wantErr: "empty phrase",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			err := s.AddExample(tt.example, tt.logPath, tt.values, tt.phrases)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, 0, s.Len(), "failed AddExample must not register the example")
		})
	}
}

func TestAddExampleDuplicateExampleName(t *testing.T) {
	s := New()
	value := []models.ValueSpec{{Name: "iters", Target: 4, Tolerance: 0.5, Column: 1}}

	require.NoError(t, s.AddExample("axi", "a.log", value, nil))
	err := s.AddExample("axi", "b.log", value, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate example name")
}

func TestAddExampleNearCollidingNames(t *testing.T) {
	s := New()
	// Different raw names, same sanitized identifier at the same index is
	// impossible (the index differs), but identical names at different
	// indices still normalize apart. Verify distinct IDs are produced.
	values := []models.ValueSpec{
		{Name: "PRES: ", Target: 0, Tolerance: 76, Column: 4},
		{Name: "PRES ", Target: 0, Tolerance: 76, Column: 2},
	}
	require.NoError(t, s.AddExample("axi", "a.log", values, nil))
	ids := s.Examples()[0].CheckIDs()
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
}

func TestCheckIDsStableAndOrdered(t *testing.T) {
	s := New()
	values := []models.ValueSpec{
		{Name: "total solver time", Target: 0.1, Tolerance: 0.05, Column: 2},
		{Name: "PRES: ", Target: 0, Tolerance: 76, Column: 4},
	}
	phrases := []models.PhraseSpec{
		{Phrase: "end of time-step loop", Expect: models.PhrasePresent},
	}
	require.NoError(t, s.AddExample("axi", "a.log", values, phrases))

	ids := s.Examples()[0].CheckIDs()
	require.Equal(t, []string{
		"check_total_solver_time_00",
		"check_PRES_01",
		"phrase_end_of_time_step_loop_00",
	}, ids)
}
