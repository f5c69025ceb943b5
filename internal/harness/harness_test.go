package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sigbind/internal/native/builtin"
	"github.com/roach88/sigbind/internal/registry"
	"github.com/roach88/sigbind/internal/store"
	"github.com/roach88/sigbind/internal/value"
)

func openRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.Open(builtin.New())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, reg.Close()) })
	return reg
}

func TestScenarios_Golden(t *testing.T) {
	reg := openRegistry(t)
	scenarios, err := LoadDir("testdata/scenarios")
	require.NoError(t, err)
	require.Len(t, scenarios, 6)

	for _, sc := range scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, reg, sc)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
	assert.Zero(t, reg.OpenBindings())
}

func TestRun_UnknownAlgorithm(t *testing.T) {
	reg := openRegistry(t)

	result, err := Run(reg, &Scenario{Name: "x", Algorithm: "nonexistent-algorithm"})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, "ALGORITHM_NOT_FOUND", result.ErrorCode)

	result, err = Run(reg, &Scenario{Name: "x", Algorithm: "nonexistent-algorithm", ExpectError: "ALGORITHM_NOT_FOUND"})
	require.NoError(t, err)
	assert.True(t, result.Pass)
}

func TestRun_ExpectationMismatch(t *testing.T) {
	reg := openRegistry(t)
	sc := &Scenario{
		Name:      "mean-off",
		Algorithm: "Mean",
		Inputs:    map[string]Input{"array": {Value: []any{1, 2}}},
		Expect:    map[string]any{"mean": 2, "missing": 1},
	}

	result, err := Run(reg, sc)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "expect.mean: value: got 1.5, want 2")
	assert.Contains(t, result.Errors[1], "expect.missing: output was not set up")
}

func TestRun_Tolerance(t *testing.T) {
	reg := openRegistry(t)
	sc := &Scenario{
		Name:      "mean-loose",
		Algorithm: "Mean",
		Inputs:    map[string]Input{"array": {Value: []any{1, 2}}},
		Expect:    map[string]any{"mean": 1.49},
		Tolerance: 0.05,
	}

	result, err := Run(reg, sc)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_ExpectedErrorNotRaised(t *testing.T) {
	reg := openRegistry(t)
	sc := &Scenario{
		Name:        "mean-ok",
		Algorithm:   "Mean",
		Inputs:      map[string]Input{"array": {Value: []any{1}}},
		ExpectError: "COMPUTE_FAILED",
	}

	result, err := Run(reg, sc)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "run succeeded")
}

func TestRun_ParameterErrors(t *testing.T) {
	reg := openRegistry(t)

	result, err := Run(reg, &Scenario{
		Name:       "unknown-param",
		Algorithm:  "Scale",
		Parameters: map[string]any{"gain": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "PARAMETER_NOT_FOUND", result.ErrorCode)

	result, err = Run(reg, &Scenario{
		Name:       "bad-shape",
		Algorithm:  "Scale",
		Parameters: map[string]any{"clipping": "sometimes"},
	})
	require.NoError(t, err)
	assert.Equal(t, "INVALID_VALUE", result.ErrorCode)
}

func TestRun_PrebuiltInput(t *testing.T) {
	reg := openRegistry(t)
	sc := &Scenario{
		Name:      "prebuilt",
		Algorithm: "RMS",
		Inputs:    map[string]Input{"array": {Value: value.NewVectorFloat([]float32{3, -3})}},
		Expect:    map[string]any{"rms": 3},
	}

	result, err := Run(reg, sc)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_Archive(t *testing.T) {
	reg := openRegistry(t)
	st, err := store.Open(filepath.Join(t.TempDir(), "runs.db"), store.WithRunIDs(&store.SequenceGenerator{}))
	require.NoError(t, err)
	defer st.Close()

	sc, err := LoadScenario("testdata/scenarios/summary-history.yaml")
	require.NoError(t, err)

	ctx := context.Background()
	result, err := Run(reg, sc, WithArchive(ctx, st))
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "run-1", result.RunID)

	run, err := st.ReadRun(ctx, result.RunID)
	require.NoError(t, err)
	assert.Equal(t, "Summary", run.Algorithm)
	require.Len(t, run.Parameters, 1)
	assert.Equal(t, "namespace", run.Parameters[0].Name)

	pool, err := st.ReadPool(ctx, result.RunID)
	require.NoError(t, err)
	assert.Equal(t, []string{"clip.mean", "clip.length", "clip.range", "clip.algorithm", "clip.history"}, pool.Keys())

	failed, err := Run(reg, &Scenario{Name: "bad", Algorithm: "nope"}, WithArchive(ctx, st))
	require.NoError(t, err)
	assert.Empty(t, failed.RunID)
	runs, err := st.ListRuns(ctx, "")
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing name", "algorithm: Mean\n", "name is required"},
		{"missing algorithm", "name: x\n", "algorithm is required"},
		{"unknown field", "name: x\nalgorithm: Mean\nexpected: {}\n", "field expected not found"},
		{"bad output tag", "name: x\nalgorithm: Mean\noutputs: {mean: Double}\n", "outputs.mean"},
		{"bad input tag", "name: x\nalgorithm: Mean\ninputs: {array: {type: Floats, value: []}}\n", "inputs.array"},
		{"both expectations", "name: x\nalgorithm: Mean\nexpect: {mean: 1}\nexpect_error: CLOSED\n", "mutually exclusive"},
		{"negative tolerance", "name: x\nalgorithm: Mean\ntolerance: -1\n", "tolerance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestApproxEqual(t *testing.T) {
	assert.NoError(t, approxEqual(float32(1), float32(1.0000001), 1e-6, ""))
	assert.Error(t, approxEqual(float32(1), float32(1.1), 1e-6, ""))
	assert.NoError(t, approxEqual([]any{float32(1), "a"}, []any{float32(1), "a"}, 0, ""))

	err := approxEqual([]any{float32(1)}, []any{float32(1), float32(2)}, 0, "")
	assert.ErrorContains(t, err, "got 1 elements, want 2")

	err = approxEqual(map[string]any{"left": float32(1)}, map[string]any{"left": float32(2)}, 0, "")
	assert.ErrorContains(t, err, "value.left")
}
