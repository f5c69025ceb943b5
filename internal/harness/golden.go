package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/sigbind/internal/registry"
	"github.com/roach88/sigbind/internal/value"
)

// Snapshot renders a result as stable text: a header, then one line per
// output holding its canonical JSON, or the error code the run stopped on.
func Snapshot(sc *Scenario, result *Result) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "scenario: %s\n", sc.Name)
	fmt.Fprintf(&buf, "algorithm: %s\n", sc.Algorithm)
	if result.ErrorCode != "" {
		fmt.Fprintf(&buf, "error: %s\n", result.ErrorCode)
	}
	for _, o := range result.Outputs {
		data, err := value.MarshalCanonical(o.Value)
		if err != nil {
			return nil, fmt.Errorf("output %s: %w", o.Name, err)
		}
		fmt.Fprintf(&buf, "%s = %s\n", o.Name, data)
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, reg *registry.Registry, sc *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(reg, sc)
	if err != nil {
		return nil, err
	}
	snapshot, err := Snapshot(sc, result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, sc.Name, snapshot)
	return result, nil
}
