package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/sigbind/internal/harness"
	"github.com/roach88/sigbind/internal/registry"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run scenario files against the algorithms",
		Long: `Run YAML scenarios: each configures one algorithm, feeds its inputs,
computes and checks the outputs against expected values or an expected
error code. When <scenarios-dir>/golden/<name>.golden exists the output
snapshot must match it byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  sigbind test ./scenarios
  sigbind test ./scenarios --filter "mean-*"
  sigbind test ./scenarios --update
  sigbind test ./scenarios --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, dir string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return f.Fail(NewExitError(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("scenarios directory not found: %s", dir)), nil)
	}

	scenarios, err := harness.LoadDir(dir)
	if err != nil {
		return f.Fail(WrapExitError(ExitCommandError, ErrCodeGeneric, "failed to load scenarios", err), nil)
	}
	if opts.Filter != "" {
		if _, err := filepath.Match(opts.Filter, ""); err != nil {
			return f.Fail(WrapExitError(ExitCommandError, ErrCodeInvalidArgument, "invalid filter pattern", err), nil)
		}
		kept := scenarios[:0]
		for _, sc := range scenarios {
			if ok, _ := filepath.Match(opts.Filter, sc.Name); ok {
				kept = append(kept, sc)
			}
		}
		scenarios = kept
	}

	reg, err := opts.openRegistry()
	if err != nil {
		return f.Fail(err, nil)
	}
	defer closeRegistry(reg)

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(scenarios)),
		Total:     len(scenarios),
	}
	w := cmd.OutOrStdout()
	for _, sc := range scenarios {
		sr := runScenario(reg, sc, filepath.Join(dir, "golden"), opts.Update)
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		if !f.JSON() {
			writeScenarioResult(w, sr, opts.Update)
		}
	}

	var failure error
	if result.Failed > 0 {
		failure = NewExitError(ExitFailure, ErrCodeTestFailed, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	if f.JSON() {
		if failure != nil {
			return f.Fail(failure, result)
		}
		return f.Success(result, nil)
	}

	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios matched.")
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if failure != nil {
		return failure
	}
	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}

// runScenario executes a single scenario and checks its snapshot against
// goldenDir/<name>.golden when that file exists.
func runScenario(reg *registry.Registry, sc *harness.Scenario, goldenDir string, update bool) ScenarioResult {
	sr := ScenarioResult{Name: sc.Name}

	result, err := harness.Run(reg, sc)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
		return sr
	}
	snapshot, err := harness.Snapshot(sc, result)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("snapshot failed: %v", err)}
		return sr
	}

	goldenPath := filepath.Join(goldenDir, sc.Name+".golden")
	if update {
		if err := os.MkdirAll(goldenDir, 0755); err != nil {
			sr.Errors = []string{fmt.Sprintf("failed to create golden directory: %v", err)}
			return sr
		}
		if err := os.WriteFile(goldenPath, snapshot, 0644); err != nil {
			sr.Errors = []string{fmt.Sprintf("failed to write golden file: %v", err)}
			return sr
		}
	} else if golden, err := os.ReadFile(goldenPath); err == nil {
		if !bytes.Equal(golden, snapshot) {
			result.AddError("output does not match golden file (run with --update to regenerate)")
		}
	} else if !os.IsNotExist(err) {
		result.AddError("failed to read golden file: %v", err)
	}

	sr.Pass = result.Pass
	sr.Errors = result.Errors
	return sr
}

func writeScenarioResult(w io.Writer, sr ScenarioResult, updated bool) {
	if !sr.Pass {
		fmt.Fprintf(w, "✗ %s\n", sr.Name)
		for _, e := range sr.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
		return
	}
	if updated {
		fmt.Fprintf(w, "✓ %s (golden updated)\n", sr.Name)
		return
	}
	fmt.Fprintf(w, "✓ %s\n", sr.Name)
}
