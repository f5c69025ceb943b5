package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sigbind/internal/value"
)

// DefaultTolerance is the absolute float tolerance used when a scenario does
// not set one.
const DefaultTolerance = 1e-6

// Scenario is one algorithm execution with expected results.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Algorithm is the registry name of the algorithm under test.
	Algorithm string `yaml:"algorithm"`

	// Parameters are raw values, decoded as each parameter's declared shape.
	Parameters map[string]any `yaml:"parameters,omitempty"`

	Inputs map[string]Input `yaml:"inputs,omitempty"`

	// Outputs maps output names to tag names. Empty sets up every declared
	// output.
	Outputs map[string]string `yaml:"outputs,omitempty"`

	// Repeat is the number of compute calls. Zero means one.
	Repeat int `yaml:"repeat,omitempty"`

	// Expect maps output names to expected raw values. Pool outputs are
	// matched key by key against a map; keys not listed are ignored.
	Expect map[string]any `yaml:"expect,omitempty"`

	// ExpectError is an error code the run must fail with, such as
	// COMPUTE_FAILED or ALGORITHM_NOT_FOUND.
	ExpectError string `yaml:"expect_error,omitempty"`

	Tolerance float64 `yaml:"tolerance,omitempty"`
}

// Input is a raw input value with an optional tag name. Value may also hold
// an already built *value.Value.
type Input struct {
	Type  string `yaml:"type,omitempty"`
	Value any    `yaml:"value"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadDir loads every *.yaml and *.yml scenario in dir, ordered by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}
	var scenarios []*Scenario
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		sc, err := LoadScenario(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		scenarios = append(scenarios, sc)
	}
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios found in %s", dir)
	}
	return scenarios, nil
}

// Validate checks that required fields are present and valid.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Algorithm == "" {
		return fmt.Errorf("algorithm is required")
	}
	if s.Repeat < 0 {
		return fmt.Errorf("repeat must be non-negative")
	}
	if s.Tolerance < 0 {
		return fmt.Errorf("tolerance must be non-negative")
	}
	if s.ExpectError != "" && len(s.Expect) > 0 {
		return fmt.Errorf("expect and expect_error are mutually exclusive")
	}
	for _, name := range sortedKeys(s.Inputs) {
		if t := s.Inputs[name].Type; t != "" {
			if _, err := value.ParseTag(t); err != nil {
				return fmt.Errorf("inputs.%s: %w", name, err)
			}
		}
	}
	for _, name := range sortedKeys(s.Outputs) {
		if _, err := value.ParseTag(s.Outputs[name]); err != nil {
			return fmt.Errorf("outputs.%s: %w", name, err)
		}
	}
	return nil
}

func (s *Scenario) tolerance() float64 {
	if s.Tolerance == 0 {
		return DefaultTolerance
	}
	return s.Tolerance
}

func (s *Scenario) repeat() int {
	return max(s.Repeat, 1)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
