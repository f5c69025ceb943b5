package cli

import (
	"errors"
	"fmt"
	"io"

	"cuelang.org/go/cue/token"
	"github.com/spf13/cobra"

	"github.com/roach88/sigbind/internal/preset"
	"github.com/roach88/sigbind/internal/registry"
	"github.com/roach88/sigbind/internal/value"
)

// PresetError is one problem found by preset validate.
type PresetError struct {
	Preset  string `json:"preset,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// PresetValidation holds validation results.
type PresetValidation struct {
	Valid   bool          `json:"valid"`
	Presets []string      `json:"presets"`
	Errors  []PresetError `json:"errors,omitempty"`
}

// NewPresetCommand creates the preset command group.
func NewPresetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Work with CUE parameter presets",
	}
	cmd.AddCommand(newPresetValidateCommand(rootOpts))
	return cmd
}

func newPresetValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <presets-dir>",
		Short: "Check presets against the algorithms they configure",
		Long: `Compile every CUE preset in a directory, then configure a fresh instance of
each preset's algorithm with it. Unknown algorithms, undeclared parameters
and values of the wrong type are reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresetValidate(rootOpts, args[0], cmd)
		},
	}
}

func runPresetValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	presets, err := preset.LoadDir(dir)
	if err != nil {
		var ce *preset.CompileError
		if errors.As(err, &ce) && ce.Field != "dir" {
			res := PresetValidation{Presets: []string{}, Errors: []PresetError{compileError(ce)}}
			return reportPresets(f, res)
		}
		return f.Fail(WrapExitError(ExitCommandError, ErrCodeNotFound, "failed to load presets", err), nil)
	}

	reg, err := opts.openRegistry()
	if err != nil {
		return f.Fail(err, nil)
	}
	defer closeRegistry(reg)

	res := PresetValidation{Presets: make([]string, 0, len(presets))}
	for i := range presets {
		p := &presets[i]
		res.Presets = append(res.Presets, p.Name)
		if err := checkPreset(reg, p); err != nil {
			pe := PresetError{Preset: p.Name, Field: "preset." + p.Name, Message: err.Error(), Line: lineOf(p.Pos)}
			var ce *preset.CompileError
			if errors.As(err, &ce) {
				pe = compileError(ce)
				pe.Preset = p.Name
			}
			res.Errors = append(res.Errors, pe)
		}
	}
	return reportPresets(f, res)
}

// checkPreset configures a throwaway binding of the preset's algorithm.
func checkPreset(reg *registry.Registry, p *preset.Preset) error {
	in, err := reg.Describe(p.Algorithm)
	if registry.IsAlgorithmNotFound(err) {
		return fmt.Errorf("unknown algorithm %q", p.Algorithm)
	}
	if err != nil {
		return err
	}
	hints := make(map[string]value.Tag, len(in.Parameters))
	for _, info := range in.Parameters {
		hints[info.Name] = info.Type
	}
	ps, err := p.ParameterSet(hints)
	if err != nil {
		return err
	}

	b, err := reg.Create(p.Algorithm)
	if err != nil {
		return err
	}
	defer b.Close()
	return b.Configure(ps)
}

func reportPresets(f *OutputFormatter, res PresetValidation) error {
	res.Valid = len(res.Errors) == 0
	if !res.Valid {
		err := NewExitError(ExitFailure, ErrCodeInvalidPreset, fmt.Sprintf("%d preset error(s)", len(res.Errors)))
		if f.JSON() {
			return f.Fail(err, res)
		}
		for _, e := range res.Errors {
			if e.Line > 0 {
				fmt.Fprintf(f.Writer, "✗ %s (line %d): %s\n", e.Field, e.Line, e.Message)
			} else {
				fmt.Fprintf(f.Writer, "✗ %s: %s\n", e.Field, e.Message)
			}
		}
		return err
	}
	return f.Success(res, func(w io.Writer) error {
		fmt.Fprintf(w, "✓ %d preset(s) valid\n", len(res.Presets))
		return nil
	})
}

func compileError(ce *preset.CompileError) PresetError {
	return PresetError{Field: ce.Field, Message: ce.Message, Line: lineOf(ce.Pos)}
}

func lineOf(pos token.Pos) int {
	if !pos.IsValid() {
		return 0
	}
	return pos.Line()
}
