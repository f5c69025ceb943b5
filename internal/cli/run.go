package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/sigbind/internal/audio"
	"github.com/roach88/sigbind/internal/harness"
	"github.com/roach88/sigbind/internal/preset"
	"github.com/roach88/sigbind/internal/store"
	"github.com/roach88/sigbind/internal/value"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Params    []string
	Inputs    []string
	WAVs      []string
	Outputs   []string
	Preset    string
	PresetDir string
	Database  string
	Repeat    int
}

// RunOutput is the result of one run.
type RunOutput struct {
	Algorithm string        `json:"algorithm"`
	RunID     string        `json:"run_id,omitempty"`
	Outputs   []store.Named `json:"outputs"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <algorithm>",
		Short: "Configure and compute one algorithm",
		Long: `Create an algorithm, configure it, bind its inputs and outputs and compute.

Parameter values are YAML scalars or flow collections and are converted to
each parameter's declared type. Inputs are JSON. Outputs default to every
declared output with its declared type. With --db (or db in the config file)
the run is archived.

Example:
  sigbind run Mean --input 'array=[1,2,3,4]'
  sigbind run Scale --param factor=0.5 --param clipping=false --input 'signal=[0.2,0.4]'
  sigbind run FrameCutter --preset short-frames --preset-dir ./presets --wav signal=clip.wav
  sigbind run StereoDemuxer --wav audio=clip.wav:stereo --db ./runs.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlgorithm(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Params, "param", nil, "parameter as name=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Inputs, "input", nil, "input as name=json (repeatable)")
	cmd.Flags().StringArrayVar(&opts.WAVs, "wav", nil, "WAV file input as name=path[:stereo] (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Outputs, "output", nil, "output as name=Type (repeatable)")
	cmd.Flags().StringVar(&opts.Preset, "preset", "", "name of a CUE preset to start from")
	cmd.Flags().StringVar(&opts.PresetDir, "preset-dir", "", "directory of CUE presets")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run archive")
	cmd.Flags().IntVar(&opts.Repeat, "repeat", 1, "number of compute calls")

	return cmd
}

func runAlgorithm(opts *RunOptions, name string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	sc, err := opts.scenario(name)
	if err != nil {
		return f.Fail(err, nil)
	}

	st, err := opts.openStore(false)
	if err != nil {
		return f.Fail(err, nil)
	}
	defer closeStore(st)

	reg, err := opts.openRegistry()
	if err != nil {
		return f.Fail(err, nil)
	}
	defer closeRegistry(reg)

	runOpts := []harness.Option{harness.WithLogger(slog.Default())}
	if st != nil {
		runOpts = append(runOpts, harness.WithArchive(commandContext(cmd), st))
	}

	slog.Debug("running algorithm", "algorithm", name, "parameters", len(sc.Parameters), "inputs", len(sc.Inputs))
	result, err := harness.Run(reg, sc, runOpts...)
	if err != nil {
		return f.Fail(WrapExitError(ExitFailure, ErrCodeStore, "failed to archive run", err), nil)
	}
	if !result.Pass {
		return f.Fail(runError(name, result), result.Errors)
	}

	out := RunOutput{Algorithm: name, RunID: result.RunID, Outputs: result.Outputs}
	return f.Success(out, func(w io.Writer) error {
		if err := writeNamed(w, out.Outputs); err != nil {
			return err
		}
		if out.RunID != "" {
			fmt.Fprintf(w, "run: %s\n", out.RunID)
		}
		return nil
	})
}

func runError(name string, result *harness.Result) error {
	msg := strings.Join(result.Errors, "; ")
	if result.ErrorCode == "ALGORITHM_NOT_FOUND" {
		return NewExitError(ExitCommandError, ErrCodeUnknownAlgorithm, fmt.Sprintf("unknown algorithm %q", name))
	}
	return NewExitError(ExitFailure, ErrCodeRunFailed, fmt.Sprintf("%s failed: %s", name, msg))
}

// scenario turns the flags into a single-run scenario.
func (o *RunOptions) scenario(name string) (*harness.Scenario, error) {
	sc := &harness.Scenario{
		Name:       name,
		Algorithm:  name,
		Parameters: map[string]any{},
		Inputs:     map[string]harness.Input{},
		Outputs:    map[string]string{},
		Repeat:     o.Repeat,
	}

	if o.Preset != "" {
		p, err := o.loadPreset(name)
		if err != nil {
			return nil, err
		}
		for _, param := range p.Params {
			sc.Parameters[param.Name] = param.Raw
		}
	}

	for _, arg := range o.Params {
		k, raw, err := splitAssignment("--param", arg)
		if err != nil {
			return nil, err
		}
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			return nil, WrapExitError(ExitCommandError, ErrCodeInvalidArgument, "--param "+k, err)
		}
		sc.Parameters[k] = v
	}

	for _, arg := range o.Inputs {
		k, raw, err := splitAssignment("--input", arg)
		if err != nil {
			return nil, err
		}
		dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, WrapExitError(ExitCommandError, ErrCodeInvalidArgument, "--input "+k, err)
		}
		sc.Inputs[k] = harness.Input{Value: v}
	}

	for _, arg := range o.WAVs {
		k, path, err := splitAssignment("--wav", arg)
		if err != nil {
			return nil, err
		}
		path, stereo := strings.CutSuffix(path, ":stereo")
		clip, err := audio.LoadWAV(path)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, ErrCodeNotFound, "--wav "+k, err)
		}
		slog.Debug("decoded wav", "input", k, "sample_rate", clip.SampleRate,
			"channels", clip.Channels, "frames", clip.Frames())
		sc.Inputs[k] = harness.Input{Value: clip.Value(stereo)}
	}

	for _, arg := range o.Outputs {
		k, tag, err := splitAssignment("--output", arg)
		if err != nil {
			return nil, err
		}
		if _, err := value.ParseTag(tag); err != nil {
			return nil, WrapExitError(ExitCommandError, ErrCodeInvalidArgument, "--output "+k, err)
		}
		sc.Outputs[k] = tag
	}

	if err := sc.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeInvalidArgument, "invalid run", err)
	}
	return sc, nil
}

func (o *RunOptions) loadPreset(algorithm string) (preset.Preset, error) {
	dir := ""
	if o.Config != nil {
		dir = o.Config.PresetDir
	}
	if dir == "" {
		return preset.Preset{}, NewExitError(ExitCommandError, ErrCodeInvalidArgument, "--preset needs --preset-dir or preset_dir in the config file")
	}
	presets, err := preset.LoadDir(dir)
	if err != nil {
		return preset.Preset{}, WrapExitError(ExitCommandError, ErrCodeInvalidPreset, "failed to load presets", err)
	}
	p, ok := preset.Lookup(presets, o.Preset)
	if !ok {
		return preset.Preset{}, NewExitError(ExitCommandError, ErrCodeInvalidPreset, fmt.Sprintf("preset %q not found in %s", o.Preset, dir))
	}
	if p.Algorithm != algorithm {
		return preset.Preset{}, NewExitError(ExitCommandError, ErrCodeInvalidPreset,
			fmt.Sprintf("preset %q configures %s, not %s", p.Name, p.Algorithm, algorithm))
	}
	return p, nil
}

func splitAssignment(flag, arg string) (string, string, error) {
	k, v, ok := strings.Cut(arg, "=")
	if !ok || k == "" {
		return "", "", NewExitError(ExitCommandError, ErrCodeInvalidArgument,
			fmt.Sprintf("%s %q: want name=value", flag, arg))
	}
	return k, v, nil
}

func writeNamed(w io.Writer, named []store.Named) error {
	for _, n := range named {
		data, err := value.MarshalCanonical(n.Value)
		if err != nil {
			return fmt.Errorf("%s: %w", n.Name, err)
		}
		fmt.Fprintf(w, "%s = %s\n", n.Name, data)
	}
	return nil
}
