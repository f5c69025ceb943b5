package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/sigbind/internal/algorithm"
	"github.com/roach88/sigbind/internal/params"
	"github.com/roach88/sigbind/internal/registry"
	"github.com/roach88/sigbind/internal/store"
	"github.com/roach88/sigbind/internal/value"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	// Outputs holds the set-up outputs in setup order. Empty when the run
	// failed before compute.
	Outputs []store.Named `json:"outputs"`

	// ErrorCode is the code of the error the run stopped on, if any.
	ErrorCode string `json:"error_code,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// RunID is set when the run was archived.
	RunID string `json:"run_id,omitempty"`
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Output returns the named output value.
func (r *Result) Output(name string) (*value.Value, bool) {
	for _, o := range r.Outputs {
		if o.Name == name {
			return o.Value, true
		}
	}
	return nil, false
}

type options struct {
	ctx     context.Context
	archive *store.Store
	logger  *slog.Logger
}

// Option configures a run.
type Option func(*options)

// WithArchive records successful runs, and the first Pool output of each, in
// st.
func WithArchive(ctx context.Context, st *store.Store) Option {
	return func(o *options) {
		o.ctx = ctx
		o.archive = st
	}
}

// WithLogger sets the logger for the run.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Run executes the scenario on a fresh binding and evaluates its
// expectations. Binding failures are reported in the result; the returned
// error is reserved for archive failures.
func Run(reg *registry.Registry, sc *Scenario, opts ...Option) (*Result, error) {
	o := options{ctx: context.Background(), logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	result := &Result{Pass: true, Outputs: []store.Named{}}
	named, err := execute(reg, sc, result)
	if err != nil {
		result.ErrorCode = errorCode(err)
		o.logger.Debug("scenario stopped", "scenario", sc.Name, "error", err)
		switch {
		case sc.ExpectError == "":
			result.AddError("%v", err)
		case sc.ExpectError != result.ErrorCode:
			result.AddError("expected error %s, got %v", sc.ExpectError, err)
		}
		return result, nil
	}
	if sc.ExpectError != "" {
		result.AddError("expected error %s, run succeeded", sc.ExpectError)
		return result, nil
	}

	for _, name := range sortedKeys(sc.Expect) {
		got, ok := result.Output(name)
		if !ok {
			result.AddError("expect.%s: output was not set up", name)
			continue
		}
		if err := matchValue(got, sc.Expect[name], sc.tolerance()); err != nil {
			result.AddError("expect.%s: %v", name, err)
		}
	}

	if o.archive != nil {
		if err := archive(o.ctx, o.archive, sc.Algorithm, named, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

// execute drives the binding through configure, input and output setup and
// compute. It returns the parameters it configured.
func execute(reg *registry.Registry, sc *Scenario, result *Result) ([]store.Named, error) {
	b, err := reg.Create(sc.Algorithm)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	named, ps, err := buildParameters(b, sc.Parameters)
	if err != nil {
		return nil, err
	}
	if err := b.Configure(ps); err != nil {
		return nil, err
	}

	inputs, err := b.InputInfos()
	if err != nil {
		return nil, err
	}
	for _, name := range sortedKeys(sc.Inputs) {
		v, err := buildInput(inputs, name, sc.Inputs[name])
		if err != nil {
			return nil, err
		}
		if err := b.SetInput(name, v); err != nil {
			return nil, err
		}
	}

	if len(sc.Outputs) == 0 {
		if err := b.SetupDeclaredOutputs(); err != nil {
			return nil, err
		}
	}
	for _, name := range sortedKeys(sc.Outputs) {
		tag, err := value.ParseTag(sc.Outputs[name])
		if err != nil {
			return nil, err
		}
		if err := b.SetupOutput(name, tag); err != nil {
			return nil, err
		}
	}

	for range sc.repeat() {
		if err := b.Compute(); err != nil {
			return nil, err
		}
	}

	// Outputs are cloned: the binding releases its values on close.
	for _, name := range b.Outputs() {
		v, err := b.GetOutput(name)
		if err != nil {
			return nil, err
		}
		result.Outputs = append(result.Outputs, store.Named{Name: name, Value: v.Clone()})
	}
	return named, nil
}

// buildParameters decodes raw parameters as their declared shapes. Names the
// algorithm does not declare are inferred so Configure reports them.
func buildParameters(b *algorithm.Binding, raw map[string]any) ([]store.Named, *params.Set, error) {
	infos, err := b.ParameterInfos()
	if err != nil {
		return nil, nil, err
	}
	hints := make(map[string]value.Tag, len(infos))
	for _, info := range infos {
		hints[info.Name] = info.Type
	}

	var named []store.Named
	ps := params.New()
	for _, name := range sortedKeys(raw) {
		v, err := toValue(raw[name], hints[name])
		if err != nil {
			return nil, nil, fmt.Errorf("parameters.%s: %w", name, err)
		}
		if err := ps.Add(name, v); err != nil {
			return nil, nil, err
		}
		named = append(named, store.Named{Name: name, Value: v})
	}
	return named, ps, nil
}

func buildInput(declared []algorithm.IOInfo, name string, in Input) (*value.Value, error) {
	tag := value.TagInvalid
	if in.Type != "" {
		t, err := value.ParseTag(in.Type)
		if err != nil {
			return nil, err
		}
		tag = t
	} else {
		for _, d := range declared {
			if d.Name == name {
				tag = d.Type
			}
		}
	}
	v, err := toValue(in.Value, tag)
	if err != nil {
		return nil, fmt.Errorf("inputs.%s: %w", name, err)
	}
	return v, nil
}

// toValue decodes raw as tag, or infers its shape when tag is TagInvalid.
func toValue(raw any, tag value.Tag) (*value.Value, error) {
	if v, ok := raw.(*value.Value); ok {
		return v, nil
	}
	if tag == value.TagInvalid {
		return value.Infer(raw)
	}
	return value.Decode(tag, raw)
}

func archive(ctx context.Context, st *store.Store, algo string, parameters []store.Named, result *Result) error {
	if !result.Pass {
		return nil
	}
	run, err := st.WriteRun(ctx, store.Run{
		Algorithm:  algo,
		Parameters: parameters,
		Outputs:    result.Outputs,
	})
	if err != nil {
		return err
	}
	result.RunID = run.ID

	for _, o := range result.Outputs {
		if o.Value.DataType() != value.TagPool {
			continue
		}
		pool, err := o.Value.AsPool()
		if err != nil {
			return err
		}
		return st.WritePool(ctx, run.ID, pool)
	}
	return nil
}

// errorCode extracts the code of any layer's structured error.
func errorCode(err error) string {
	var (
		ae *algorithm.Error
		re *registry.Error
		pe *params.Error
		ve *value.Error
	)
	switch {
	case errors.As(err, &ae):
		return string(ae.Code)
	case errors.As(err, &re):
		return string(re.Code)
	case errors.As(err, &pe):
		return string(pe.Code)
	case errors.As(err, &ve):
		return string(ve.Code)
	}
	return ""
}
