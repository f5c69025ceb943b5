package algorithm

import (
	"github.com/roach88/sigbind/internal/params"
	"github.com/roach88/sigbind/internal/value"
)

// Typed is the runtime under the generated per-algorithm wrappers. Parameter
// setters collect into a pending set that the next Configure consumes.
type Typed struct {
	b       *Binding
	pending *params.Set
	wired   bool
}

// NewTyped wraps b. The Typed owns b from here on.
func NewTyped(b *Binding) *Typed {
	return &Typed{b: b, pending: params.New()}
}

// Binding returns the wrapped binding.
func (t *Typed) Binding() *Binding {
	return t.b
}

// SetParameter records v for the next Configure. A repeated name keeps the
// last value.
func (t *Typed) SetParameter(name string, v *value.Value) {
	// pending is never consumed outside Configure, which replaces it.
	_ = t.pending.Add(name, v)
}

// Configure applies the pending parameters over the defaults and starts a
// new pending set.
func (t *Typed) Configure() error {
	ps := t.pending
	t.pending = params.New()
	return t.b.Configure(ps)
}

// SetInput binds a compute argument after checking it against the declared
// input type.
func (t *Typed) SetInput(name string, v *value.Value) error {
	if v == nil {
		return t.b.fail(ErrCodeTypeMismatch, name, nil, "input is nil")
	}
	return t.b.SetInputChecked(name, v)
}

// Compute sets up every declared output on first use and runs the algorithm.
func (t *Typed) Compute() error {
	if !t.wired {
		if err := t.b.SetupDeclaredOutputs(); err != nil {
			return err
		}
		t.wired = true
	}
	return t.b.Compute()
}

// Close releases the binding.
func (t *Typed) Close() error {
	return t.b.Close()
}

// Output reads the named output through one of the value accessors, e.g.
// (*value.Value).AsVectorFloat.
func Output[T any](b *Binding, name string, as func(*value.Value) (T, error)) (T, error) {
	v, err := b.GetOutput(name)
	if err != nil {
		var zero T
		return zero, err
	}
	return as(v)
}
