// Package algorithm binds one native algorithm instance to boundary values.
package algorithm

import (
	"errors"
	"log/slog"

	"github.com/roach88/sigbind/internal/native"
	"github.com/roach88/sigbind/internal/params"
	"github.com/roach88/sigbind/internal/value"
)

// State is the binding lifecycle position.
type State int

const (
	StateCreated State = iota
	StateConfigured
	StateReady
	StateComputed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateConfigured:
		return "configured"
	case StateReady:
		return "ready"
	case StateComputed:
		return "computed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Binding owns one native algorithm and the values bound to its slots.
//
// Inputs are bound on first set; outputs must be set up with a tag before
// Compute, which writes into their storage in place. A Binding is not safe for
// concurrent use.
type Binding struct {
	algo    native.Algorithm
	factory native.Factory
	logger  *slog.Logger
	onClose func()

	inputs      map[string]*value.Value
	outputs     map[string]*value.Value
	outputOrder []string
	state       State
}

// Option configures a Binding.
type Option func(*Binding)

// WithLogger sets the logger used for introspection warnings.
func WithLogger(l *slog.Logger) Option {
	return func(b *Binding) {
		b.logger = l
	}
}

// OnClose registers a callback run once when the binding is closed.
func OnClose(f func()) Option {
	return func(b *Binding) {
		b.onClose = f
	}
}

// New wraps algo. factory supplies catalog metadata and may be nil.
func New(algo native.Algorithm, factory native.Factory, opts ...Option) *Binding {
	b := &Binding{
		algo:    algo,
		factory: factory,
		logger:  slog.Default(),
		inputs:  make(map[string]*value.Value),
		outputs: make(map[string]*value.Value),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns the lifecycle position.
func (b *Binding) State() State {
	return b.state
}

// Name returns the native algorithm name.
func (b *Binding) Name() string {
	return b.algo.Name()
}

// Category returns the catalog category, or "Unknown" when the lookup fails.
// An entry with an empty category reports "".
func (b *Binding) Category() string {
	info, ok := b.info()
	if !ok {
		return "Unknown"
	}
	return info.Category
}

// Description returns the catalog description, or a placeholder when the
// lookup fails.
func (b *Binding) Description() string {
	info, ok := b.info()
	if !ok {
		return "Description not available"
	}
	return info.Description
}

func (b *Binding) info() (native.Info, bool) {
	if b.factory == nil {
		return native.Info{}, false
	}
	info, err := b.factory.Info(b.algo.Name())
	if err != nil {
		b.logger.Debug("catalog lookup failed", "algorithm", b.algo.Name(), "error", err)
		return native.Info{}, false
	}
	return info, true
}

// Configure consumes ps and applies it over the algorithm's defaults. Each
// call starts from the defaults; bound inputs and outputs are kept.
func (b *Binding) Configure(ps *params.Set) error {
	if err := b.open(); err != nil {
		return err
	}
	pm, err := ps.IntoNativeConfig()
	if err != nil {
		return err
	}
	if err := b.algo.Configure(pm); err != nil {
		code := ErrCodeConfigureFailed
		if errors.Is(err, native.ErrUnknownParameter) {
			code = ErrCodeParameterNotFound
		} else if errors.Is(err, native.ErrParameterKind) {
			code = ErrCodeTypeMismatch
		}
		return b.fail(code, "", err, "configure rejected")
	}
	b.state = StateConfigured
	if len(b.inputs) > 0 || len(b.outputs) > 0 {
		b.state = StateReady
	}
	return nil
}

// SetInput stores v and binds the named input slot to its storage. The
// binding takes ownership of v.
func (b *Binding) SetInput(name string, v *value.Value) error {
	if err := b.open(); err != nil {
		return err
	}
	slot, err := b.algo.Input(name)
	if err != nil {
		return b.fail(ErrCodeInputNotFound, name, err, "no such input")
	}
	if err := slot.Bind(v.Storage()); err != nil {
		return b.fail(ErrCodeTypeMismatch, name, err, "input does not accept %s", v.DataType())
	}
	b.inputs[name] = v
	b.markReady()
	return nil
}

// SetupOutput allocates a default value of shape tag and binds the named
// output slot to it. Compute writes results into that value.
func (b *Binding) SetupOutput(name string, tag value.Tag) error {
	if err := b.open(); err != nil {
		return err
	}
	v, err := value.Zero(tag)
	if err != nil {
		return b.fail(ErrCodeUnsupportedDataType, name, err, "cannot allocate output of type %s", tag)
	}
	slot, err := b.algo.Output(name)
	if err != nil {
		return b.fail(ErrCodeOutputNotFound, name, err, "no such output")
	}
	if err := slot.Bind(v.Storage()); err != nil {
		return b.fail(ErrCodeTypeMismatch, name, err, "output does not produce %s", tag)
	}
	if _, exists := b.outputs[name]; !exists {
		b.outputOrder = append(b.outputOrder, name)
	}
	b.outputs[name] = v
	b.markReady()
	return nil
}

// GetOutput returns the value bound to the named output.
func (b *Binding) GetOutput(name string) (*value.Value, error) {
	v, ok := b.outputs[name]
	if !ok {
		return nil, b.fail(ErrCodeKeyNotFound, name, nil, "output not set up")
	}
	return v, nil
}

// GetInput returns the value bound to the named input.
func (b *Binding) GetInput(name string) (*value.Value, bool) {
	v, ok := b.inputs[name]
	return v, ok
}

// Outputs returns set-up output names in setup order.
func (b *Binding) Outputs() []string {
	return append([]string(nil), b.outputOrder...)
}

// Compute runs the native algorithm. The binding must be configured, and
// every declared input and output must be bound.
func (b *Binding) Compute() error {
	if err := b.open(); err != nil {
		return err
	}
	if b.state == StateCreated {
		return b.fail(ErrCodeNotConfigured, "", nil, "configure before compute")
	}
	for _, name := range b.algo.InputNames() {
		if _, ok := b.inputs[name]; !ok {
			return b.fail(ErrCodeInputNotFound, name, nil, "declared input not set")
		}
	}
	for _, name := range b.algo.OutputNames() {
		if _, ok := b.outputs[name]; !ok {
			return b.fail(ErrCodeOutputNotFound, name, nil, "declared output not set up")
		}
	}
	if err := b.algo.Compute(); err != nil {
		return b.fail(ErrCodeComputeFailed, "", err, "compute failed")
	}
	b.state = StateComputed
	return nil
}

// Reset clears the native algorithm's internal state. Bound values and
// parameters are kept.
func (b *Binding) Reset() error {
	if err := b.open(); err != nil {
		return err
	}
	b.algo.Reset()
	return nil
}

// Close releases the native algorithm and every bound value. Closing twice is
// a no-op.
func (b *Binding) Close() error {
	if b.state == StateClosed {
		return nil
	}
	b.state = StateClosed
	b.inputs = nil
	b.outputs = nil
	b.outputOrder = nil
	if b.onClose != nil {
		b.onClose()
	}
	return nil
}

func (b *Binding) open() error {
	if b.state == StateClosed {
		return b.fail(ErrCodeClosed, "", nil, "binding is closed")
	}
	return nil
}

func (b *Binding) markReady() {
	if b.state == StateConfigured || b.state == StateComputed {
		b.state = StateReady
	}
}
