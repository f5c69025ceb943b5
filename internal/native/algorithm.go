package native

import (
	"fmt"
	"reflect"
)

// ParameterDescription documents one declared parameter.
type ParameterDescription struct {
	Name        string
	Description string
	// Range is the constraint string, e.g. "(0,inf)". Empty when unconstrained.
	Range string
}

// Algorithm is one native computational unit.
//
// The parallel name/type/description lists of inputs and outputs are
// positional: element i of each list describes the same slot.
type Algorithm interface {
	Name() string

	ParameterDescriptions() []ParameterDescription
	DefaultParameters() *ParameterMap
	// Configure replaces the effective parameters. Names not given keep their
	// defaults. Each call starts from the defaults again.
	Configure(params *ParameterMap) error

	InputNames() []string
	InputTypes() []reflect.Type
	InputDescriptions() []string
	OutputNames() []string
	OutputTypes() []reflect.Type
	OutputDescriptions() []string

	Input(name string) (*Slot, error)
	Output(name string) (*Slot, error)

	// Compute reads every input slot and writes every output slot.
	Compute() error
	// Reset clears algorithmic state carried between Compute calls.
	// Slot bindings and parameters are kept.
	Reset()
}

// Slot is a named, typed input or output of an algorithm.
type Slot struct {
	name        string
	description string
	typ         reflect.Type
	ptr         any
}

// Name returns the slot name.
func (s *Slot) Name() string { return s.name }

// Description returns the slot's free-text description.
func (s *Slot) Description() string { return s.description }

// Type returns the element type the slot reads or writes.
func (s *Slot) Type() reflect.Type { return s.typ }

// Bound reports whether storage has been attached.
func (s *Slot) Bound() bool { return s.ptr != nil }

// Bind attaches caller-owned storage. ptr must be a non-nil pointer to the
// slot's declared type.
func (s *Slot) Bind(ptr any) error {
	rv := reflect.ValueOf(ptr)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: %q needs a non-nil *%s, got %T", ErrSlotType, s.name, s.typ, ptr)
	}
	if rv.Type().Elem() != s.typ {
		return fmt.Errorf("%w: %q needs *%s, got %T", ErrSlotType, s.name, s.typ, ptr)
	}
	s.ptr = ptr
	return nil
}

// Input is a typed read handle on an input slot.
type Input[T any] struct{ slot *Slot }

// Get returns the bound input value. It panics if the slot is unbound; Base
// checks bindings before Compute.
func (in Input[T]) Get() T {
	return *in.slot.ptr.(*T)
}

// Output is a typed write handle on an output slot.
type Output[T any] struct{ slot *Slot }

// Set stores v in the bound output.
func (out Output[T]) Set(v T) {
	*out.slot.ptr.(*T) = v
}

// Ptr returns the bound output storage for in-place writes.
func (out Output[T]) Ptr() *T {
	return out.slot.ptr.(*T)
}

// Base carries the declarations shared by every algorithm and implements all
// of Algorithm except Compute.
type Base struct {
	name     string
	descs    []ParameterDescription
	defaults *ParameterMap
	params   *ParameterMap
	inputs   []*Slot
	outputs  []*Slot
}

// NewBase returns an empty declaration set for an algorithm called name.
func NewBase(name string) Base {
	return Base{name: name, defaults: NewParameterMap(), params: NewParameterMap()}
}

// DeclareParameter adds a parameter. def may be the zero Parameter for
// parameters without a default.
func (b *Base) DeclareParameter(name, description, rng string, def Parameter) {
	b.descs = append(b.descs, ParameterDescription{Name: name, Description: description, Range: rng})
	b.defaults.Add(name, def)
	b.params.Add(name, def)
}

// DeclareInput adds an input slot of type T.
func DeclareInput[T any](b *Base, name, description string) Input[T] {
	s := &Slot{name: name, description: description, typ: reflect.TypeFor[T]()}
	b.inputs = append(b.inputs, s)
	return Input[T]{slot: s}
}

// DeclareOutput adds an output slot of type T.
func DeclareOutput[T any](b *Base, name, description string) Output[T] {
	s := &Slot{name: name, description: description, typ: reflect.TypeFor[T]()}
	b.outputs = append(b.outputs, s)
	return Output[T]{slot: s}
}

func (b *Base) Name() string { return b.name }

func (b *Base) ParameterDescriptions() []ParameterDescription {
	return append([]ParameterDescription(nil), b.descs...)
}

func (b *Base) DefaultParameters() *ParameterMap {
	out := NewParameterMap()
	for _, name := range b.defaults.Keys() {
		p, _ := b.defaults.Get(name)
		out.Add(name, p)
	}
	return out
}

// Configure applies params over the declared defaults.
func (b *Base) Configure(params *ParameterMap) error {
	return b.ApplyParameters(params)
}

// ApplyParameters resets the effective parameters to the defaults and then
// applies params. Every name must be declared and every payload must match the
// declared default's kind when the default is defined. checks run against the
// merged candidate map; the effective parameters change only when all pass.
func (b *Base) ApplyParameters(params *ParameterMap, checks ...func(*ParameterMap) error) error {
	next := b.DefaultParameters()
	for _, name := range params.Keys() {
		def, ok := b.defaults.Get(name)
		if !ok {
			return fmt.Errorf("%w: %s has no parameter %q", ErrUnknownParameter, b.name, name)
		}
		p, _ := params.Get(name)
		if def.IsDefined() && p.Kind() != def.Kind() {
			return fmt.Errorf("%w: %s.%s is %s, got %s", ErrParameterKind, b.name, name, def.Kind(), p.Kind())
		}
		next.Add(name, p)
	}
	for _, check := range checks {
		if err := check(next); err != nil {
			return err
		}
	}
	b.params = next
	return nil
}

// Param returns the effective value of a declared parameter.
func (b *Base) Param(name string) Parameter {
	p, _ := b.params.Get(name)
	return p
}

func (b *Base) InputNames() []string { return slotNames(b.inputs) }
func (b *Base) InputTypes() []reflect.Type { return slotTypes(b.inputs) }
func (b *Base) InputDescriptions() []string { return slotDescriptions(b.inputs) }
func (b *Base) OutputNames() []string { return slotNames(b.outputs) }
func (b *Base) OutputTypes() []reflect.Type { return slotTypes(b.outputs) }
func (b *Base) OutputDescriptions() []string { return slotDescriptions(b.outputs) }
func (b *Base) Input(name string) (*Slot, error) { return b.find(b.inputs, "input", name) }
func (b *Base) Output(name string) (*Slot, error) { return b.find(b.outputs, "output", name) }

// Reset is a no-op for stateless algorithms.
func (b *Base) Reset() {}

// CheckBound returns ErrUnboundSlot for the first slot without storage.
func (b *Base) CheckBound() error {
	for _, s := range b.inputs {
		if !s.Bound() {
			return fmt.Errorf("%w: %s input %q", ErrUnboundSlot, b.name, s.name)
		}
	}
	for _, s := range b.outputs {
		if !s.Bound() {
			return fmt.Errorf("%w: %s output %q", ErrUnboundSlot, b.name, s.name)
		}
	}
	return nil
}

func (b *Base) find(slots []*Slot, kind, name string) (*Slot, error) {
	for _, s := range slots {
		if s.name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s has no %s %q", ErrUnknownSlot, b.name, kind, name)
}

func slotNames(slots []*Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.name
	}
	return out
}

func slotTypes(slots []*Slot) []reflect.Type {
	out := make([]reflect.Type, len(slots))
	for i, s := range slots {
		out[i] = s.typ
	}
	return out
}

func slotDescriptions(slots []*Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.description
	}
	return out
}
