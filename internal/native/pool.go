package native

import (
	"fmt"
	"slices"
)

type descriptorKind int

const (
	singleReal descriptorKind = iota + 1
	singleString
	singleVectorReal
	singleVectorString
	seriesReal
	seriesString
	seriesVectorReal
)

func (k descriptorKind) String() string {
	switch k {
	case singleReal:
		return "Real"
	case singleString:
		return "string"
	case singleVectorReal:
		return "[]Real"
	case singleVectorString:
		return "[]string"
	case seriesReal:
		return "Real series"
	case seriesString:
		return "string series"
	case seriesVectorReal:
		return "[]Real series"
	default:
		return "unknown"
	}
}

func (k descriptorKind) series() bool {
	return k >= seriesReal
}

type descriptor struct {
	kind    descriptorKind
	real    Real
	str     string
	reals   []Real
	strs    []string
	vectors [][]Real
}

func (d *descriptor) clone() *descriptor {
	out := &descriptor{kind: d.kind, real: d.real, str: d.str}
	if d.reals != nil {
		out.reals = slices.Clone(d.reals)
	}
	if d.strs != nil {
		out.strs = slices.Clone(d.strs)
	}
	if d.vectors != nil {
		out.vectors = make([][]Real, len(d.vectors))
		for i, v := range d.vectors {
			out.vectors[i] = slices.Clone(v)
		}
	}
	return out
}

// MergePolicy selects how Pool.Merge treats descriptors present in both pools.
type MergePolicy int

const (
	// MergeStrict fails on any shared descriptor name.
	MergeStrict MergePolicy = iota
	// MergeReplace overwrites with the incoming descriptor.
	MergeReplace
	// MergeAppend concatenates series descriptors of the same kind.
	MergeAppend
)

// Pool is the library's named descriptor container. Descriptors are either
// set once (single values) or accumulated with Add (series). A name keeps the
// kind it was first stored with.
//
// The zero Pool is empty and ready to use. Pool is not safe for concurrent use.
type Pool struct {
	order []string
	descs map[string]*descriptor
}

func (p *Pool) lookup(name string) (*descriptor, bool) {
	if p.descs == nil {
		return nil, false
	}
	d, ok := p.descs[name]
	return d, ok
}

func (p *Pool) put(name string, d *descriptor) {
	if p.descs == nil {
		p.descs = make(map[string]*descriptor)
	}
	if _, exists := p.descs[name]; !exists {
		p.order = append(p.order, name)
	}
	p.descs[name] = d
}

func (p *Pool) slot(name string, kind descriptorKind) (*descriptor, error) {
	d, ok := p.lookup(name)
	if !ok {
		d = &descriptor{kind: kind}
		p.put(name, d)
		return d, nil
	}
	if d.kind != kind {
		return nil, fmt.Errorf("%w: %q holds %s, not %s", ErrDescriptorType, name, d.kind, kind)
	}
	return d, nil
}

// SetReal stores a single Real under name.
func (p *Pool) SetReal(name string, v Real) error {
	d, err := p.slot(name, singleReal)
	if err != nil {
		return err
	}
	d.real = v
	return nil
}

// SetString stores a single string under name.
func (p *Pool) SetString(name string, v string) error {
	d, err := p.slot(name, singleString)
	if err != nil {
		return err
	}
	d.str = v
	return nil
}

// SetVectorReal stores a copy of v under name.
func (p *Pool) SetVectorReal(name string, v []Real) error {
	d, err := p.slot(name, singleVectorReal)
	if err != nil {
		return err
	}
	d.reals = slices.Clone(v)
	return nil
}

// SetVectorString stores a copy of v under name.
func (p *Pool) SetVectorString(name string, v []string) error {
	d, err := p.slot(name, singleVectorString)
	if err != nil {
		return err
	}
	d.strs = slices.Clone(v)
	return nil
}

// AddReal appends v to the Real series under name.
func (p *Pool) AddReal(name string, v Real) error {
	d, err := p.slot(name, seriesReal)
	if err != nil {
		return err
	}
	d.reals = append(d.reals, v)
	return nil
}

// AddString appends v to the string series under name.
func (p *Pool) AddString(name string, v string) error {
	d, err := p.slot(name, seriesString)
	if err != nil {
		return err
	}
	d.strs = append(d.strs, v)
	return nil
}

// AddVectorReal appends a copy of v to the frame series under name.
func (p *Pool) AddVectorReal(name string, v []Real) error {
	d, err := p.slot(name, seriesVectorReal)
	if err != nil {
		return err
	}
	d.vectors = append(d.vectors, slices.Clone(v))
	return nil
}

// Real returns the single Real stored under name.
func (p *Pool) Real(name string) (Real, bool) {
	d, ok := p.lookup(name)
	if !ok || d.kind != singleReal {
		return 0, false
	}
	return d.real, true
}

// StringValue returns the single string stored under name.
func (p *Pool) StringValue(name string) (string, bool) {
	d, ok := p.lookup(name)
	if !ok || d.kind != singleString {
		return "", false
	}
	return d.str, true
}

// VectorReal returns the Real vector or Real series stored under name.
// The result aliases pool storage.
func (p *Pool) VectorReal(name string) ([]Real, bool) {
	d, ok := p.lookup(name)
	if !ok || (d.kind != singleVectorReal && d.kind != seriesReal) {
		return nil, false
	}
	return d.reals, true
}

// VectorString returns the string vector or string series stored under name.
// The result aliases pool storage.
func (p *Pool) VectorString(name string) ([]string, bool) {
	d, ok := p.lookup(name)
	if !ok || (d.kind != singleVectorString && d.kind != seriesString) {
		return nil, false
	}
	return d.strs, true
}

// VectorRealSeries returns the frames added under name.
func (p *Pool) VectorRealSeries(name string) ([][]Real, bool) {
	d, ok := p.lookup(name)
	if !ok || d.kind != seriesVectorReal {
		return nil, false
	}
	return d.vectors, true
}

// Contains reports whether any descriptor is stored under name.
func (p *Pool) Contains(name string) bool {
	_, ok := p.lookup(name)
	return ok
}

// DescriptorNames returns descriptor names in first-stored order.
func (p *Pool) DescriptorNames() []string {
	return slices.Clone(p.order)
}

// Len returns the number of descriptors.
func (p *Pool) Len() int {
	return len(p.order)
}

// Remove deletes the descriptor under name. It reports whether one existed.
func (p *Pool) Remove(name string) bool {
	if _, ok := p.lookup(name); !ok {
		return false
	}
	delete(p.descs, name)
	p.order = slices.DeleteFunc(p.order, func(n string) bool { return n == name })
	return true
}

// Clear removes all descriptors.
func (p *Pool) Clear() {
	p.order = nil
	p.descs = nil
}

// Clone returns a deep copy of the pool.
func (p *Pool) Clone() *Pool {
	out := &Pool{}
	for _, name := range p.order {
		out.put(name, p.descs[name].clone())
	}
	return out
}

// Merge copies every descriptor of other into p according to policy.
// On error p may hold the descriptors merged before the failing one.
func (p *Pool) Merge(other *Pool, policy MergePolicy) error {
	if other == nil {
		return nil
	}
	for _, name := range other.order {
		incoming := other.descs[name]
		existing, ok := p.lookup(name)
		if !ok {
			p.put(name, incoming.clone())
			continue
		}
		switch policy {
		case MergeReplace:
			p.put(name, incoming.clone())
		case MergeAppend:
			if existing.kind != incoming.kind {
				return fmt.Errorf("%w: %q holds %s, not %s", ErrDescriptorType, name, existing.kind, incoming.kind)
			}
			if !existing.kind.series() {
				return fmt.Errorf("%w: %q is not a series", ErrMergeConflict, name)
			}
			add := incoming.clone()
			existing.reals = append(existing.reals, add.reals...)
			existing.strs = append(existing.strs, add.strs...)
			existing.vectors = append(existing.vectors, add.vectors...)
		default:
			return fmt.Errorf("%w: %q", ErrMergeConflict, name)
		}
	}
	return nil
}
