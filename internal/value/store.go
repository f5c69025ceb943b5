package value

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sigbind/internal/native"
)

// MergePolicy re-exports the native pool merge policies.
type MergePolicy = native.MergePolicy

const (
	MergeStrict  = native.MergeStrict
	MergeReplace = native.MergeReplace
	MergeAppend  = native.MergeAppend
)

// Store is the named-value store. It either owns its native pool or views a
// pool owned elsewhere. A view must not outlive the pool's owner.
//
// The native pool only holds floats, strings and flat sequences of either, so
// Set accepts only those four shapes.
type Store struct {
	pool  *native.Pool
	owner bool
}

// NewStore returns an empty owning store.
func NewStore() *Store {
	return &Store{pool: &native.Pool{}, owner: true}
}

// ViewStore returns a non-owning store over p.
func ViewStore(p *native.Pool) *Store {
	return &Store{pool: p}
}

// Owning reports whether the store owns its pool.
func (s *Store) Owning() bool {
	return s.owner
}

// Native returns the backing pool.
func (s *Store) Native() *native.Pool {
	return s.pool
}

// Set stores v under key, overwriting any value of the same shape.
func (s *Store) Set(key string, v *Value) error {
	_, err := Accept[struct{}](v, storeWriter{pool: s.pool, key: key})
	return err
}

// Add appends v to the series under key. Floats, strings and float sequences
// accumulate; every other shape is rejected.
func (s *Store) Add(key string, v *Value) error {
	_, err := Accept[struct{}](v, storeWriter{pool: s.pool, key: key, add: true})
	return err
}

// Get returns the value under key. Shapes are tried in a fixed order: float,
// string, float sequence, string sequence, then float-sequence series.
func (s *Store) Get(key string) (*Value, error) {
	p := s.pool
	if x, ok := p.Real(key); ok {
		return NewFloat(x), nil
	}
	if x, ok := p.StringValue(key); ok {
		return NewString(x), nil
	}
	if x, ok := p.VectorReal(key); ok {
		return NewVectorFloat(x), nil
	}
	if x, ok := p.VectorString(key); ok {
		return NewVectorString(x), nil
	}
	if x, ok := p.VectorRealSeries(key); ok {
		return NewVectorVectorFloat(x), nil
	}
	return nil, &Error{
		Code:    ErrCodeKeyNotFoundOrUnsupported,
		Message: "no supported value under key",
		Key:     key,
	}
}

// Contains reports whether key is present.
func (s *Store) Contains(key string) bool {
	return s.pool.Contains(key)
}

// Keys returns keys in the order they were first stored.
func (s *Store) Keys() []string {
	return s.pool.DescriptorNames()
}

// Len returns the number of keys.
func (s *Store) Len() int {
	return s.pool.Len()
}

// Remove deletes key and reports whether it was present.
func (s *Store) Remove(key string) bool {
	return s.pool.Remove(key)
}

// Merge folds other into s.
func (s *Store) Merge(other *Store, policy MergePolicy) error {
	return s.pool.Merge(other.pool, policy)
}

// Clone returns a new owning store holding a deep copy of s.
func (s *Store) Clone() *Store {
	c := NewStore()
	if err := c.pool.Merge(s.pool, MergeReplace); err != nil {
		// Replace never conflicts into an empty pool.
		panic(fmt.Sprintf("value: clone store: %v", err))
	}
	return c
}

// Release transfers the pool out of the store. An owning store hands over its
// pool and is left empty; a view returns a deep copy and is unchanged.
func (s *Store) Release() *native.Pool {
	if !s.owner {
		return s.pool.Clone()
	}
	p := s.pool
	s.pool = &native.Pool{}
	return p
}

// MarshalYAML renders the store as a tree, splitting keys on dots.
func (s *Store) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range s.Keys() {
		v, err := s.Get(key)
		if err != nil {
			return nil, err
		}
		tree, err := v.Export()
		if err != nil {
			return nil, err
		}
		leaf := &yaml.Node{}
		if err := leaf.Encode(tree); err != nil {
			return nil, fmt.Errorf("encode %q: %w", key, err)
		}
		if err := insertPath(root, strings.Split(key, "."), leaf); err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
	}
	return root, nil
}

var errPathConflict = errors.New("descriptor name is both a value and a namespace")

func insertPath(node *yaml.Node, path []string, leaf *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errPathConflict
	}
	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value != path[0] {
			continue
		}
		if len(path) == 1 {
			return errPathConflict
		}
		return insertPath(node.Content[i+1], path[1:], leaf)
	}
	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: path[0]}
	if len(path) == 1 {
		node.Content = append(node.Content, keyNode, leaf)
		return nil
	}
	child := &yaml.Node{Kind: yaml.MappingNode}
	node.Content = append(node.Content, keyNode, child)
	return insertPath(child, path[1:], leaf)
}

// storeWriter routes the four poolable shapes to the native pool.
type storeWriter struct {
	pool *native.Pool
	key  string
	add  bool
}

func (w storeWriter) reject(t Tag) (struct{}, error) {
	verb := "set"
	if w.add {
		verb = "add"
	}
	return struct{}{}, &Error{
		Code:    ErrCodeUnsupportedStoreValueType,
		Message: fmt.Sprintf("cannot %s %s in a store", verb, t),
		Tag:     t,
		Key:     w.key,
	}
}

func (w storeWriter) done(err error) (struct{}, error) {
	if err != nil {
		return struct{}{}, fmt.Errorf("store key %q: %w", w.key, err)
	}
	return struct{}{}, nil
}

func (w storeWriter) VisitFloat(x native.Real) (struct{}, error) {
	if w.add {
		return w.done(w.pool.AddReal(w.key, x))
	}
	return w.done(w.pool.SetReal(w.key, x))
}

func (w storeWriter) VisitString(x string) (struct{}, error) {
	if w.add {
		return w.done(w.pool.AddString(w.key, x))
	}
	return w.done(w.pool.SetString(w.key, x))
}

func (w storeWriter) VisitVectorFloat(x []native.Real) (struct{}, error) {
	if w.add {
		return w.done(w.pool.AddVectorReal(w.key, x))
	}
	return w.done(w.pool.SetVectorReal(w.key, x))
}

func (w storeWriter) VisitVectorString(x []string) (struct{}, error) {
	if w.add {
		return w.reject(TagVectorString)
	}
	return w.done(w.pool.SetVectorString(w.key, x))
}

func (w storeWriter) VisitBool(bool) (struct{}, error)     { return w.reject(TagBool) }
func (w storeWriter) VisitInt(int32) (struct{}, error)     { return w.reject(TagInt) }
func (w storeWriter) VisitUnsignedInt(uint32) (struct{}, error) {
	return w.reject(TagUnsignedInt)
}
func (w storeWriter) VisitLong(int64) (struct{}, error) { return w.reject(TagLong) }
func (w storeWriter) VisitStereoSample(native.StereoSample) (struct{}, error) {
	return w.reject(TagStereoSample)
}
func (w storeWriter) VisitComplex(complex64) (struct{}, error) { return w.reject(TagComplex) }
func (w storeWriter) VisitTensorFloat(native.Tensor) (struct{}, error) {
	return w.reject(TagTensorFloat)
}
func (w storeWriter) VisitVectorBool([]bool) (struct{}, error) { return w.reject(TagVectorBool) }
func (w storeWriter) VisitVectorInt([]int32) (struct{}, error) { return w.reject(TagVectorInt) }
func (w storeWriter) VisitVectorStereoSample([]native.StereoSample) (struct{}, error) {
	return w.reject(TagVectorStereoSample)
}
func (w storeWriter) VisitVectorComplex([]complex64) (struct{}, error) {
	return w.reject(TagVectorComplex)
}
func (w storeWriter) VisitVectorVectorFloat([][]native.Real) (struct{}, error) {
	return w.reject(TagVectorVectorFloat)
}
func (w storeWriter) VisitVectorVectorString([][]string) (struct{}, error) {
	return w.reject(TagVectorVectorString)
}
func (w storeWriter) VisitVectorVectorStereoSample([][]native.StereoSample) (struct{}, error) {
	return w.reject(TagVectorVectorStereoSample)
}
func (w storeWriter) VisitVectorVectorComplex([][]complex64) (struct{}, error) {
	return w.reject(TagVectorVectorComplex)
}
func (w storeWriter) VisitVectorMatrixFloat([]native.Array2D) (struct{}, error) {
	return w.reject(TagVectorMatrixFloat)
}
func (w storeWriter) VisitMapVectorFloat(map[string][]native.Real) (struct{}, error) {
	return w.reject(TagMapVectorFloat)
}
func (w storeWriter) VisitMapVectorString(map[string][]string) (struct{}, error) {
	return w.reject(TagMapVectorString)
}
func (w storeWriter) VisitMapVectorInt(map[string][]int32) (struct{}, error) {
	return w.reject(TagMapVectorInt)
}
func (w storeWriter) VisitMapVectorComplex(map[string][]complex64) (struct{}, error) {
	return w.reject(TagMapVectorComplex)
}
func (w storeWriter) VisitMapFloat(map[string]native.Real) (struct{}, error) {
	return w.reject(TagMapFloat)
}
func (w storeWriter) VisitMatrixFloat(native.Array2D) (struct{}, error) {
	return w.reject(TagMatrixFloat)
}
func (w storeWriter) VisitPool(*native.Pool) (struct{}, error) { return w.reject(TagPool) }
