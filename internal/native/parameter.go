package native

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ParamKind identifies the payload type of a Parameter.
type ParamKind int

const (
	ParamUndefined ParamKind = iota
	ParamReal
	ParamString
	ParamBool
	ParamInt
	ParamStereoSample
	ParamVectorReal
	ParamVectorString
	ParamVectorBool
	ParamVectorInt
	ParamVectorStereoSample
	ParamVectorVectorReal
	ParamVectorVectorString
	ParamVectorVectorStereoSample
	ParamVectorMatrixReal
	ParamMapVectorReal
	ParamMapVectorString
	ParamMapVectorInt
	ParamMapReal
	ParamMatrixReal
)

var paramKindNames = map[ParamKind]string{
	ParamUndefined:                "UNDEFINED",
	ParamReal:                     "REAL",
	ParamString:                   "STRING",
	ParamBool:                     "BOOL",
	ParamInt:                      "INT",
	ParamStereoSample:             "STEREOSAMPLE",
	ParamVectorReal:               "VECTOR_REAL",
	ParamVectorString:             "VECTOR_STRING",
	ParamVectorBool:               "VECTOR_BOOL",
	ParamVectorInt:                "VECTOR_INT",
	ParamVectorStereoSample:       "VECTOR_STEREOSAMPLE",
	ParamVectorVectorReal:         "VECTOR_VECTOR_REAL",
	ParamVectorVectorString:       "VECTOR_VECTOR_STRING",
	ParamVectorVectorStereoSample: "VECTOR_VECTOR_STEREOSAMPLE",
	ParamVectorMatrixReal:         "VECTOR_MATRIX_REAL",
	ParamMapVectorReal:            "MAP_VECTOR_REAL",
	ParamMapVectorString:          "MAP_VECTOR_STRING",
	ParamMapVectorInt:             "MAP_VECTOR_INT",
	ParamMapReal:                  "MAP_REAL",
	ParamMatrixReal:               "MATRIX_REAL",
}

func (k ParamKind) String() string {
	if name, ok := paramKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ParamKind(%d)", int(k))
}

// paramKindTypes is the Go payload type carried by each kind.
var paramKindTypes = map[ParamKind]reflect.Type{
	ParamReal:                     reflect.TypeFor[Real](),
	ParamString:                   reflect.TypeFor[string](),
	ParamBool:                     reflect.TypeFor[bool](),
	ParamInt:                      reflect.TypeFor[int32](),
	ParamStereoSample:             reflect.TypeFor[StereoSample](),
	ParamVectorReal:               reflect.TypeFor[[]Real](),
	ParamVectorString:             reflect.TypeFor[[]string](),
	ParamVectorBool:               reflect.TypeFor[[]bool](),
	ParamVectorInt:                reflect.TypeFor[[]int32](),
	ParamVectorStereoSample:       reflect.TypeFor[[]StereoSample](),
	ParamVectorVectorReal:         reflect.TypeFor[[][]Real](),
	ParamVectorVectorString:       reflect.TypeFor[[][]string](),
	ParamVectorVectorStereoSample: reflect.TypeFor[[][]StereoSample](),
	ParamVectorMatrixReal:         reflect.TypeFor[[]Array2D](),
	ParamMapVectorReal:            reflect.TypeFor[map[string][]Real](),
	ParamMapVectorString:          reflect.TypeFor[map[string][]string](),
	ParamMapVectorInt:             reflect.TypeFor[map[string][]int32](),
	ParamMapReal:                  reflect.TypeFor[map[string]Real](),
	ParamMatrixReal:               reflect.TypeFor[Array2D](),
}

// Parameter is one typed configuration value.
// The zero Parameter has kind ParamUndefined and no payload.
type Parameter struct {
	kind  ParamKind
	value any
}

// NewParameter wraps v as a parameter of the given kind.
// The dynamic type of v must be the kind's payload type.
func NewParameter(kind ParamKind, v any) (Parameter, error) {
	want, ok := paramKindTypes[kind]
	if !ok {
		return Parameter{}, fmt.Errorf("%w: no payload type for %s", ErrParameterKind, kind)
	}
	if got := reflect.TypeOf(v); got != want {
		return Parameter{}, fmt.Errorf("%w: %s expects %s, got %v", ErrParameterKind, kind, want, got)
	}
	return Parameter{kind: kind, value: v}, nil
}

// MustParameter is NewParameter for statically known payloads.
func MustParameter(kind ParamKind, v any) Parameter {
	p, err := NewParameter(kind, v)
	if err != nil {
		panic(err)
	}
	return p
}

// Kind returns the parameter kind.
func (p Parameter) Kind() ParamKind { return p.kind }

// Value returns the raw payload.
func (p Parameter) Value() any { return p.value }

// IsDefined reports whether the parameter carries a payload.
func (p Parameter) IsDefined() bool { return p.kind != ParamUndefined }

// ParamAs returns the payload of p as T.
func ParamAs[T any](p Parameter) (T, error) {
	v, ok := p.value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s does not hold %T", ErrParameterKind, p.kind, zero)
	}
	return v, nil
}

// ToString renders scalar and flat vector parameters the way the library
// prints them in algorithm documentation. Nested, matrix and map kinds have no
// rendering and return ErrNotStringable.
func (p Parameter) ToString() (string, error) {
	switch v := p.value.(type) {
	case Real:
		return formatReal(v), nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case StereoSample:
		return "(" + formatReal(v.Left) + ", " + formatReal(v.Right) + ")", nil
	case []Real:
		return joinList(v, formatReal), nil
	case []string:
		return joinList(v, func(s string) string { return s }), nil
	case []bool:
		return joinList(v, strconv.FormatBool), nil
	case []int32:
		return joinList(v, func(i int32) string { return strconv.FormatInt(int64(i), 10) }), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrNotStringable, p.kind)
	}
}

func formatReal(r Real) string {
	return strconv.FormatFloat(float64(r), 'g', -1, 32)
}

func joinList[T any](items []T, format func(T) string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = format(item)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ParameterMap is an insertion-ordered set of named parameters.
type ParameterMap struct {
	keys   []string
	params map[string]Parameter
}

// NewParameterMap returns an empty map.
func NewParameterMap() *ParameterMap {
	return &ParameterMap{params: make(map[string]Parameter)}
}

// Add records p under name. A repeated name keeps its original position and
// takes the new value.
func (m *ParameterMap) Add(name string, p Parameter) {
	if _, exists := m.params[name]; !exists {
		m.keys = append(m.keys, name)
	}
	m.params[name] = p
}

// Get returns the parameter stored under name.
func (m *ParameterMap) Get(name string) (Parameter, bool) {
	if m == nil {
		return Parameter{}, false
	}
	p, ok := m.params[name]
	return p, ok
}

// Keys returns parameter names in insertion order.
func (m *ParameterMap) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of parameters.
func (m *ParameterMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}
