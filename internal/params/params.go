// Package params holds named boundary values destined for an algorithm's
// configuration.
package params

import (
	"errors"
	"fmt"

	"github.com/roach88/sigbind/internal/native"
	"github.com/roach88/sigbind/internal/value"
)

// ErrorCode categorizes parameter set errors.
type ErrorCode string

const (
	// ErrCodeUnsupportedParameterType indicates a shape the native
	// configuration cannot hold.
	ErrCodeUnsupportedParameterType ErrorCode = "UNSUPPORTED_PARAMETER_TYPE"

	// ErrCodeConsumed indicates use of a set after IntoNativeConfig.
	ErrCodeConsumed ErrorCode = "CONSUMED"
)

// Error is a parameter set failure.
type Error struct {
	Code    ErrorCode
	Message string
	Name    string
	Tag     value.Tag
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (parameter=%s)", e.Code, e.Message, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnsupportedParameterType reports whether err rejects a parameter shape.
func IsUnsupportedParameterType(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Code == ErrCodeUnsupportedParameterType
}

// IsConsumed reports whether err is a use-after-consumption error.
func IsConsumed(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Code == ErrCodeConsumed
}

// Set is an insertion-ordered collection of named values. It is consumed by
// IntoNativeConfig and cannot be used afterwards.
type Set struct {
	names    []string
	values   map[string]*value.Value
	consumed bool
}

// New returns an empty set.
func New() *Set {
	return &Set{values: make(map[string]*value.Value)}
}

// Add records v under name. A repeated name keeps its first position and
// takes the new value. The set takes ownership of v.
func (s *Set) Add(name string, v *value.Value) error {
	if s.consumed {
		return &Error{Code: ErrCodeConsumed, Message: "parameter set already consumed", Name: name}
	}
	if _, exists := s.values[name]; !exists {
		s.names = append(s.names, name)
	}
	s.values[name] = v
	return nil
}

// Get returns the value recorded under name.
func (s *Set) Get(name string) (*value.Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Names returns parameter names in insertion order.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of parameters.
func (s *Set) Len() int {
	return len(s.names)
}

// Consumed reports whether IntoNativeConfig has been called.
func (s *Set) Consumed() bool {
	return s.consumed
}

// IntoNativeConfig converts every entry into a native parameter. The set is
// consumed whether or not conversion succeeds. Unsigned and 64-bit integers,
// complex values, tensors and stores have no native parameter kind and fail
// with UNSUPPORTED_PARAMETER_TYPE.
func (s *Set) IntoNativeConfig() (*native.ParameterMap, error) {
	if s.consumed {
		return nil, &Error{Code: ErrCodeConsumed, Message: "parameter set already consumed"}
	}
	s.consumed = true

	pm := native.NewParameterMap()
	for _, name := range s.names {
		v := s.values[name]
		p, err := value.Accept[native.Parameter](v, converter{})
		if err != nil {
			var pe *Error
			if errors.As(err, &pe) {
				pe.Name = name
				return nil, pe
			}
			return nil, fmt.Errorf("parameter %q: %w", name, err)
		}
		pm.Add(name, p)
	}
	s.values = nil
	return pm, nil
}

// converter maps each shape onto a native parameter kind.
type converter struct{}

func param(kind native.ParamKind, v any) (native.Parameter, error) {
	return native.NewParameter(kind, v)
}

func unsupported(t value.Tag) (native.Parameter, error) {
	return native.Parameter{}, &Error{
		Code:    ErrCodeUnsupportedParameterType,
		Message: fmt.Sprintf("%s cannot be used as a parameter", t),
		Tag:     t,
	}
}

func (converter) VisitFloat(x native.Real) (native.Parameter, error) {
	return param(native.ParamReal, x)
}

func (converter) VisitString(x string) (native.Parameter, error) {
	return param(native.ParamString, x)
}

func (converter) VisitBool(x bool) (native.Parameter, error) {
	return param(native.ParamBool, x)
}

func (converter) VisitInt(x int32) (native.Parameter, error) {
	return param(native.ParamInt, x)
}

func (converter) VisitUnsignedInt(uint32) (native.Parameter, error) {
	return unsupported(value.TagUnsignedInt)
}

func (converter) VisitLong(int64) (native.Parameter, error) {
	return unsupported(value.TagLong)
}

func (converter) VisitStereoSample(x native.StereoSample) (native.Parameter, error) {
	return param(native.ParamStereoSample, x)
}

func (converter) VisitComplex(complex64) (native.Parameter, error) {
	return unsupported(value.TagComplex)
}

func (converter) VisitTensorFloat(native.Tensor) (native.Parameter, error) {
	return unsupported(value.TagTensorFloat)
}

func (converter) VisitVectorFloat(x []native.Real) (native.Parameter, error) {
	return param(native.ParamVectorReal, x)
}

func (converter) VisitVectorString(x []string) (native.Parameter, error) {
	return param(native.ParamVectorString, x)
}

func (converter) VisitVectorBool(x []bool) (native.Parameter, error) {
	return param(native.ParamVectorBool, x)
}

func (converter) VisitVectorInt(x []int32) (native.Parameter, error) {
	return param(native.ParamVectorInt, x)
}

func (converter) VisitVectorStereoSample(x []native.StereoSample) (native.Parameter, error) {
	return param(native.ParamVectorStereoSample, x)
}

func (converter) VisitVectorComplex([]complex64) (native.Parameter, error) {
	return unsupported(value.TagVectorComplex)
}

func (converter) VisitVectorVectorFloat(x [][]native.Real) (native.Parameter, error) {
	return param(native.ParamVectorVectorReal, x)
}

func (converter) VisitVectorVectorString(x [][]string) (native.Parameter, error) {
	return param(native.ParamVectorVectorString, x)
}

func (converter) VisitVectorVectorStereoSample(x [][]native.StereoSample) (native.Parameter, error) {
	return param(native.ParamVectorVectorStereoSample, x)
}

func (converter) VisitVectorVectorComplex([][]complex64) (native.Parameter, error) {
	return unsupported(value.TagVectorVectorComplex)
}

func (converter) VisitVectorMatrixFloat(x []native.Array2D) (native.Parameter, error) {
	return param(native.ParamVectorMatrixReal, x)
}

func (converter) VisitMapVectorFloat(x map[string][]native.Real) (native.Parameter, error) {
	return param(native.ParamMapVectorReal, x)
}

func (converter) VisitMapVectorString(x map[string][]string) (native.Parameter, error) {
	return param(native.ParamMapVectorString, x)
}

func (converter) VisitMapVectorInt(x map[string][]int32) (native.Parameter, error) {
	return param(native.ParamMapVectorInt, x)
}

func (converter) VisitMapVectorComplex(map[string][]complex64) (native.Parameter, error) {
	return unsupported(value.TagMapVectorComplex)
}

func (converter) VisitMapFloat(x map[string]native.Real) (native.Parameter, error) {
	return param(native.ParamMapReal, x)
}

func (converter) VisitMatrixFloat(x native.Array2D) (native.Parameter, error) {
	return param(native.ParamMatrixReal, x)
}

func (converter) VisitPool(*native.Pool) (native.Parameter, error) {
	return unsupported(value.TagPool)
}
