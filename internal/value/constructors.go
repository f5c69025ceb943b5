package value

import (
	"fmt"
	"maps"
	"slices"

	"github.com/roach88/sigbind/internal/native"
)

// MatrixFloat is the wire form of a dense row-major 2D float matrix.
type MatrixFloat struct {
	Dim1 int
	Dim2 int
	Data []float32 // len(Data) == Dim1*Dim2
}

// TensorFloat is the wire form of a dense float tensor.
type TensorFloat struct {
	Shape []int
	Data  []float32
}

// Map entry wire forms, one per mapping shape.
type (
	MapEntryVectorFloat struct {
		Key   string
		Value []float32
	}
	MapEntryVectorString struct {
		Key   string
		Value []string
	}
	MapEntryVectorInt struct {
		Key   string
		Value []int32
	}
	MapEntryVectorComplex struct {
		Key   string
		Value []Complex
	}
	MapEntryFloat struct {
		Key   string
		Value float32
	}
)

// NewFloat returns a Float value.
func NewFloat(x float32) *Value { return newValue(x) }
// NewString returns a String value.
func NewString(x string) *Value { return newValue(x) }
// NewBool returns a Bool value.
func NewBool(x bool) *Value { return newValue(x) }
// NewInt returns an Int value.
func NewInt(x int32) *Value { return newValue(x) }
// NewUnsignedInt returns an UnsignedInt value.
func NewUnsignedInt(x uint32) *Value { return newValue(x) }
// NewLong returns a Long value.
func NewLong(x int64) *Value { return newValue(x) }

// NewStereoSample returns a StereoSample value.
func NewStereoSample(x StereoSample) *Value {
	return newValue(native.StereoSample{Left: x.Left, Right: x.Right})
}

// NewComplex returns a Complex value.
func NewComplex(x Complex) *Value {
	return newValue(complex(x.Real, x.Imag))
}

// NewTensorFloat copies a tensor. The shape must have exactly four dimensions
// whose product is len(data).
func NewTensorFloat(shape []int, data []float32) (*Value, error) {
	if len(shape) != native.TensorRank {
		return nil, &Error{
			Code:    ErrCodeInvalidTensorRank,
			Message: fmt.Sprintf("tensor shape has %d dimensions, want %d", len(shape), native.TensorRank),
			Tag:     TagTensorFloat,
		}
	}
	t := native.Tensor{Data: slices.Clone(data)}
	for i, d := range shape {
		if d < 0 {
			return nil, &Error{
				Code:    ErrCodeSizeMismatch,
				Message: fmt.Sprintf("tensor dimension %d is negative (%d)", i, d),
				Tag:     TagTensorFloat,
			}
		}
		t.Shape[i] = d
	}
	if t.Size() != len(data) {
		return nil, &Error{
			Code:    ErrCodeSizeMismatch,
			Message: fmt.Sprintf("tensor shape %v holds %d elements, buffer has %d", shape, t.Size(), len(data)),
			Tag:     TagTensorFloat,
		}
	}
	return newValue(t), nil
}

// NewVectorFloat copies x into a VectorFloat value.
func NewVectorFloat(x []float32) *Value { return newValue(slices.Clone(x)) }
// NewVectorString copies x into a VectorString value.
func NewVectorString(x []string) *Value { return newValue(slices.Clone(x)) }
// NewVectorBool copies x into a VectorBool value.
func NewVectorBool(x []bool) *Value { return newValue(slices.Clone(x)) }
// NewVectorInt copies x into a VectorInt value.
func NewVectorInt(x []int32) *Value { return newValue(slices.Clone(x)) }

// NewVectorStereoSample copies x into a VectorStereoSample value. A nil x
// stays nil.
func NewVectorStereoSample(x []StereoSample) *Value {
	if x == nil {
		return newValue([]native.StereoSample(nil))
	}
	return newValue(stereoToNative(x))
}

// NewVectorComplex copies x into a VectorComplex value. A nil x stays nil.
func NewVectorComplex(x []Complex) *Value {
	if x == nil {
		return newValue([]complex64(nil))
	}
	return newValue(complexToNative(x))
}

// NewVectorVectorFloat copies every row; no row aliases x.
func NewVectorVectorFloat(x [][]float32) *Value { return newValue(cloneNested(x)) }

// NewVectorVectorString copies every row of x.
func NewVectorVectorString(x [][]string) *Value { return newValue(cloneNested(x)) }

// NewVectorVectorStereoSample copies every row of x.
func NewVectorVectorStereoSample(x [][]StereoSample) *Value {
	return newValue(mapNested(x, stereoToNative))
}

// NewVectorVectorComplex copies every row of x.
func NewVectorVectorComplex(x [][]Complex) *Value {
	return newValue(mapNested(x, complexToNative))
}

// NewVectorMatrixFloat copies a sequence of matrices. Like NewMatrixFloat it
// panics on a matrix whose buffer length disagrees with its dimensions.
func NewVectorMatrixFloat(x []MatrixFloat) *Value {
	if x == nil {
		return newValue([]native.Array2D(nil))
	}
	out := make([]native.Array2D, len(x))
	for i, m := range x {
		out[i] = matrixToNative(m)
	}
	return newValue(out)
}

// NewMatrixFloat copies a matrix. len(m.Data) must equal m.Dim1*m.Dim2; a
// mismatch is a caller bug and panics.
func NewMatrixFloat(m MatrixFloat) *Value {
	return newValue(matrixToNative(m))
}

func matrixToNative(m MatrixFloat) native.Array2D {
	if m.Dim1 < 0 || m.Dim2 < 0 || len(m.Data) != m.Dim1*m.Dim2 {
		panic(fmt.Sprintf("value: matrix buffer has %d elements, dimensions %dx%d need %d",
			len(m.Data), m.Dim1, m.Dim2, m.Dim1*m.Dim2))
	}
	return native.Array2D{Rows: m.Dim1, Cols: m.Dim2, Data: slices.Clone(m.Data)}
}

// NewMapVectorFloat builds a MapVectorFloat value from a key/value list. Like
// every mapping constructor, a repeated key keeps the last value.
func NewMapVectorFloat(entries []MapEntryVectorFloat) *Value {
	out := make(map[string][]native.Real, len(entries))
	for _, e := range entries {
		out[e.Key] = slices.Clone(e.Value)
	}
	return newValue(out)
}

// NewMapVectorString builds a MapVectorString value from a key/value list.
func NewMapVectorString(entries []MapEntryVectorString) *Value {
	out := make(map[string][]string, len(entries))
	for _, e := range entries {
		out[e.Key] = slices.Clone(e.Value)
	}
	return newValue(out)
}

// NewMapVectorInt builds a MapVectorInt value from a key/value list.
func NewMapVectorInt(entries []MapEntryVectorInt) *Value {
	out := make(map[string][]int32, len(entries))
	for _, e := range entries {
		out[e.Key] = slices.Clone(e.Value)
	}
	return newValue(out)
}

// NewMapVectorComplex builds a MapVectorComplex value from a key/value list.
func NewMapVectorComplex(entries []MapEntryVectorComplex) *Value {
	out := make(map[string][]complex64, len(entries))
	for _, e := range entries {
		out[e.Key] = complexToNative(e.Value)
	}
	return newValue(out)
}

// NewMapFloat builds a MapFloat value from a key/value list.
func NewMapFloat(entries []MapEntryFloat) *Value {
	out := make(map[string]native.Real, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return newValue(out)
}

// NewPool takes the contents of s. An owning s is left empty; a view is
// copied.
func NewPool(s *Store) *Value {
	return &Value{data: s.Release()}
}

func cloneNested[T any](x [][]T) [][]T {
	return mapNested(x, func(row []T) []T { return slices.Clone(row) })
}

func mapNested[From, To any](x [][]From, f func([]From) []To) [][]To {
	if x == nil {
		return nil
	}
	out := make([][]To, len(x))
	for i, row := range x {
		out[i] = f(row)
	}
	return out
}

func cloneSlice[T any](x []T) []T {
	return slices.Clone(x)
}

func cloneMap[T any](x map[string][]T) map[string][]T {
	if x == nil {
		return nil
	}
	out := maps.Clone(x)
	for k, v := range out {
		out[k] = slices.Clone(v)
	}
	return out
}
