package value

import (
	"fmt"

	"github.com/roach88/sigbind/internal/native"
)

// Visitor receives a Value's payload in native form, one method per shape.
// Arguments alias the Value's storage and must not be retained past the call.
type Visitor[R any] interface {
	VisitFloat(native.Real) (R, error)
	VisitString(string) (R, error)
	VisitBool(bool) (R, error)
	VisitInt(int32) (R, error)
	VisitUnsignedInt(uint32) (R, error)
	VisitLong(int64) (R, error)
	VisitStereoSample(native.StereoSample) (R, error)
	VisitComplex(complex64) (R, error)
	VisitTensorFloat(native.Tensor) (R, error)
	VisitVectorFloat([]native.Real) (R, error)
	VisitVectorString([]string) (R, error)
	VisitVectorBool([]bool) (R, error)
	VisitVectorInt([]int32) (R, error)
	VisitVectorStereoSample([]native.StereoSample) (R, error)
	VisitVectorComplex([]complex64) (R, error)
	VisitVectorVectorFloat([][]native.Real) (R, error)
	VisitVectorVectorString([][]string) (R, error)
	VisitVectorVectorStereoSample([][]native.StereoSample) (R, error)
	VisitVectorVectorComplex([][]complex64) (R, error)
	VisitVectorMatrixFloat([]native.Array2D) (R, error)
	VisitMapVectorFloat(map[string][]native.Real) (R, error)
	VisitMapVectorString(map[string][]string) (R, error)
	VisitMapVectorInt(map[string][]int32) (R, error)
	VisitMapVectorComplex(map[string][]complex64) (R, error)
	VisitMapFloat(map[string]native.Real) (R, error)
	VisitMatrixFloat(native.Array2D) (R, error)
	VisitPool(*native.Pool) (R, error)
}

// Accept dispatches v's payload to the matching Visitor method.
func Accept[R any](v *Value, vis Visitor[R]) (R, error) {
	switch d := v.data.(type) {
	case *native.Real:
		return vis.VisitFloat(*d)
	case *string:
		return vis.VisitString(*d)
	case *bool:
		return vis.VisitBool(*d)
	case *int32:
		return vis.VisitInt(*d)
	case *uint32:
		return vis.VisitUnsignedInt(*d)
	case *int64:
		return vis.VisitLong(*d)
	case *native.StereoSample:
		return vis.VisitStereoSample(*d)
	case *complex64:
		return vis.VisitComplex(*d)
	case *native.Tensor:
		return vis.VisitTensorFloat(*d)
	case *[]native.Real:
		return vis.VisitVectorFloat(*d)
	case *[]string:
		return vis.VisitVectorString(*d)
	case *[]bool:
		return vis.VisitVectorBool(*d)
	case *[]int32:
		return vis.VisitVectorInt(*d)
	case *[]native.StereoSample:
		return vis.VisitVectorStereoSample(*d)
	case *[]complex64:
		return vis.VisitVectorComplex(*d)
	case *[][]native.Real:
		return vis.VisitVectorVectorFloat(*d)
	case *[][]string:
		return vis.VisitVectorVectorString(*d)
	case *[][]native.StereoSample:
		return vis.VisitVectorVectorStereoSample(*d)
	case *[][]complex64:
		return vis.VisitVectorVectorComplex(*d)
	case *[]native.Array2D:
		return vis.VisitVectorMatrixFloat(*d)
	case *map[string][]native.Real:
		return vis.VisitMapVectorFloat(*d)
	case *map[string][]string:
		return vis.VisitMapVectorString(*d)
	case *map[string][]int32:
		return vis.VisitMapVectorInt(*d)
	case *map[string][]complex64:
		return vis.VisitMapVectorComplex(*d)
	case *map[string]native.Real:
		return vis.VisitMapFloat(*d)
	case *native.Array2D:
		return vis.VisitMatrixFloat(*d)
	case *native.Pool:
		return vis.VisitPool(d)
	default:
		panic(fmt.Sprintf("value: unhandled payload %T", v.data))
	}
}

// cloner rebuilds a Value through the copying constructors.
type cloner struct{}

func (cloner) VisitFloat(x native.Real) (*Value, error) { return NewFloat(x), nil }
func (cloner) VisitString(x string) (*Value, error) { return NewString(x), nil }
func (cloner) VisitBool(x bool) (*Value, error) { return NewBool(x), nil }
func (cloner) VisitInt(x int32) (*Value, error) { return NewInt(x), nil }
func (cloner) VisitUnsignedInt(x uint32) (*Value, error) { return NewUnsignedInt(x), nil }
func (cloner) VisitLong(x int64) (*Value, error) { return NewLong(x), nil }
func (cloner) VisitComplex(x complex64) (*Value, error) { return newValue(x), nil }
func (cloner) VisitVectorFloat(x []native.Real) (*Value, error) {
	return NewVectorFloat(x), nil
}
func (cloner) VisitVectorString(x []string) (*Value, error) { return NewVectorString(x), nil }
func (cloner) VisitVectorBool(x []bool) (*Value, error) { return NewVectorBool(x), nil }
func (cloner) VisitVectorInt(x []int32) (*Value, error) { return NewVectorInt(x), nil }

func (cloner) VisitStereoSample(x native.StereoSample) (*Value, error) {
	return newValue(x), nil
}

func (cloner) VisitTensorFloat(x native.Tensor) (*Value, error) {
	return newValue(x.Clone()), nil
}

func (cloner) VisitVectorStereoSample(x []native.StereoSample) (*Value, error) {
	return newValue(cloneSlice(x)), nil
}

func (cloner) VisitVectorComplex(x []complex64) (*Value, error) {
	return newValue(cloneSlice(x)), nil
}

func (cloner) VisitVectorVectorFloat(x [][]native.Real) (*Value, error) {
	return NewVectorVectorFloat(x), nil
}

func (cloner) VisitVectorVectorString(x [][]string) (*Value, error) {
	return NewVectorVectorString(x), nil
}

func (cloner) VisitVectorVectorStereoSample(x [][]native.StereoSample) (*Value, error) {
	return newValue(cloneNested(x)), nil
}

func (cloner) VisitVectorVectorComplex(x [][]complex64) (*Value, error) {
	return newValue(cloneNested(x)), nil
}

func (cloner) VisitVectorMatrixFloat(x []native.Array2D) (*Value, error) {
	out := make([]native.Array2D, len(x))
	for i, m := range x {
		out[i] = m.Clone()
	}
	return newValue(out), nil
}

func (cloner) VisitMapVectorFloat(x map[string][]native.Real) (*Value, error) {
	return newValue(cloneMap(x)), nil
}

func (cloner) VisitMapVectorString(x map[string][]string) (*Value, error) {
	return newValue(cloneMap(x)), nil
}

func (cloner) VisitMapVectorInt(x map[string][]int32) (*Value, error) {
	return newValue(cloneMap(x)), nil
}

func (cloner) VisitMapVectorComplex(x map[string][]complex64) (*Value, error) {
	return newValue(cloneMap(x)), nil
}

func (cloner) VisitMapFloat(x map[string]native.Real) (*Value, error) {
	out := make(map[string]native.Real, len(x))
	for k, f := range x {
		out[k] = f
	}
	return newValue(out), nil
}

func (cloner) VisitMatrixFloat(x native.Array2D) (*Value, error) {
	return newValue(x.Clone()), nil
}

func (cloner) VisitPool(x *native.Pool) (*Value, error) {
	return &Value{data: x.Clone()}, nil
}
