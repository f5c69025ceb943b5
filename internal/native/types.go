package native

import "fmt"

// Real is the library's floating point sample type.
type Real = float32

// StereoSample is one left/right frame of a two-channel signal.
type StereoSample struct {
	Left  Real
	Right Real
}

// Array2D is a dense row-major matrix of Real.
type Array2D struct {
	Rows int
	Cols int
	Data []Real
}

// NewArray2D allocates a zeroed rows x cols matrix.
func NewArray2D(rows, cols int) Array2D {
	return Array2D{Rows: rows, Cols: cols, Data: make([]Real, rows*cols)}
}

// At returns the element at row i, column j.
func (a Array2D) At(i, j int) Real {
	return a.Data[i*a.Cols+j]
}

// Clone returns a deep copy of the matrix.
func (a Array2D) Clone() Array2D {
	out := Array2D{Rows: a.Rows, Cols: a.Cols}
	if a.Data != nil {
		out.Data = append([]Real(nil), a.Data...)
	}
	return out
}

// TensorRank is the fixed number of dimensions of a Tensor.
const TensorRank = 4

// Tensor is a dense 4-dimensional block of Real in row-major order.
type Tensor struct {
	Shape [TensorRank]int
	Data  []Real
}

// Size returns the element count implied by the shape.
func (t Tensor) Size() int {
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// Clone returns a deep copy of the tensor.
func (t Tensor) Clone() Tensor {
	out := Tensor{Shape: t.Shape}
	if t.Data != nil {
		out.Data = append([]Real(nil), t.Data...)
	}
	return out
}

func (t Tensor) String() string {
	return fmt.Sprintf("Tensor%v[%d]", t.Shape, len(t.Data))
}
