package value

import (
	"maps"
	"slices"

	"github.com/roach88/sigbind/internal/native"
)

// payload returns the native storage for tag want, or a TYPE_MISMATCH error.
func payload[T any](v *Value, want Tag) (T, error) {
	if err := v.check(want); err != nil {
		var zero T
		return zero, err
	}
	return *v.data.(*T), nil
}

// AsFloat returns the Float payload.
func (v *Value) AsFloat() (float32, error) { return payload[native.Real](v, TagFloat) }
// AsString returns the String payload.
func (v *Value) AsString() (string, error) { return payload[string](v, TagString) }
// AsBool returns the Bool payload.
func (v *Value) AsBool() (bool, error) { return payload[bool](v, TagBool) }
// AsInt returns the Int payload.
func (v *Value) AsInt() (int32, error) { return payload[int32](v, TagInt) }
// AsUnsignedInt returns the UnsignedInt payload.
func (v *Value) AsUnsignedInt() (uint32, error) { return payload[uint32](v, TagUnsignedInt) }
// AsLong returns the Long payload.
func (v *Value) AsLong() (int64, error) { return payload[int64](v, TagLong) }

// AsStereoSample returns the StereoSample payload.
func (v *Value) AsStereoSample() (StereoSample, error) {
	s, err := payload[native.StereoSample](v, TagStereoSample)
	return StereoSample{Left: s.Left, Right: s.Right}, err
}

// AsComplex returns the Complex payload.
func (v *Value) AsComplex() (Complex, error) {
	c, err := payload[complex64](v, TagComplex)
	return Complex{Real: real(c), Imag: imag(c)}, err
}

// The As accessors below return views over the Value's storage. They are
// valid until the Value is assigned or the storage is written by a compute.

func (v *Value) AsTensorFloat() (TensorFloat, error) {
	t, err := payload[native.Tensor](v, TagTensorFloat)
	if err != nil {
		return TensorFloat{}, err
	}
	return TensorFloat{Shape: t.Shape[:], Data: t.Data}, nil
}

func (v *Value) AsVectorFloat() ([]float32, error) {
	return payload[[]native.Real](v, TagVectorFloat)
}

func (v *Value) AsVectorString() ([]string, error) {
	return payload[[]string](v, TagVectorString)
}

func (v *Value) AsVectorBool() ([]bool, error) {
	return payload[[]bool](v, TagVectorBool)
}

func (v *Value) AsVectorInt() ([]int32, error) {
	return payload[[]int32](v, TagVectorInt)
}

func (v *Value) AsVectorStereoSample() ([]StereoSample, error) {
	s, err := payload[[]native.StereoSample](v, TagVectorStereoSample)
	return stereoView(s), err
}

func (v *Value) AsVectorComplex() ([]Complex, error) {
	c, err := payload[[]complex64](v, TagVectorComplex)
	return complexView(c), err
}

func (v *Value) AsVectorVectorFloat() ([][]float32, error) {
	return payload[[][]native.Real](v, TagVectorVectorFloat)
}

func (v *Value) AsVectorVectorString() ([][]string, error) {
	return payload[[][]string](v, TagVectorVectorString)
}

func (v *Value) AsVectorVectorStereoSample() ([][]StereoSample, error) {
	s, err := payload[[][]native.StereoSample](v, TagVectorVectorStereoSample)
	return mapNested(s, stereoView), err
}

func (v *Value) AsVectorVectorComplex() ([][]Complex, error) {
	c, err := payload[[][]complex64](v, TagVectorVectorComplex)
	return mapNested(c, complexView), err
}

func (v *Value) AsVectorMatrixFloat() ([]MatrixFloat, error) {
	ms, err := payload[[]native.Array2D](v, TagVectorMatrixFloat)
	if err != nil || ms == nil {
		return nil, err
	}
	out := make([]MatrixFloat, len(ms))
	for i, m := range ms {
		out[i] = matrixView(m)
	}
	return out, nil
}

func (v *Value) AsMatrixFloat() (MatrixFloat, error) {
	m, err := payload[native.Array2D](v, TagMatrixFloat)
	return matrixView(m), err
}

func (v *Value) AsMapVectorFloat() (map[string][]float32, error) {
	return payload[map[string][]native.Real](v, TagMapVectorFloat)
}

func (v *Value) AsMapVectorString() (map[string][]string, error) {
	return payload[map[string][]string](v, TagMapVectorString)
}

func (v *Value) AsMapVectorInt() (map[string][]int32, error) {
	return payload[map[string][]int32](v, TagMapVectorInt)
}

func (v *Value) AsMapVectorComplex() (map[string][]Complex, error) {
	m, err := payload[map[string][]complex64](v, TagMapVectorComplex)
	if err != nil || m == nil {
		return nil, err
	}
	out := make(map[string][]Complex, len(m))
	for k, c := range m {
		out[k] = complexView(c)
	}
	return out, nil
}

func (v *Value) AsMapFloat() (map[string]float32, error) {
	return payload[map[string]native.Real](v, TagMapFloat)
}

// AsPool returns a non-owning Store over the Pool payload. The Store is built
// on first use and cached until the Value is assigned.
func (v *Value) AsPool() (*Store, error) {
	if err := v.check(TagPool); err != nil {
		return nil, err
	}
	if v.store == nil {
		v.store = ViewStore(v.pool())
	}
	return v.store, nil
}

func matrixView(m native.Array2D) MatrixFloat {
	return MatrixFloat{Dim1: m.Rows, Dim2: m.Cols, Data: m.Data}
}

// Copy accessors return storage the caller owns.

func (v *Value) CopyVectorFloat() ([]float32, error) {
	x, err := v.AsVectorFloat()
	return slices.Clone(x), err
}

func (v *Value) CopyVectorStereoSample() ([]StereoSample, error) {
	x, err := v.AsVectorStereoSample()
	return slices.Clone(x), err
}

func (v *Value) CopyVectorComplex() ([]Complex, error) {
	x, err := v.AsVectorComplex()
	return slices.Clone(x), err
}

func (v *Value) CopyVectorVectorFloat() ([][]float32, error) {
	x, err := v.AsVectorVectorFloat()
	return cloneNested(x), err
}

func (v *Value) CopyMatrixFloat() (MatrixFloat, error) {
	m, err := v.AsMatrixFloat()
	m.Data = slices.Clone(m.Data)
	return m, err
}

func (v *Value) CopyTensorFloat() (TensorFloat, error) {
	t, err := v.AsTensorFloat()
	t.Shape = slices.Clone(t.Shape)
	t.Data = slices.Clone(t.Data)
	return t, err
}

func (v *Value) CopyMapFloat() (map[string]float32, error) {
	m, err := v.AsMapFloat()
	return maps.Clone(m), err
}

// CopyPool returns an owning deep copy of the Pool payload.
func (v *Value) CopyPool() (*Store, error) {
	s, err := v.AsPool()
	if err != nil {
		return nil, err
	}
	return s.Clone(), nil
}
