package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample returns one non-default Value per tag.
func sample(t *testing.T, tag Tag) *Value {
	t.Helper()
	switch tag {
	case TagFloat:
		return NewFloat(0.25)
	case TagString:
		return NewString("hann")
	case TagBool:
		return NewBool(true)
	case TagInt:
		return NewInt(-3)
	case TagUnsignedInt:
		return NewUnsignedInt(math.MaxUint32)
	case TagLong:
		return NewLong(math.MinInt64)
	case TagStereoSample:
		return NewStereoSample(StereoSample{Left: 0.5, Right: -0.5})
	case TagComplex:
		return NewComplex(Complex{Real: 1, Imag: -2})
	case TagTensorFloat:
		v, err := NewTensorFloat([]int{1, 2, 1, 2}, []float32{1, 2, 3, 4})
		require.NoError(t, err)
		return v
	case TagVectorFloat:
		return NewVectorFloat([]float32{1, 2, 3})
	case TagVectorString:
		return NewVectorString([]string{"a", "b"})
	case TagVectorBool:
		return NewVectorBool([]bool{true, false})
	case TagVectorInt:
		return NewVectorInt([]int32{1, -1})
	case TagVectorStereoSample:
		return NewVectorStereoSample([]StereoSample{{1, 2}, {3, 4}})
	case TagVectorComplex:
		return NewVectorComplex([]Complex{{1, 2}, {3, 4}})
	case TagVectorVectorFloat:
		return NewVectorVectorFloat([][]float32{{1}, {2, 3}})
	case TagVectorVectorString:
		return NewVectorVectorString([][]string{{"a"}, {}})
	case TagVectorVectorStereoSample:
		return NewVectorVectorStereoSample([][]StereoSample{{{1, 2}}, {{3, 4}, {5, 6}}})
	case TagVectorVectorComplex:
		return NewVectorVectorComplex([][]Complex{{{1, 0}}, {{0, 1}}})
	case TagVectorMatrixFloat:
		return NewVectorMatrixFloat([]MatrixFloat{{Dim1: 1, Dim2: 2, Data: []float32{1, 2}}})
	case TagMapVectorFloat:
		return NewMapVectorFloat([]MapEntryVectorFloat{{Key: "mfcc", Value: []float32{1, 2}}})
	case TagMapVectorString:
		return NewMapVectorString([]MapEntryVectorString{{Key: "tags", Value: []string{"x"}}})
	case TagMapVectorInt:
		return NewMapVectorInt([]MapEntryVectorInt{{Key: "beats", Value: []int32{4}}})
	case TagMapVectorComplex:
		return NewMapVectorComplex([]MapEntryVectorComplex{{Key: "fft", Value: []Complex{{1, 1}}}})
	case TagMapFloat:
		return NewMapFloat([]MapEntryFloat{{Key: "bpm", Value: 120}})
	case TagMatrixFloat:
		return NewMatrixFloat(MatrixFloat{Dim1: 2, Dim2: 2, Data: []float32{1, 2, 3, 4}})
	case TagPool:
		s := NewStore()
		require.NoError(t, s.Set("rhythm.bpm", NewFloat(120)))
		require.NoError(t, s.Set("meta.title", NewString("song")))
		return NewPool(s)
	}
	t.Fatalf("no sample for %s", tag)
	return nil
}

// accessors reads a Value through the accessor matching each tag.
var accessors = map[Tag]func(*Value) (any, error){
	TagFloat:                    func(v *Value) (any, error) { return v.AsFloat() },
	TagString:                   func(v *Value) (any, error) { return v.AsString() },
	TagBool:                     func(v *Value) (any, error) { return v.AsBool() },
	TagInt:                      func(v *Value) (any, error) { return v.AsInt() },
	TagUnsignedInt:              func(v *Value) (any, error) { return v.AsUnsignedInt() },
	TagLong:                     func(v *Value) (any, error) { return v.AsLong() },
	TagStereoSample:             func(v *Value) (any, error) { return v.AsStereoSample() },
	TagComplex:                  func(v *Value) (any, error) { return v.AsComplex() },
	TagTensorFloat:              func(v *Value) (any, error) { return v.AsTensorFloat() },
	TagVectorFloat:              func(v *Value) (any, error) { return v.AsVectorFloat() },
	TagVectorString:             func(v *Value) (any, error) { return v.AsVectorString() },
	TagVectorBool:               func(v *Value) (any, error) { return v.AsVectorBool() },
	TagVectorInt:                func(v *Value) (any, error) { return v.AsVectorInt() },
	TagVectorStereoSample:       func(v *Value) (any, error) { return v.AsVectorStereoSample() },
	TagVectorComplex:            func(v *Value) (any, error) { return v.AsVectorComplex() },
	TagVectorVectorFloat:        func(v *Value) (any, error) { return v.AsVectorVectorFloat() },
	TagVectorVectorString:       func(v *Value) (any, error) { return v.AsVectorVectorString() },
	TagVectorVectorStereoSample: func(v *Value) (any, error) { return v.AsVectorVectorStereoSample() },
	TagVectorVectorComplex:      func(v *Value) (any, error) { return v.AsVectorVectorComplex() },
	TagVectorMatrixFloat:        func(v *Value) (any, error) { return v.AsVectorMatrixFloat() },
	TagMapVectorFloat:           func(v *Value) (any, error) { return v.AsMapVectorFloat() },
	TagMapVectorString:          func(v *Value) (any, error) { return v.AsMapVectorString() },
	TagMapVectorInt:             func(v *Value) (any, error) { return v.AsMapVectorInt() },
	TagMapVectorComplex:         func(v *Value) (any, error) { return v.AsMapVectorComplex() },
	TagMapFloat:                 func(v *Value) (any, error) { return v.AsMapFloat() },
	TagMatrixFloat:              func(v *Value) (any, error) { return v.AsMatrixFloat() },
	TagPool:                     func(v *Value) (any, error) { return v.AsPool() },
}

func TestValue_DataTypeEveryTag(t *testing.T) {
	for _, tag := range AllTags() {
		t.Run(tag.String(), func(t *testing.T) {
			assert.Equal(t, tag, sample(t, tag).DataType())
		})
	}
}

func TestValue_AccessorMismatchAllPairs(t *testing.T) {
	require.Len(t, accessors, len(AllTags()))
	for _, held := range AllTags() {
		v := sample(t, held)
		for _, read := range AllTags() {
			_, err := accessors[read](v)
			if read == held {
				assert.NoError(t, err, "%s via %s", held, read)
				continue
			}
			require.Error(t, err, "%s via %s", held, read)
			assert.True(t, IsTypeMismatch(err), "%s via %s: %v", held, read, err)
		}
	}
}

func TestValue_RoundTripScalars(t *testing.T) {
	f, err := NewFloat(0.1).AsFloat()
	require.NoError(t, err)
	assert.Equal(t, float32(0.1), f)

	s, err := NewString("ünïcode").AsString()
	require.NoError(t, err)
	assert.Equal(t, "ünïcode", s)

	u, err := NewUnsignedInt(math.MaxUint32).AsUnsignedInt()
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), u)

	l, err := NewLong(math.MaxInt64).AsLong()
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), l)

	st, err := NewStereoSample(StereoSample{Left: 1, Right: 2}).AsStereoSample()
	require.NoError(t, err)
	assert.Equal(t, StereoSample{Left: 1, Right: 2}, st)

	c, err := NewComplex(Complex{Real: 3, Imag: 4}).AsComplex()
	require.NoError(t, err)
	assert.Equal(t, Complex{Real: 3, Imag: 4}, c)
}

func TestValue_RoundTripLargeBuffers(t *testing.T) {
	const n = 1 << 16
	floats := make([]float32, n)
	stereo := make([]StereoSample, n)
	cplx := make([]Complex, n)
	for i := range n {
		floats[i] = float32(i) / 7
		stereo[i] = StereoSample{Left: float32(i), Right: -float32(i)}
		cplx[i] = Complex{Real: float32(i), Imag: float32(n - i)}
	}

	gotF, err := NewVectorFloat(floats).AsVectorFloat()
	require.NoError(t, err)
	assert.Equal(t, floats, gotF)

	gotS, err := NewVectorStereoSample(stereo).AsVectorStereoSample()
	require.NoError(t, err)
	assert.Equal(t, stereo, gotS)

	gotC, err := NewVectorComplex(cplx).AsVectorComplex()
	require.NoError(t, err)
	assert.Equal(t, cplx, gotC)

	m := MatrixFloat{Dim1: 256, Dim2: 256, Data: floats}
	gotM, err := NewMatrixFloat(m).AsMatrixFloat()
	require.NoError(t, err)
	assert.Equal(t, m, gotM)

	tv, err := NewTensorFloat([]int{4, 4, 64, 64}, floats)
	require.NoError(t, err)
	gotT, err := tv.AsTensorFloat()
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4, 64, 64}, gotT.Shape)
	assert.Equal(t, floats, gotT.Data)
}

func TestValue_RoundTripNested(t *testing.T) {
	vvs := [][]StereoSample{{{1, 2}}, {}, {{3, 4}, {5, 6}}}
	got, err := NewVectorVectorStereoSample(vvs).AsVectorVectorStereoSample()
	require.NoError(t, err)
	assert.Equal(t, vvs, got)

	vvc := [][]Complex{{{1, 2}, {3, 4}}}
	gotC, err := NewVectorVectorComplex(vvc).AsVectorVectorComplex()
	require.NoError(t, err)
	assert.Equal(t, vvc, gotC)

	ms := []MatrixFloat{{Dim1: 1, Dim2: 3, Data: []float32{1, 2, 3}}, {Dim1: 0, Dim2: 0}}
	gotMs, err := NewVectorMatrixFloat(ms).AsVectorMatrixFloat()
	require.NoError(t, err)
	assert.Equal(t, ms, gotMs)

	mvc, err := NewMapVectorComplex([]MapEntryVectorComplex{{Key: "a", Value: []Complex{{1, 2}}}}).AsMapVectorComplex()
	require.NoError(t, err)
	assert.Equal(t, map[string][]Complex{"a": {{1, 2}}}, mvc)

	mf, err := NewMapFloat([]MapEntryFloat{{Key: "a", Value: 1}, {Key: "a", Value: 2}}).AsMapFloat()
	require.NoError(t, err)
	assert.Equal(t, map[string]float32{"a": 2}, mf, "last entry wins")
}

func TestValue_ConstructorsCopy(t *testing.T) {
	in := []float32{1, 2, 3}
	v := NewVectorFloat(in)
	in[0] = 99
	got, _ := v.AsVectorFloat()
	assert.Equal(t, float32(1), got[0])

	rows := [][]float32{{1, 2}}
	vv := NewVectorVectorFloat(rows)
	rows[0][0] = 99
	gotRows, _ := vv.AsVectorVectorFloat()
	assert.Equal(t, float32(1), gotRows[0][0])

	stereo := []StereoSample{{1, 2}}
	sv := NewVectorStereoSample(stereo)
	stereo[0].Left = 99
	gotStereo, _ := sv.AsVectorStereoSample()
	assert.Equal(t, float32(1), gotStereo[0].Left)
}

func TestValue_ViewsAliasStorage(t *testing.T) {
	v := NewVectorStereoSample([]StereoSample{{1, 2}})
	view, err := v.AsVectorStereoSample()
	require.NoError(t, err)
	view[0].Right = 7

	again, _ := v.AsVectorStereoSample()
	assert.Equal(t, float32(7), again[0].Right)

	owned, err := v.CopyVectorStereoSample()
	require.NoError(t, err)
	owned[0].Right = 8
	again, _ = v.AsVectorStereoSample()
	assert.Equal(t, float32(7), again[0].Right)
}

func TestNewTensorFloat_Rank(t *testing.T) {
	for _, shape := range [][]int{nil, {4}, {1, 2, 3}, {1, 1, 1, 1, 1}} {
		_, err := NewTensorFloat(shape, []float32{1})
		require.Error(t, err)
		assert.Equal(t, ErrCodeInvalidTensorRank, CodeOf(err), "shape %v", shape)
	}
}

func TestNewTensorFloat_SizeMismatch(t *testing.T) {
	_, err := NewTensorFloat([]int{1, 2, 2, 2}, make([]float32, 7))
	assert.Equal(t, ErrCodeSizeMismatch, CodeOf(err))

	_, err = NewTensorFloat([]int{1, -1, 1, -1}, []float32{1})
	assert.Equal(t, ErrCodeSizeMismatch, CodeOf(err))
}

func TestNewMatrixFloat_PanicsOnBadLength(t *testing.T) {
	assert.Panics(t, func() {
		NewMatrixFloat(MatrixFloat{Dim1: 2, Dim2: 3, Data: make([]float32, 5)})
	})
	assert.Panics(t, func() {
		NewVectorMatrixFloat([]MatrixFloat{{Dim1: 1, Dim2: 1}})
	})
	assert.NotPanics(t, func() {
		NewMatrixFloat(MatrixFloat{Dim1: 2, Dim2: 3, Data: make([]float32, 6)})
	})
}

func TestValue_ZeroValuePanics(t *testing.T) {
	assert.PanicsWithValue(t, "value: corrupt payload: zero Value, use a constructor", func() {
		var v Value
		v.DataType()
	})
}

func TestZero_EveryTag(t *testing.T) {
	for _, tag := range AllTags() {
		v, err := Zero(tag)
		require.NoError(t, err, tag.String())
		assert.Equal(t, tag, v.DataType())
	}

	f, _ := Zero(TagFloat)
	x, err := f.AsFloat()
	require.NoError(t, err)
	assert.Zero(t, x)

	vf, _ := Zero(TagVectorFloat)
	xs, err := vf.AsVectorFloat()
	require.NoError(t, err)
	assert.Empty(t, xs)

	p, _ := Zero(TagPool)
	s, err := p.AsPool()
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	_, err = Zero(TagInvalid)
	assert.True(t, IsUnsupported(err))
	_, err = Zero(Tag(99))
	assert.True(t, IsUnsupported(err))
}

func TestValue_CloneIsDeep(t *testing.T) {
	for _, tag := range AllTags() {
		t.Run(tag.String(), func(t *testing.T) {
			v := sample(t, tag)
			c := v.Clone()
			assert.Equal(t, tag, c.DataType())

			want, err := MarshalCanonical(v)
			require.NoError(t, err)
			got, err := MarshalCanonical(c)
			require.NoError(t, err)
			assert.Equal(t, string(want), string(got))
		})
	}

	v := NewVectorVectorFloat([][]float32{{1, 2}})
	c := v.Clone()
	rows, _ := c.AsVectorVectorFloat()
	rows[0][0] = 42
	orig, _ := v.AsVectorVectorFloat()
	assert.Equal(t, float32(1), orig[0][0])
}

func TestValue_AssignWritesInPlace(t *testing.T) {
	v := NewVectorFloat([]float32{1})
	storage := v.Storage().(*[]float32)

	v.Assign(NewVectorFloat([]float32{2, 3}))
	assert.Equal(t, []float32{2, 3}, *storage)

	v.Assign(NewString("x"))
	assert.Equal(t, TagString, v.DataType())
}

func TestValue_PoolViewCachedAndInvalidated(t *testing.T) {
	v := sample(t, TagPool)

	first, err := v.AsPool()
	require.NoError(t, err)
	second, err := v.AsPool()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.False(t, first.Owning())

	replacement := NewStore()
	require.NoError(t, replacement.Set("only", NewFloat(1)))
	v.Assign(NewPool(replacement))

	third, err := v.AsPool()
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, []string{"only"}, third.Keys())
}

func TestValue_CopyPoolIsOwningAndIndependent(t *testing.T) {
	v := sample(t, TagPool)
	c, err := v.CopyPool()
	require.NoError(t, err)
	assert.True(t, c.Owning())
	require.NoError(t, c.Set("extra", NewFloat(1)))

	view, _ := v.AsPool()
	assert.False(t, view.Contains("extra"))
}

func TestCheckLayout(t *testing.T) {
	assert.NoError(t, checkLayout())
}

func TestTag_ParseAndText(t *testing.T) {
	for _, tag := range AllTags() {
		parsed, err := ParseTag(tag.String())
		require.NoError(t, err)
		assert.Equal(t, tag, parsed)
	}
	_, err := ParseTag("Quaternion")
	assert.Equal(t, ErrCodeUnsupportedDataType, CodeOf(err))

	var tag Tag
	require.NoError(t, tag.UnmarshalText([]byte("VectorComplex")))
	assert.Equal(t, TagVectorComplex, tag)
	text, err := TagMatrixFloat.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "MatrixFloat", string(text))
	assert.Len(t, AllTags(), 27)
}
