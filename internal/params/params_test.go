package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sigbind/internal/native"
	"github.com/roach88/sigbind/internal/value"
)

func supportedSet(t *testing.T) *Set {
	t.Helper()
	s := New()
	require.NoError(t, s.Add("sampleRate", value.NewFloat(44100)))
	require.NoError(t, s.Add("frameSize", value.NewInt(2048)))
	require.NoError(t, s.Add("normalize", value.NewBool(true)))
	require.NoError(t, s.Add("window", value.NewString("hann")))
	require.NoError(t, s.Add("weights", value.NewVectorFloat([]float32{0.5, 0.5})))
	require.NoError(t, s.Add("bands", value.NewVectorInt([]int32{1, 2})))
	return s
}

func TestSet_AddKeepsOrderLastWriteWins(t *testing.T) {
	s := New()
	require.NoError(t, s.Add("a", value.NewFloat(1)))
	require.NoError(t, s.Add("b", value.NewFloat(2)))
	require.NoError(t, s.Add("a", value.NewString("x")))

	assert.Equal(t, []string{"a", "b"}, s.Names())
	assert.Equal(t, 2, s.Len())
	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, value.TagString, v.DataType())
}

func TestSet_IntoNativeConfig(t *testing.T) {
	pm, err := supportedSet(t).IntoNativeConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"sampleRate", "frameSize", "normalize", "window", "weights", "bands"}, pm.Keys())

	kinds := map[string]native.ParamKind{
		"sampleRate": native.ParamReal,
		"frameSize":  native.ParamInt,
		"normalize":  native.ParamBool,
		"window":     native.ParamString,
		"weights":    native.ParamVectorReal,
		"bands":      native.ParamVectorInt,
	}
	for name, kind := range kinds {
		p, ok := pm.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, kind, p.Kind(), name)
	}

	rate, _ := pm.Get("sampleRate")
	assert.Equal(t, native.Real(44100), rate.Value())
}

func TestSet_IntoNativeConfigRejectsUnsupportedShapes(t *testing.T) {
	tensor, err := value.NewTensorFloat([]int{1, 1, 1, 1}, []float32{1})
	require.NoError(t, err)

	rejected := map[string]*value.Value{
		"unsigned":       value.NewUnsignedInt(1),
		"long":           value.NewLong(1),
		"complex":        value.NewComplex(value.Complex{Real: 1}),
		"vector complex": value.NewVectorComplex([]value.Complex{{Real: 1}}),
		"nested complex": value.NewVectorVectorComplex([][]value.Complex{{{Real: 1}}}),
		"map complex":    value.NewMapVectorComplex(nil),
		"tensor":         tensor,
		"pool":           value.NewPool(value.NewStore()),
	}
	for name, v := range rejected {
		t.Run(name, func(t *testing.T) {
			s := supportedSet(t)
			require.NoError(t, s.Add("bad", v))

			_, err := s.IntoNativeConfig()
			require.Error(t, err)
			assert.True(t, IsUnsupportedParameterType(err), err.Error())
			assert.Contains(t, err.Error(), "parameter=bad")
		})
	}
}

func TestSet_EveryAcceptedShapeMapsToMatchingKind(t *testing.T) {
	s := New()
	require.NoError(t, s.Add("stereo", value.NewStereoSample(value.StereoSample{Left: 1})))
	require.NoError(t, s.Add("vstereo", value.NewVectorStereoSample([]value.StereoSample{{Left: 1}})))
	require.NoError(t, s.Add("vvf", value.NewVectorVectorFloat([][]float32{{1}})))
	require.NoError(t, s.Add("vvs", value.NewVectorVectorString([][]string{{"a"}})))
	require.NoError(t, s.Add("vvstereo", value.NewVectorVectorStereoSample([][]value.StereoSample{{{Left: 1}}})))
	require.NoError(t, s.Add("vmatrix", value.NewVectorMatrixFloat([]value.MatrixFloat{{Dim1: 1, Dim2: 1, Data: []float32{1}}})))
	require.NoError(t, s.Add("mvf", value.NewMapVectorFloat(nil)))
	require.NoError(t, s.Add("mvs", value.NewMapVectorString(nil)))
	require.NoError(t, s.Add("mvi", value.NewMapVectorInt(nil)))
	require.NoError(t, s.Add("mf", value.NewMapFloat(nil)))
	require.NoError(t, s.Add("matrix", value.NewMatrixFloat(value.MatrixFloat{Dim1: 1, Dim2: 1, Data: []float32{1}})))
	require.NoError(t, s.Add("vs", value.NewVectorString([]string{"a"})))
	require.NoError(t, s.Add("vb", value.NewVectorBool([]bool{true})))

	tags := make(map[string]value.Tag, s.Len())
	for _, name := range s.Names() {
		v, _ := s.Get(name)
		tags[name] = v.DataType()
	}

	pm, err := s.IntoNativeConfig()
	require.NoError(t, err)
	for _, name := range pm.Keys() {
		p, _ := pm.Get(name)
		tag, err := value.TagForParamKind(p.Kind())
		require.NoError(t, err)
		assert.Equal(t, tags[name], tag, name)
	}
}

func TestSet_ConsumedOnce(t *testing.T) {
	s := supportedSet(t)
	_, err := s.IntoNativeConfig()
	require.NoError(t, err)
	assert.True(t, s.Consumed())

	_, err = s.IntoNativeConfig()
	assert.True(t, IsConsumed(err))
	assert.True(t, IsConsumed(s.Add("late", value.NewFloat(1))))
}

func TestSet_ConsumedEvenOnFailure(t *testing.T) {
	s := New()
	require.NoError(t, s.Add("bad", value.NewLong(1)))
	_, err := s.IntoNativeConfig()
	require.Error(t, err)
	assert.True(t, s.Consumed())
}
