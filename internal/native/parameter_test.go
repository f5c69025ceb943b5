package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParameter_ChecksPayloadType(t *testing.T) {
	p, err := NewParameter(ParamReal, Real(0.5))
	require.NoError(t, err)
	assert.Equal(t, ParamReal, p.Kind())
	assert.Equal(t, Real(0.5), p.Value())

	_, err = NewParameter(ParamReal, 0.5) // float64
	assert.ErrorIs(t, err, ErrParameterKind)

	_, err = NewParameter(ParamInt, 3) // int, not int32
	assert.ErrorIs(t, err, ErrParameterKind)

	_, err = NewParameter(ParamUndefined, nil)
	assert.ErrorIs(t, err, ErrParameterKind)
}

func TestParameter_ToString(t *testing.T) {
	tests := []struct {
		name string
		p    Parameter
		want string
	}{
		{"real", MustParameter(ParamReal, Real(44100)), "44100"},
		{"fraction", MustParameter(ParamReal, Real(0.25)), "0.25"},
		{"string", MustParameter(ParamString, "hann"), "hann"},
		{"bool", MustParameter(ParamBool, false), "false"},
		{"int", MustParameter(ParamInt, int32(-7)), "-7"},
		{"stereo", MustParameter(ParamStereoSample, StereoSample{Left: 1, Right: -1}), "(1, -1)"},
		{"vector real", MustParameter(ParamVectorReal, []Real{1, 2.5}), "[1, 2.5]"},
		{"vector string", MustParameter(ParamVectorString, []string{"a", "b"}), "[a, b]"},
		{"empty vector", MustParameter(ParamVectorInt, []int32{}), "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.p.ToString()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParameter_ToStringUnsupported(t *testing.T) {
	for _, p := range []Parameter{
		{},
		MustParameter(ParamMapReal, map[string]Real{"a": 1}),
		MustParameter(ParamMatrixReal, NewArray2D(2, 2)),
		MustParameter(ParamVectorVectorReal, [][]Real{{1}}),
	} {
		_, err := p.ToString()
		assert.ErrorIs(t, err, ErrNotStringable, p.Kind().String())
	}
}

func TestParamAs(t *testing.T) {
	p := MustParameter(ParamVectorReal, []Real{1, 2})

	v, err := ParamAs[[]Real](p)
	require.NoError(t, err)
	assert.Equal(t, []Real{1, 2}, v)

	_, err = ParamAs[string](p)
	assert.ErrorIs(t, err, ErrParameterKind)
}

func TestParameterMap_LastWriteWinsKeepsPosition(t *testing.T) {
	m := NewParameterMap()
	m.Add("a", MustParameter(ParamReal, Real(1)))
	m.Add("b", MustParameter(ParamReal, Real(2)))
	m.Add("a", MustParameter(ParamReal, Real(3)))

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	assert.Equal(t, 2, m.Len())
	p, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, Real(3), p.Value())
}

func TestParameterMap_Nil(t *testing.T) {
	var m *ParameterMap
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Keys())
	_, ok := m.Get("x")
	assert.False(t, ok)
}

func TestParamKind_String(t *testing.T) {
	assert.Equal(t, "VECTOR_MATRIX_REAL", ParamVectorMatrixReal.String())
	assert.Equal(t, "ParamKind(99)", ParamKind(99).String())
}
