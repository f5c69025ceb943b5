package value

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_Shapes(t *testing.T) {
	tests := []struct {
		name string
		v    *Value
		want string
	}{
		{"float", NewFloat(0.1), `{"type":"Float","value":0.1}`},
		{"string nfc", NewString("é"), `{"type":"String","value":"é"}`},
		{"no html escape", NewString("<a&b>"), `{"type":"String","value":"<a&b>"}`},
		{"long", NewLong(math.MaxInt64), `{"type":"Long","value":9223372036854775807}`},
		{"stereo", NewStereoSample(StereoSample{Left: 1, Right: -1}), `{"type":"StereoSample","value":{"left":1,"right":-1}}`},
		{"complex", NewComplex(Complex{Real: 0.5, Imag: 2}), `{"type":"Complex","value":{"imag":2,"real":0.5}}`},
		{"vector", NewVectorFloat([]float32{1, 2.5}), `{"type":"VectorFloat","value":[1,2.5]}`},
		{"map sorted", NewMapFloat([]MapEntryFloat{{"b", 2}, {"a", 1}}), `{"type":"MapFloat","value":{"a":1,"b":2}}`},
		{"matrix", NewMatrixFloat(MatrixFloat{Dim1: 1, Dim2: 2, Data: []float32{1, 2}}), `{"type":"MatrixFloat","value":{"data":[1,2],"shape":[1,2]}}`},
		{"non finite", NewVectorFloat([]float32{float32(math.Inf(1)), float32(math.Inf(-1))}), `{"type":"VectorFloat","value":["Infinity","-Infinity"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonical_PoolKeepsKeyOrder(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set("z", NewFloat(1)))
	require.NoError(t, s.Set("a", NewString("x")))

	got, err := MarshalCanonical(NewPool(s))
	require.NoError(t, err)
	assert.Equal(t,
		`{"type":"Pool","value":[{"key":"z","type":"Float","value":1},{"key":"a","type":"String","value":"x"}]}`,
		string(got))
}

func TestCanonical_RoundTripEveryTag(t *testing.T) {
	for _, tag := range AllTags() {
		t.Run(tag.String(), func(t *testing.T) {
			v := sample(t, tag)
			data, err := MarshalCanonical(v)
			require.NoError(t, err)

			back, err := UnmarshalCanonical(data)
			require.NoError(t, err)
			assert.Equal(t, tag, back.DataType())

			again, err := MarshalCanonical(back)
			require.NoError(t, err)
			assert.Equal(t, string(data), string(again))
		})
	}
}

func TestValue_JSONInterfaces(t *testing.T) {
	type doc struct {
		Out *Value `json:"out"`
	}
	data, err := json.Marshal(doc{Out: NewVectorInt([]int32{1, 2})})
	require.NoError(t, err)
	assert.JSONEq(t, `{"out":{"type":"VectorInt","value":[1,2]}}`, string(data))

	var d doc
	require.NoError(t, json.Unmarshal(data, &d))
	got, err := d.Out.AsVectorInt()
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2}, got)
}

func TestUnmarshalCanonical_NaN(t *testing.T) {
	v, err := UnmarshalCanonical([]byte(`{"type":"Float","value":"NaN"}`))
	require.NoError(t, err)
	f, err := v.AsFloat()
	require.NoError(t, err)
	assert.True(t, math.IsNaN(float64(f)))
}
