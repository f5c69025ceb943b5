package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_ZeroValueUsable(t *testing.T) {
	var p Pool
	assert.Equal(t, 0, p.Len())
	assert.False(t, p.Contains("x"))
	require.NoError(t, p.SetReal("x", 1))
	assert.True(t, p.Contains("x"))
}

func TestPool_SetOverwritesAddAccumulates(t *testing.T) {
	var p Pool
	require.NoError(t, p.SetReal("tempo", 120))
	require.NoError(t, p.SetReal("tempo", 128))
	v, ok := p.Real("tempo")
	require.True(t, ok)
	assert.Equal(t, Real(128), v)

	require.NoError(t, p.AddReal("loudness", 1))
	require.NoError(t, p.AddReal("loudness", 2))
	series, ok := p.VectorReal("loudness")
	require.True(t, ok)
	assert.Equal(t, []Real{1, 2}, series)

	require.NoError(t, p.AddVectorReal("mfcc", []Real{1, 2}))
	require.NoError(t, p.AddVectorReal("mfcc", []Real{3, 4}))
	frames, ok := p.VectorRealSeries("mfcc")
	require.True(t, ok)
	assert.Equal(t, [][]Real{{1, 2}, {3, 4}}, frames)
}

func TestPool_KindConflict(t *testing.T) {
	var p Pool
	require.NoError(t, p.SetString("key", "C"))
	assert.ErrorIs(t, p.SetReal("key", 1), ErrDescriptorType)
	assert.ErrorIs(t, p.AddString("key", "D"), ErrDescriptorType)

	_, ok := p.Real("key")
	assert.False(t, ok)
	s, ok := p.StringValue("key")
	require.True(t, ok)
	assert.Equal(t, "C", s)
}

func TestPool_DescriptorNamesInsertionOrder(t *testing.T) {
	var p Pool
	require.NoError(t, p.SetReal("z", 1))
	require.NoError(t, p.SetString("a", "x"))
	require.NoError(t, p.SetVectorString("m", []string{"q"}))
	require.NoError(t, p.SetReal("z", 2))

	assert.Equal(t, []string{"z", "a", "m"}, p.DescriptorNames())

	assert.True(t, p.Remove("a"))
	assert.False(t, p.Remove("a"))
	assert.Equal(t, []string{"z", "m"}, p.DescriptorNames())

	p.Clear()
	assert.Equal(t, 0, p.Len())
}

func TestPool_SetCopiesInput(t *testing.T) {
	var p Pool
	in := []Real{1, 2, 3}
	require.NoError(t, p.SetVectorReal("v", in))
	in[0] = 99

	got, _ := p.VectorReal("v")
	assert.Equal(t, []Real{1, 2, 3}, got)
}

func TestPool_CloneIsDeep(t *testing.T) {
	var p Pool
	require.NoError(t, p.SetVectorReal("v", []Real{1}))
	require.NoError(t, p.AddVectorReal("f", []Real{1, 2}))

	c := p.Clone()
	require.NoError(t, c.SetVectorReal("v", []Real{5}))
	frames, _ := c.VectorRealSeries("f")
	frames[0][0] = 42
	require.NoError(t, c.SetReal("new", 1))

	v, _ := p.VectorReal("v")
	assert.Equal(t, []Real{1}, v)
	orig, _ := p.VectorRealSeries("f")
	assert.Equal(t, [][]Real{{1, 2}}, orig)
	assert.False(t, p.Contains("new"))
}

func TestPool_Merge(t *testing.T) {
	build := func() (*Pool, *Pool) {
		var a, b Pool
		require.NoError(t, a.SetReal("shared", 1))
		require.NoError(t, a.AddReal("series", 1))
		require.NoError(t, b.SetReal("shared", 2))
		require.NoError(t, b.AddReal("series", 2))
		require.NoError(t, b.SetString("only_b", "x"))
		return &a, &b
	}

	t.Run("strict", func(t *testing.T) {
		a, b := build()
		assert.ErrorIs(t, a.Merge(b, MergeStrict), ErrMergeConflict)
	})

	t.Run("replace", func(t *testing.T) {
		a, b := build()
		require.NoError(t, a.Merge(b, MergeReplace))
		v, _ := a.Real("shared")
		assert.Equal(t, Real(2), v)
		s, _ := a.VectorReal("series")
		assert.Equal(t, []Real{2}, s)
		assert.Equal(t, []string{"shared", "series", "only_b"}, a.DescriptorNames())
	})

	t.Run("append", func(t *testing.T) {
		a, b := build()
		require.True(t, b.Remove("shared"))
		require.NoError(t, a.Merge(b, MergeAppend))
		s, _ := a.VectorReal("series")
		assert.Equal(t, []Real{1, 2}, s)
	})

	t.Run("append single conflicts", func(t *testing.T) {
		a, b := build()
		assert.ErrorIs(t, a.Merge(b, MergeAppend), ErrMergeConflict)
	})

	t.Run("nil", func(t *testing.T) {
		a, _ := build()
		assert.NoError(t, a.Merge(nil, MergeStrict))
	})
}
