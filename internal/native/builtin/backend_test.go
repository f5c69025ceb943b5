package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sigbind/internal/native"
)

func bind(t *testing.T, a native.Algorithm, inputs, outputs map[string]any) {
	t.Helper()
	for name, ptr := range inputs {
		s, err := a.Input(name)
		require.NoError(t, err)
		require.NoError(t, s.Bind(ptr))
	}
	for name, ptr := range outputs {
		s, err := a.Output(name)
		require.NoError(t, err)
		require.NoError(t, s.Bind(ptr))
	}
}

func create(t *testing.T, name string) native.Algorithm {
	t.Helper()
	b := New()
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Shutdown() })
	a, err := b.Factory().Create(name)
	require.NoError(t, err)
	return a
}

func TestBackend_Lifecycle(t *testing.T) {
	b := New()
	f := b.Factory()

	_, err := f.Create("Mean")
	assert.ErrorIs(t, err, native.ErrNotInitialized)
	assert.Nil(t, f.Keys())
	assert.ErrorIs(t, b.Shutdown(), native.ErrNotInitialized)

	require.NoError(t, b.Init())
	assert.Error(t, b.Init())
	assert.Equal(t, []string{"Energy", "FrameCutter", "Magnitude", "Mean", "RMS", "Scale", "StereoDemuxer", "Summary"}, f.Keys())

	info, err := f.Info("Scale")
	require.NoError(t, err)
	assert.Equal(t, "Standard", info.Category)

	require.NoError(t, b.Shutdown())
	_, err = f.Info("Scale")
	assert.ErrorIs(t, err, native.ErrNotInitialized)
}

func TestMeanEnergyRMS(t *testing.T) {
	x := []native.Real{1, 2, 3, 4}

	var mean, energy, rms native.Real
	m := create(t, "Mean")
	bind(t, m, map[string]any{"array": &x}, map[string]any{"mean": &mean})
	require.NoError(t, m.Compute())
	assert.Equal(t, native.Real(2.5), mean)

	e := create(t, "Energy")
	bind(t, e, map[string]any{"array": &x}, map[string]any{"energy": &energy})
	require.NoError(t, e.Compute())
	assert.Equal(t, native.Real(30), energy)

	r := create(t, "RMS")
	bind(t, r, map[string]any{"array": &x}, map[string]any{"rms": &rms})
	require.NoError(t, r.Compute())
	assert.InDelta(t, 2.7386, rms, 1e-4)

	empty := []native.Real{}
	bind(t, m, map[string]any{"array": &empty}, nil)
	assert.Error(t, m.Compute())
}

func TestScale(t *testing.T) {
	a := create(t, "Scale")
	in := []native.Real{0.01, 0.5, -0.5}
	var out []native.Real
	bind(t, a, map[string]any{"signal": &in}, map[string]any{"signal": &out})

	require.NoError(t, a.Configure(native.NewParameterMap()))
	require.NoError(t, a.Compute())
	assert.InDeltaSlice(t, []native.Real{0.1, 1, -1}, out, 1e-6)

	pm := native.NewParameterMap()
	pm.Add("factor", native.MustParameter(native.ParamReal, native.Real(2)))
	pm.Add("clipping", native.MustParameter(native.ParamBool, false))
	require.NoError(t, a.Configure(pm))
	require.NoError(t, a.Compute())
	assert.InDeltaSlice(t, []native.Real{0.02, 1, -1}, out, 1e-6)

	pm = native.NewParameterMap()
	pm.Add("factor", native.MustParameter(native.ParamReal, native.Real(-1)))
	assert.Error(t, a.Configure(pm))
}

func TestStereoDemuxer(t *testing.T) {
	a := create(t, "StereoDemuxer")
	audio := []native.StereoSample{{Left: 1, Right: 2}, {Left: 3, Right: 4}}
	var left, right []native.Real
	bind(t, a, map[string]any{"audio": &audio}, map[string]any{"left": &left, "right": &right})

	require.NoError(t, a.Compute())
	assert.Equal(t, []native.Real{1, 3}, left)
	assert.Equal(t, []native.Real{2, 4}, right)
}

func TestFrameCutter(t *testing.T) {
	a := create(t, "FrameCutter")
	pm := native.NewParameterMap()
	pm.Add("frameSize", native.MustParameter(native.ParamInt, int32(4)))
	pm.Add("hopSize", native.MustParameter(native.ParamInt, int32(3)))
	require.NoError(t, a.Configure(pm))

	signal := []native.Real{1, 2, 3, 4, 5, 6, 7}
	var frames [][]native.Real
	bind(t, a, map[string]any{"signal": &signal}, map[string]any{"frames": &frames})

	require.NoError(t, a.Compute())
	assert.Equal(t, [][]native.Real{{1, 2, 3, 4}, {4, 5, 6, 7}, {7, 0, 0, 0}}, frames)

	pm = native.NewParameterMap()
	pm.Add("hopSize", native.MustParameter(native.ParamInt, int32(0)))
	assert.Error(t, a.Configure(pm))
}

func TestMagnitude(t *testing.T) {
	a := create(t, "Magnitude")
	in := []complex64{complex(3, 4), complex(0, -2)}
	var out []native.Real
	bind(t, a, map[string]any{"complex": &in}, map[string]any{"magnitude": &out})

	require.NoError(t, a.Compute())
	assert.Equal(t, []native.Real{5, 2}, out)
}

func TestSummary_HistoryUntilReset(t *testing.T) {
	a := create(t, "Summary")
	pm := native.NewParameterMap()
	pm.Add("namespace", native.MustParameter(native.ParamString, "stats"))
	pm.Add("extra", native.MustParameter(native.ParamMapReal, map[string]native.Real{"version": 2}))
	require.NoError(t, a.Configure(pm))

	x := []native.Real{1, 3}
	var pool native.Pool
	bind(t, a, map[string]any{"array": &x}, map[string]any{"pool": &pool})

	require.NoError(t, a.Compute())
	x = []native.Real{5, 7}
	require.NoError(t, a.Compute())

	mean, ok := pool.Real("stats.mean")
	require.True(t, ok)
	assert.Equal(t, native.Real(6), mean)
	rng, _ := pool.VectorReal("stats.range")
	assert.Equal(t, []native.Real{5, 7}, rng)
	history, _ := pool.VectorReal("stats.history")
	assert.Equal(t, []native.Real{2, 6}, history)
	version, _ := pool.Real("stats.version")
	assert.Equal(t, native.Real(2), version)
	name, _ := pool.StringValue("stats.algorithm")
	assert.Equal(t, "Summary", name)

	a.Reset()
	require.NoError(t, a.Compute())
	history, _ = pool.VectorReal("stats.history")
	assert.Equal(t, []native.Real{6}, history)
}
