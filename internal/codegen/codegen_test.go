package codegen

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/roach88/sigbind/internal/algorithm"
	"github.com/roach88/sigbind/internal/native/builtin"
	"github.com/roach88/sigbind/internal/registry"
	"github.com/roach88/sigbind/internal/value"
)

// generated is the committed output of go generate in internal/algorithms.
const generated = "../algorithms"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func builtinFiles(t *testing.T) []File {
	t.Helper()
	reg, err := registry.Open(builtin.New())
	require.NoError(t, err)
	defer func() { require.NoError(t, reg.Close()) }()

	ins, err := Describe(reg)
	require.NoError(t, err)
	require.Len(t, ins, 8)
	files, err := Generate(ins)
	require.NoError(t, err)
	return files
}

// Run with -update to regenerate the committed bindings.
func TestGenerate_Golden(t *testing.T) {
	for _, f := range builtinFiles(t) {
		t.Run(f.Path, func(t *testing.T) {
			dir, file := path.Split(f.Path)
			g := goldie.New(t,
				goldie.WithFixtureDir(filepath.Join(generated, filepath.FromSlash(dir))),
				goldie.WithNameSuffix(".go"),
			)
			g.Assert(t, strings.TrimSuffix(file, ".go"), f.Source)
		})
	}
}

func TestGenerate_NoStaleFiles(t *testing.T) {
	var want []string
	for _, f := range builtinFiles(t) {
		want = append(want, f.Path)
	}

	var got []string
	entries, err := os.ReadDir(generated)
	require.NoError(t, err)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(generated, e.Name()))
		require.NoError(t, err)
		for _, f := range files {
			if strings.HasSuffix(f.Name(), ".go") && !strings.HasSuffix(f.Name(), "_test.go") {
				got = append(got, path.Join(e.Name(), f.Name()))
			}
		}
	}
	assert.ElementsMatch(t, want, got)
}

func TestGenerate_Layout(t *testing.T) {
	files := builtinFiles(t)
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	assert.Equal(t, []string{
		"standard/doc.go",
		"standard/frame_cutter.go",
		"standard/magnitude.go",
		"standard/scale.go",
		"standard/stereo_demuxer.go",
		"statistics/doc.go",
		"statistics/energy.go",
		"statistics/mean.go",
		"statistics/rms.go",
		"statistics/summary.go",
	}, paths)

	for _, f := range files {
		assert.True(t, strings.HasPrefix(string(f.Source), Header+"\n"), f.Path)
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	files := []File{
		{Path: "a/one.go", Source: []byte("package a\n")},
		{Path: "b/two.go", Source: []byte("package b\n")},
	}
	require.NoError(t, Write(dir, files))

	got, err := os.ReadFile(filepath.Join(dir, "b", "two.go"))
	require.NoError(t, err)
	assert.Equal(t, "package b\n", string(got))
}

func TestGoTypes_EveryTag(t *testing.T) {
	for tag := value.TagFloat; tag <= value.TagPool; tag++ {
		g, err := typeFor(tag)
		require.NoError(t, err, tag.String())
		assert.NotEmpty(t, g.In, tag.String())
		assert.Contains(t, g.Wrap, "%s", tag.String())
		assert.NotEmpty(t, g.Out, tag.String())
		assert.True(t, strings.HasPrefix(g.Accessor, "As"), tag.String())
	}

	_, err := typeFor(value.TagInvalid)
	assert.Error(t, err)
}

func TestNames(t *testing.T) {
	tests := []struct {
		in       string
		file     string
		exported string
		argument string
		pkg      string
	}{
		{"FrameCutter", "frame_cutter.go", "FrameCutter", "frameCutter", "framecutter"},
		{"RMS", "rms.go", "RMS", "rMS", "rms"},
		{"MFCC2Bands", "mfcc2_bands.go", "MFCC2Bands", "mFCC2Bands", "mfcc2bands"},
		{"hop-size", "hop_size.go", "HopSize", "hopSize", "hopsize"},
		{"complex", "complex.go", "Complex", "complexValue", "complex"},
		{"value", "value.go", "Value", "valueValue", "value"},
		{"type", "type.go", "Type", "typeValue", "categorytype"},
		{"2D", "2_d.go", "X2D", "x2D", "category2d"},
		{"LoudnessTest", "loudness_test_binding.go", "LoudnessTest", "loudnessTest", "loudnesstest"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.file, fileName(tt.in))
			assert.Equal(t, tt.exported, exported(tt.in))
			assert.Equal(t, tt.argument, argument(tt.in))
			assert.Equal(t, tt.pkg, packageName(tt.in))
		})
	}
}

func TestGenerate_Collisions(t *testing.T) {
	base := func() *algorithm.Introspection {
		return &algorithm.Introspection{
			Name:     "Gain",
			Category: "Standard",
			Inputs:   []algorithm.IOInfo{{Name: "signal", Type: value.TagVectorFloat}},
			Outputs:  []algorithm.IOInfo{{Name: "signal", Type: value.TagVectorFloat}},
		}
	}
	tests := []struct {
		name   string
		mutate func(in *algorithm.Introspection) []*algorithm.Introspection
		errMsg string
	}{
		{
			name: "parameter setters",
			mutate: func(in *algorithm.Introspection) []*algorithm.Introspection {
				in.Parameters = []algorithm.ParameterInfo{
					{Name: "frame-size", Type: value.TagInt},
					{Name: "frameSize", Type: value.TagInt},
				}
				return []*algorithm.Introspection{in}
			},
			errMsg: "method SetFrameSize",
		},
		{
			name: "input arguments",
			mutate: func(in *algorithm.Introspection) []*algorithm.Introspection {
				in.Inputs = append(in.Inputs, algorithm.IOInfo{Name: "Signal", Type: value.TagVectorFloat})
				return []*algorithm.Introspection{in}
			},
			errMsg: "argument signal",
		},
		{
			name: "output getters",
			mutate: func(in *algorithm.Introspection) []*algorithm.Introspection {
				in.Outputs = append(in.Outputs, algorithm.IOInfo{Name: "Signal", Type: value.TagVectorFloat})
				return []*algorithm.Introspection{in}
			},
			errMsg: "method Signal",
		},
		{
			name: "file names",
			mutate: func(in *algorithm.Introspection) []*algorithm.Introspection {
				other := base()
				other.Name = "gain"
				return []*algorithm.Introspection{in, other}
			},
			errMsg: "standard/gain.go",
		},
		{
			name: "unsupported tag",
			mutate: func(in *algorithm.Introspection) []*algorithm.Introspection {
				in.Outputs[0].Type = value.TagInvalid
				return []*algorithm.Introspection{in}
			},
			errMsg: "no Go type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.mutate(base()))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestGenerate_NoValueImportWhenUnused(t *testing.T) {
	files, err := Generate([]*algorithm.Introspection{{
		Name:     "Silence",
		Category: "Standard",
	}})
	require.NoError(t, err)
	require.Len(t, files, 2)
	src := string(files[1].Source)
	assert.Equal(t, "standard/silence.go", files[1].Path)
	assert.NotContains(t, src, "internal/value")
	assert.Contains(t, src, "func (a *Silence) Compute() (*SilenceResult, error)")
	assert.Contains(t, src, "// Compute runs Silence.")
}
