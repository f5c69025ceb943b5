package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sigbind.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("db", "", "")
	fs.String("format", "text", "")
	fs.String("preset-dir", "", "")
	fs.Bool("verbose", false, "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Format)
	assert.Empty(t, cfg.DB)
	assert.Empty(t, cfg.File)
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "db: runs.db\nformat: json\npreset_dir: presets\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "runs.db", cfg.DB)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "presets", cfg.PresetDir)
	assert.Equal(t, path, cfg.File)
}

func TestLoad_WorkingDirectoryFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile("sigbind.yaml", []byte("db: local.db\n"), 0o644))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "local.db", cfg.DB)
	assert.Equal(t, "sigbind.yaml", cfg.File)
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "db: file.db\nformat: json\n")
	t.Setenv("SIGBIND_DB", "env.db")

	cfg, err := Load(path, testFlags())
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.DB)
	assert.Equal(t, "json", cfg.Format)

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--db", "flag.db", "--preset-dir", "p"}))
	cfg, err = Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "flag.db", cfg.DB)
	assert.Equal(t, "p", cfg.PresetDir)
}

func TestLoad_Errors(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)

	path := writeConfig(t, "format: xml\n")
	_, err = Load(path, nil)
	assert.ErrorContains(t, err, `invalid format "xml"`)
}
