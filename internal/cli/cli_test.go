package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{"-source", "a", "-generated", "b"}, &out)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "a", cfg.SourceDir)
	assert.Equal(t, "b", cfg.GeneratedDir)
	assert.Equal(t, filepath.Join("b", "convert_times.json"), cfg.RecordFile)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.False(t, cfg.Watch)
	assert.False(t, cfg.CheckOnly)
}

func TestParse_AllFlags(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{
		"-source", "a",
		"-generated", "b",
		"-record", "c/records.json",
		"-watch",
		"-interval", "500ms",
		"-log-format", "json",
		"-log-level", "debug",
	}, &out)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "c/records.json", cfg.RecordFile)
	assert.True(t, cfg.Watch)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_NoArgsPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_Help(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-bogus"}},
		{"bad log format", []string{"-source", "a", "-generated", "b", "-log-format", "xml"}},
		{"bad log level", []string{"-source", "a", "-generated", "b", "-log-level", "loud"}},
		{"check and watch together", []string{"-source", "a", "-generated", "b", "-check", "-watch"}},
		{"source without generated", []string{"-source", "a"}},
		{"missing settings file", []string{"-settings", "nope.hcl"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			_, _, err := Parse(tc.args, &out)
			require.Error(t, err)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}

func TestParse_SettingsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.hcl")
	body := `source_dir    = "from-file/src"
generated_dir = "from-file/gen"
log_level     = "warn"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	t.Run("file fills unset fields", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{"-settings", path}, &out)
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "from-file/src", cfg.SourceDir)
		assert.Equal(t, "from-file/gen", cfg.GeneratedDir)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("flags override the file", func(t *testing.T) {
		var out bytes.Buffer
		cfg, _, err := Parse([]string{"-settings", path, "-source", "cli/src"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "cli/src", cfg.SourceDir)
		assert.Equal(t, "from-file/gen", cfg.GeneratedDir)
	})
}
