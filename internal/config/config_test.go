package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/vschema/internal/errs"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vschema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
		assert.NoError(t, cfg.Validate())
	}
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
adapter: jdbc
log:
  level: FINE
  format: console
  remote_address: 10.0.0.1:3000
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "jdbc", cfg.Adapter)
	assert.Equal(t, "FINE", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "rfc3339", cfg.Log.TimeFormat, "unset keys keep their defaults")
	assert.Equal(t, "10.0.0.1:3000", cfg.Log.RemoteAddress)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not yaml", content: "log: [unterminated"},
		{name: "bad level", content: "log:\n  level: loud\n"},
		{name: "bad format", content: "log:\n  format: xml\n"},
		{name: "bad time format", content: "log:\n  time_format: iso\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.content))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, errs.IsInvalidConfig(err), "unexpected error: %v", err)
		})
	}
}

func TestLogConfig_Logger(t *testing.T) {
	buf := &bytes.Buffer{}
	lc := LogConfig{Level: "debug", Format: "json", RemoteAddress: "host:1"}.Logger(buf)
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, "host:1", lc.RemoteAddress)
	assert.Same(t, buf, lc.Output)
}

func TestConfig_MarshalRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Adapter = "demo"
	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "adapter: demo")

	loaded, err := Load(writeFile(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
