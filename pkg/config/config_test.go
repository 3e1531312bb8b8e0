package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultHTTPPort, cfg.HTTPPort)
	assert.Equal(t, DefaultReadTimeout, cfg.ReadTimeout)
	assert.Equal(t, DefaultWriteTimeout, cfg.WriteTimeout)
	require.NoError(t, cfg.Validate())

	delay, err := cfg.Delay()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, delay)

	unit, err := cfg.Unit()
	require.NoError(t, err)
	assert.Equal(t, time.Second, unit)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{"valid", func(c *ServerConfig) {}, ""},
		{"port too low", func(c *ServerConfig) { c.HTTPPort = 0 }, "httpPort"},
		{"port too high", func(c *ServerConfig) { c.HTTPPort = 70000 }, "httpPort"},
		{"negative read timeout", func(c *ServerConfig) { c.ReadTimeout = -1 }, "readTimeout"},
		{"negative write timeout", func(c *ServerConfig) { c.WriteTimeout = -1 }, "writeTimeout"},
		{"bad delay", func(c *ServerConfig) { c.TimeoutDelay = "soon" }, "timeoutDelay"},
		{"negative delay", func(c *ServerConfig) { c.TimeoutDelay = "-5s" }, "timeoutDelay"},
		{"bad unit", func(c *ServerConfig) { c.TimeoutUnit = "a while" }, "timeoutUnit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stubd.yaml")
	content := `
httpPort: 9090
timeoutDelay: 250ms
timeoutUnit: 10ms
logLevel: debug
logFormat: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	// Absent fields keep defaults.
	assert.Equal(t, DefaultReadTimeout, cfg.ReadTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)

	delay, err := cfg.Delay()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, delay)

	unit, err := cfg.Unit()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, unit)
}

func TestLoadFromFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stubd.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"httpPort": 3000}`), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.HTTPPort)
}

func TestLoadFromFileErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("not found", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(dir, "missing.yaml"))
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(path, nil, 0o600))
		_, err := LoadFromFile(path)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{{nope"), 0o600))
		_, err := LoadFromFile(path)
		assert.ErrorIs(t, err, ErrInvalidYAML)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))
		_, err := LoadFromFile(path)
		assert.ErrorIs(t, err, ErrInvalidJSON)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := LoadFromFile(dir)
		assert.Error(t, err)
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := filepath.Join(dir, "badport.yaml")
		require.NoError(t, os.WriteFile(path, []byte("httpPort: -1"), 0o600))
		_, err := LoadFromFile(path)
		assert.Error(t, err)
	})
}
