package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "camRender", cfg.Camera)
	assert.Equal(t, 10, cfg.Stride)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, "ignoreme.txt", cfg.IgnoreMarker)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("camera = \"camHero\"\nstride = 5\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "camHero", cfg.Camera)
	assert.Equal(t, 5, cfg.Stride)
	assert.Equal(t, Default().SceneFile, cfg.SceneFile)
	assert.True(t, cfg.Color)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"syntax", "stride = = 3", "failed to parse"},
		{"unknown key", "colour = true", "failed to parse"},
		{"wrong type", "stride = \"ten\"", "failed to parse"},
		{"zero stride", "stride = 0", "stride must be at least 1"},
		{"empty suffix", "output_suffix = \"\"", "output_suffix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			cfg, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
			assert.Equal(t, Default(), cfg)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Camera = "camWitness"
	cfg.Workers = 0
	cfg.Color = false

	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "camWitness"), "got:\n%s", data)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestExpandPath(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	expanded, err := ExpandPath("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "frustumcull", "config.toml"), expanded)

	expanded, err = ExpandPath("/etc/frustumcull.toml")
	require.NoError(t, err)
	assert.Equal(t, "/etc/frustumcull.toml", expanded)
}
