package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is where settings are read from when no path is given
const DefaultPath = "~/.config/frustumcull/config.toml"

// Config holds the persistent settings shared by the CLI and the web server.
// Command-line flags override these values.
type Config struct {
	Camera       string `toml:"camera"`        // Reference camera name
	Stride       int    `toml:"stride"`        // Frame sampling stride
	Workers      int    `toml:"workers"`       // Workers per frame (0 = use CPU count)
	SceneFile    string `toml:"scene_file"`    // Scene file name inside a shot directory
	IgnoreMarker string `toml:"ignore_marker"` // Shots containing this file are skipped
	OutputSuffix string `toml:"output_suffix"` // Appended to the scene name for the pruned output
	Color        bool   `toml:"color"`         // Colour terminal summaries
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Camera:       "camRender",
		Stride:       10,
		Workers:      1,
		SceneFile:    "env.yaml",
		IgnoreMarker: "ignoreme.txt",
		OutputSuffix: "_culled",
		Color:        true,
	}
}

// Validate checks the settings are usable
func (c Config) Validate() error {
	if c.Camera == "" {
		return fmt.Errorf("camera must not be empty")
	}
	if c.Stride < 1 {
		return fmt.Errorf("stride must be at least 1, got %d", c.Stride)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.SceneFile == "" {
		return fmt.Errorf("scene_file must not be empty")
	}
	if c.OutputSuffix == "" {
		return fmt.Errorf("output_suffix must not be empty, the pruned scene would overwrite its source")
	}
	return nil
}

// ExpandPath resolves a leading ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	if path == "" {
		path = DefaultPath
	}
	return homedir.Expand(path)
}

// Load reads settings from path. Values missing from the file keep their
// defaults; a missing file yields Default().
func Load(path string) (Config, error) {
	cfg := Default()

	full, err := ExpandPath(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to expand config path %q: %w", path, err)
	}

	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config %s: %w", full, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid config %s: %w", full, err)
	}
	return cfg, nil
}

// Save writes settings to path, creating parent directories as needed
func Save(path string, cfg Config) error {
	full, err := ExpandPath(path)
	if err != nil {
		return fmt.Errorf("failed to expand config path %q: %w", path, err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(full, data, 0644)
}
