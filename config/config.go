// Package config loads the viewer configuration from a JSON file and
// reloads it when the file changes.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"portal-engine/portal"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Window holds the window settings.
type Window struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Title      string `json:"title"`
	VSync      bool   `json:"vsync"`
	Fullscreen bool   `json:"fullscreen"`
}

// Config is the top-level structure of the configuration file
type Config struct {
	Window Window        `json:"window"`
	Portal portal.Config `json:"portal"`
	// FOV is the horizontal field of view in degrees.
	FOV float64 `json:"fov"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Window: Window{
			Width:  1280,
			Height: 720,
			Title:  "Portal View",
			VSync:  true,
		},
		Portal: portal.DefaultConfig(),
		FOV:    90,
	}
}

// Validate rejects values the renderer cannot work with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		return fmt.Errorf("%w: fov %v out of range (0, 180)", ErrInvalid, c.FOV)
	}
	if c.Portal.MirrorRecursions < 0 {
		return fmt.Errorf("%w: negative mirror_recursions %d", ErrInvalid, c.Portal.MirrorRecursions)
	}
	return nil
}

// Load reads a configuration file. Fields missing from the file keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes cfg as indented JSON
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
