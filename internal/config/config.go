// Package config handles renderer configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/voxelgard/internal/voxel"
)

// Renderer variants.
const (
	VariantCubemap = "cubemap"
	VariantFrustum = "frustum"
)

// Config holds all renderer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Scene    SceneConfig    `yaml:"scene"`
	Renderer RendererConfig `yaml:"renderer"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// SceneConfig holds the voxel dataset and octree build settings.
type SceneConfig struct {
	Path            string `yaml:"path"`
	Depth           int    `yaml:"depth"`
	ReplicateMask   int    `yaml:"replicate_mask"`
	ReplicateDepth  int    `yaml:"replicate_depth"`
	DownsampleShift int    `yaml:"downsample_shift"`
	Prune           bool   `yaml:"prune"`
}

// RendererConfig selects the traversal variant and optional background.
type RendererConfig struct {
	Variant       string `yaml:"variant"`
	BackgroundDir string `yaml:"background_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1024,
			Height:     768,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Scene: SceneConfig{
			Path:  "scenes/points.vxl",
			Depth: 20,
		},
		Renderer: RendererConfig{
			Variant: VariantFrustum,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first boot-time configuration error. These are
// fatal: a bad scene dimension or axis setting cannot be recovered from at
// render time.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("invalid screen size %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	if c.Scene.Depth < 1 || c.Scene.Depth > voxel.MaxDepth {
		return fmt.Errorf("scene depth %d outside [1, %d]", c.Scene.Depth, voxel.MaxDepth)
	}
	if c.Scene.ReplicateMask < 0 || c.Scene.ReplicateMask > 7 {
		return fmt.Errorf("replicate mask %d outside [0, 7]", c.Scene.ReplicateMask)
	}
	if c.Scene.ReplicateDepth < 0 {
		return fmt.Errorf("negative replicate depth %d", c.Scene.ReplicateDepth)
	}
	if c.Scene.DownsampleShift < 0 || c.Scene.DownsampleShift >= c.Scene.Depth {
		return fmt.Errorf("downsample shift %d outside [0, %d)", c.Scene.DownsampleShift, c.Scene.Depth)
	}
	switch c.Renderer.Variant {
	case VariantCubemap, VariantFrustum:
	default:
		return fmt.Errorf("unknown renderer variant %q", c.Renderer.Variant)
	}
	return nil
}
