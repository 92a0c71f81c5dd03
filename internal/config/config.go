// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	gomath "math"
	"time"

	"github.com/Faultbox/n3mesh-editor/internal/engine/camera"
	"github.com/Faultbox/n3mesh-editor/internal/engine/grid"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Logging LoggingConfig `yaml:"logging"`

	// source is the file the config was read from, if any. Save writes back
	// to it.
	source string
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width    int  `yaml:"width"`
	Height   int  `yaml:"height"`
	VSync    bool `yaml:"vsync"`
	FPSLimit int  `yaml:"fps_limit"`
}

// CameraConfig holds projection and input speed settings.
type CameraConfig struct {
	FOV          float32 `yaml:"fov"` // vertical, degrees
	Near         float32 `yaml:"near"`
	Far          float32 `yaml:"far"`
	ZoomSpeed    float32 `yaml:"zoom_speed"`
	RotateSpeedX float32 `yaml:"rotate_speed_x"`
	RotateSpeedY float32 `yaml:"rotate_speed_y"`
	PanSpeed     float32 `yaml:"pan_speed"`
}

// ViewerConfig holds viewport behavior.
type ViewerConfig struct {
	Wireframe        bool          `yaml:"wireframe"`
	Watch            bool          `yaml:"watch"`
	WatchDebounce    time.Duration `yaml:"watch_debounce"`
	ShowGrid         bool          `yaml:"show_grid"`
	GridSize         float32       `yaml:"grid_size"`
	GridSubdivisions int           `yaml:"grid_subdivisions"`
	LastFile         string        `yaml:"last_file,omitempty"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	Format  string `yaml:"format"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	cam := camera.DefaultSettings()
	g := grid.DefaultConfig()
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Camera: CameraConfig{
			FOV:          45,
			Near:         cam.Near,
			Far:          cam.Far,
			ZoomSpeed:    cam.ZoomSpeed,
			RotateSpeedX: cam.RotateX,
			RotateSpeedY: cam.RotateY,
			PanSpeed:     cam.PanSpeed,
		},
		Viewer: ViewerConfig{
			Watch:            true,
			WatchDebounce:    150 * time.Millisecond,
			ShowGrid:         true,
			GridSize:         g.Size,
			GridSubdivisions: g.Subdivisions,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate reports settings the viewer cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %v must be between 0 and 180 degrees", c.Camera.FOV))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera near/far %v/%v must satisfy 0 < near < far", c.Camera.Near, c.Camera.Far))
	}
	if c.Viewer.ShowGrid && (c.Viewer.GridSize <= 0 || c.Viewer.GridSubdivisions <= 0) {
		errs = append(errs, fmt.Errorf("grid size %v and subdivisions %d must be positive", c.Viewer.GridSize, c.Viewer.GridSubdivisions))
	}
	return errors.Join(errs...)
}

// CameraSettings converts the camera section for the camera rig.
func (c *Config) CameraSettings() camera.Settings {
	return camera.Settings{
		FOV:       c.Camera.FOV * gomath.Pi / 180,
		Near:      c.Camera.Near,
		Far:       c.Camera.Far,
		ZoomSpeed: c.Camera.ZoomSpeed,
		RotateX:   c.Camera.RotateSpeedX,
		RotateY:   c.Camera.RotateSpeedY,
		PanSpeed:  c.Camera.PanSpeed,
	}
}

// GridConfig returns the grid extent.
func (c *Config) GridConfig() grid.Config {
	return grid.Config{Size: c.Viewer.GridSize, Subdivisions: c.Viewer.GridSubdivisions}
}
