// Package config reads the tutorial's command line options.
package config

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/vkngwrapper/core/v3/core1_0"
)

type Config struct {
	Width      int
	Height     int
	Fullscreen bool
	Title      string

	Validation bool
	Depth      bool

	VertexShader   string
	FragmentShader string
	Mesh           string

	Polygon string
	Cull    string

	Frames        int
	PipelineCache string
	Info          bool
}

// Default matches the tutorial's fixed window and pipeline settings.
func Default() Config {
	return Config{
		Width:      800,
		Height:     800,
		Title:      "Tutorial Window",
		Validation: true,
		Polygon:    "fill",
		Cull:       "none",
	}
}

// Parse reads args (without the program name). It returns pflag.ErrHelp when help was
// requested; usage has then already been written to output.
func Parse(args []string, output io.Writer) (Config, error) {
	cfg := Default()

	flags := pflag.NewFlagSet("teapot", pflag.ContinueOnError)
	flags.SetOutput(output)

	flags.IntVar(&cfg.Width, "width", cfg.Width, "window width in pixels")
	flags.IntVar(&cfg.Height, "height", cfg.Height, "window height in pixels")
	flags.BoolVar(&cfg.Fullscreen, "fullscreen", cfg.Fullscreen, "use a borderless fullscreen window")
	flags.StringVar(&cfg.Title, "title", cfg.Title, "window title")
	flags.BoolVar(&cfg.Validation, "validation", cfg.Validation, "enable VK_LAYER_KHRONOS_validation and the debug messenger")
	flags.BoolVar(&cfg.Depth, "depth", cfg.Depth, "attach depth buffers and enable depth testing")
	flags.StringVar(&cfg.VertexShader, "vertex-shader", cfg.VertexShader, "WGSL vertex shader source (default: built-in)")
	flags.StringVar(&cfg.FragmentShader, "fragment-shader", cfg.FragmentShader, "WGSL fragment shader source (default: built-in)")
	flags.StringVar(&cfg.Mesh, "mesh", cfg.Mesh, "Wavefront OBJ file to draw instead of the built-in teapot")
	flags.StringVar(&cfg.Polygon, "polygon-mode", cfg.Polygon, "polygon mode: fill or line")
	flags.StringVar(&cfg.Cull, "cull-mode", cfg.Cull, "triangle culling: none, back or front")
	flags.IntVar(&cfg.Frames, "frames", cfg.Frames, "stop after this many frames (0 runs until the window closes)")
	flags.StringVar(&cfg.PipelineCache, "pipeline-cache", cfg.PipelineCache, "pipeline cache file (empty disables the cache)")
	flags.BoolVar(&cfg.Info, "info", cfg.Info, "print the physical device report and exit")

	if err := flags.Parse(args); err != nil {
		return cfg, err
	}
	if flags.NArg() > 0 {
		return cfg, errors.Newf("unexpected arguments: %v", flags.Args())
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Newf("window size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Frames < 0 {
		return errors.Newf("frames must not be negative, got %d", c.Frames)
	}
	if _, err := c.PolygonMode(); err != nil {
		return err
	}
	if _, err := c.CullMode(); err != nil {
		return err
	}
	return nil
}

func (c Config) PolygonMode() (core1_0.PolygonMode, error) {
	switch c.Polygon {
	case "fill":
		return core1_0.PolygonModeFill, nil
	case "line":
		return core1_0.PolygonModeLine, nil
	}
	return core1_0.PolygonModeFill, errors.Newf("unknown polygon mode %q", c.Polygon)
}

func (c Config) CullMode() (core1_0.CullModeFlags, error) {
	switch c.Cull {
	case "none":
		return 0, nil
	case "back":
		return core1_0.CullModeBack, nil
	case "front":
		return core1_0.CullModeFront, nil
	}
	return 0, errors.Newf("unknown cull mode %q", c.Cull)
}

// Aspect is the window's width over its height.
func (c Config) Aspect() float32 {
	return float32(c.Width) / float32(c.Height)
}
