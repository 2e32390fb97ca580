package config

import (
	"bytes"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v3/core1_0"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	require.Equal(t, 800, cfg.Width)
	require.Equal(t, 800, cfg.Height)
	require.Equal(t, "Tutorial Window", cfg.Title)
	require.True(t, cfg.Validation)
	require.False(t, cfg.Depth)

	mode, err := cfg.PolygonMode()
	require.NoError(t, err)
	require.Equal(t, core1_0.PolygonModeFill, mode)

	cull, err := cfg.CullMode()
	require.NoError(t, err)
	require.Zero(t, cull)
}

func TestParseFlags(t *testing.T) {
	cfg, err := Parse([]string{
		"--width", "1280", "--height=720",
		"--validation=false", "--depth",
		"--polygon-mode", "line", "--cull-mode", "back",
		"--frames", "10", "--mesh", "teapot.obj",
		"--pipeline-cache", "cache.bin",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	require.Equal(t, 1280, cfg.Width)
	require.Equal(t, 720, cfg.Height)
	require.False(t, cfg.Validation)
	require.True(t, cfg.Depth)
	require.Equal(t, 10, cfg.Frames)
	require.Equal(t, "teapot.obj", cfg.Mesh)
	require.Equal(t, "cache.bin", cfg.PipelineCache)
	require.InDelta(t, 16.0/9.0, cfg.Aspect(), 1e-6)

	mode, err := cfg.PolygonMode()
	require.NoError(t, err)
	require.Equal(t, core1_0.PolygonModeLine, mode)

	cull, err := cfg.CullMode()
	require.NoError(t, err)
	require.Equal(t, core1_0.CullModeBack, cull)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := map[string][]string{
		"zero width":       {"--width", "0"},
		"negative height":  {"--height", "-5"},
		"negative frames":  {"--frames", "-1"},
		"polygon mode":     {"--polygon-mode", "point"},
		"cull mode":        {"--cull-mode", "both"},
		"unknown flag":     {"--no-such-flag"},
		"positional":       {"extra"},
		"malformed number": {"--width", "wide"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(args, &bytes.Buffer{})
			require.Error(t, err)
		})
	}
}

func TestParseHelp(t *testing.T) {
	out := &bytes.Buffer{}
	_, err := Parse([]string{"--help"}, out)
	require.ErrorIs(t, err, pflag.ErrHelp)
	require.Contains(t, out.String(), "--pipeline-cache")
}
