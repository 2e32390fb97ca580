package launchpad

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/teapot-tutorial/shaders"
)

func TestGraphicsPipelineConfigSources(t *testing.T) {
	vertex, fragment, err := GraphicsPipelineConfig{}.sources()
	require.NoError(t, err)
	require.Equal(t, shaders.VertexSource, vertex)
	require.Equal(t, shaders.FragmentSource, fragment)

	vertex, fragment, err = GraphicsPipelineConfig{FragmentShaderSource: "inline"}.sources()
	require.NoError(t, err)
	require.Equal(t, shaders.VertexSource, vertex)
	require.Equal(t, "inline", fragment)

	path := filepath.Join(t.TempDir(), "vertex.wgsl")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0o644))

	vertex, _, err = GraphicsPipelineConfig{VertexShaderPath: path, VertexShaderSource: "inline"}.sources()
	require.NoError(t, err)
	require.Equal(t, "from file", vertex)

	_, _, err = GraphicsPipelineConfig{FragmentShaderPath: filepath.Join(t.TempDir(), "missing.wgsl")}.sources()
	require.Error(t, err)
}
