// Package shaders holds the tutorial's WGSL shaders and compiles WGSL to SPIR-V for
// vkCreateShaderModule.
package shaders

import (
	_ "embed"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/naga"
	"golang.org/x/sync/errgroup"
)

// Entry point names the embedded shaders export. Sources loaded from disk must use them too.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

const spirvMagic = 0x07230203

//go:embed vertex.wgsl
var VertexSource string

//go:embed fragment.wgsl
var FragmentSource string

// Load returns the shader source at path, or fallback when path is empty.
func Load(path, fallback string) (string, error) {
	if path == "" {
		return fallback, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "read shader %s", path)
	}
	return string(source), nil
}

// Compile turns WGSL source into SPIR-V words. stage only names the shader in errors.
func Compile(stage, source string) ([]uint32, error) {
	spirv, err := naga.Compile(source)
	if err != nil {
		return nil, errors.Wrapf(err, "compile %s shader", stage)
	}

	code, err := BytesToBytecode(spirv)
	if err != nil {
		return nil, errors.Wrapf(err, "compile %s shader", stage)
	}
	return code, nil
}

// CompileStages compiles the vertex and fragment shaders concurrently.
func CompileStages(vertexSource, fragmentSource string) (vertex, fragment []uint32, err error) {
	var group errgroup.Group

	group.Go(func() error {
		var err error
		vertex, err = Compile("vertex", vertexSource)
		return err
	})
	group.Go(func() error {
		var err error
		fragment, err = Compile("fragment", fragmentSource)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, nil, err
	}
	return vertex, fragment, nil
}

// BytesToBytecode reinterprets little-endian SPIR-V bytes as 32-bit words.
func BytesToBytecode(b []byte) ([]uint32, error) {
	if len(b) < 4 || len(b)%4 != 0 {
		return nil, errors.Newf("SPIR-V length %d is not a positive multiple of 4", len(b))
	}

	byteCode := make([]uint32, len(b)/4)
	for i := 0; i < len(byteCode); i++ {
		byteIndex := i * 4
		byteCode[i] = 0
		byteCode[i] |= uint32(b[byteIndex])
		byteCode[i] |= uint32(b[byteIndex+1]) << 8
		byteCode[i] |= uint32(b[byteIndex+2]) << 16
		byteCode[i] |= uint32(b[byteIndex+3]) << 24
	}

	if byteCode[0] != spirvMagic {
		return nil, errors.Newf("bad SPIR-V magic number %#08x", byteCode[0])
	}
	return byteCode, nil
}
