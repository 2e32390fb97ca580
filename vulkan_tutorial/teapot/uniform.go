package main

import (
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/vkngwrapper/core/v3/core1_0"
)

// UniformBufferData mirrors the shaders' uniform block: 16 bytes of color followed by a
// column-major 4x4 matrix.
type UniformBufferData struct {
	Color          mgl32.Vec4
	Transformation mgl32.Mat4
}

func DefaultUniformBufferData() UniformBufferData {
	return UniformBufferData{
		Color:          mgl32.Vec4{1, 0.25, 0, 1},
		Transformation: mgl32.Diag4(mgl32.Vec4{1, -1, -1, 1}),
	}
}

func uniformBufferSize() int {
	return binary.Size(UniformBufferData{})
}

// descriptorLayout is binding 0: one uniform buffer read by both shader stages.
func descriptorLayout() []core1_0.DescriptorSetLayoutBinding {
	return []core1_0.DescriptorSetLayoutBinding{
		{
			Binding:         0,
			DescriptorType:  core1_0.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,

			StageFlags: core1_0.StageVertex | core1_0.StageFragment,
		},
	}
}

const (
	descriptorPoolUniformBuffers = 16
	descriptorPoolMaxSets        = 8
)
