package teapot

import (
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/teapot-tutorial/launchpad"
)

// Teapot is a mesh uploaded into vertex and index buffers.
type Teapot struct {
	vertexBuffer *launchpad.HostCoherentBuffer
	indexBuffer  *launchpad.HostCoherentBuffer
	indexCount   int
}

// VertexInputBuffers describes the single position-only vertex buffer binding.
func VertexInputBuffers() []core1_0.VertexInputBindingDescription {
	return []core1_0.VertexInputBindingDescription{
		{
			Binding:   0,
			Stride:    binary.Size(mgl32.Vec3{}),
			InputRate: core1_0.VertexInputRateVertex,
		},
	}
}

func InputAttributeDescriptions() []core1_0.VertexInputAttributeDescription {
	return []core1_0.VertexInputAttributeDescription{
		{
			Binding:  0,
			Location: 0,
			Format:   core1_0.FormatR32G32B32SignedFloat,
			Offset:   0,
		},
	}
}

// CreateGeometryAndBuffers uploads mesh into host coherent vertex and index buffers.
func CreateGeometryAndBuffers(fw *launchpad.Framework, mesh Mesh) (*Teapot, error) {
	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	t := &Teapot{indexCount: len(mesh.Indices)}

	var err error
	t.vertexBuffer, err = fw.CreateHostCoherentBufferWithBackingMemory(binary.Size(mesh.Positions), core1_0.BufferUsageVertexBuffer)
	if err != nil {
		return nil, err
	}
	if err := fw.CopyDataIntoHostCoherentBuffer(t.vertexBuffer, mesh.Positions); err != nil {
		t.DestroyBuffers(fw)
		return nil, err
	}

	t.indexBuffer, err = fw.CreateHostCoherentBufferWithBackingMemory(binary.Size(mesh.Indices), core1_0.BufferUsageIndexBuffer)
	if err != nil {
		t.DestroyBuffers(fw)
		return nil, err
	}
	if err := fw.CopyDataIntoHostCoherentBuffer(t.indexBuffer, mesh.Indices); err != nil {
		t.DestroyBuffers(fw)
		return nil, err
	}

	return t, nil
}

// Draw records binding the pipeline, descriptor set and buffers, then one indexed draw.
func (t *Teapot) Draw(fw *launchpad.Framework, cmd core1_0.CommandBuffer, pipeline *launchpad.Pipeline, descriptorSet core1_0.DescriptorSet) {
	driver := fw.DeviceDriver()

	driver.CmdBindPipeline(cmd, core1_0.PipelineBindPointGraphics, pipeline.Pipeline)
	driver.CmdBindDescriptorSets(cmd, core1_0.PipelineBindPointGraphics, pipeline.Layout, 0, []core1_0.DescriptorSet{
		descriptorSet,
	}, nil)
	driver.CmdBindVertexBuffers(cmd, 0, []core1_0.Buffer{t.vertexBuffer.Buffer}, []int{0})
	driver.CmdBindIndexBuffer(cmd, t.indexBuffer.Buffer, 0, core1_0.IndexTypeUInt32)
	driver.CmdDrawIndexed(cmd, t.indexCount, 1, 0, 0, 0)
}

func (t *Teapot) DestroyBuffers(fw *launchpad.Framework) {
	if t == nil {
		return
	}

	fw.DestroyHostCoherentBufferAndItsBackingMemory(t.indexBuffer)
	fw.DestroyHostCoherentBufferAndItsBackingMemory(t.vertexBuffer)
	t.indexBuffer = nil
	t.vertexBuffer = nil
}
