package launchpad

import (
	"log"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/teapot-tutorial/shaders"
)

// GraphicsPipelineConfig describes a pipeline drawing into the framework's render pass.
// A shader path takes precedence over the matching inline source; with neither set the
// embedded tutorial shaders are used.
type GraphicsPipelineConfig struct {
	VertexShaderPath     string
	FragmentShaderPath   string
	VertexShaderSource   string
	FragmentShaderSource string

	VertexInputBuffers         []core1_0.VertexInputBindingDescription
	InputAttributeDescriptions []core1_0.VertexInputAttributeDescription

	PolygonDrawMode     core1_0.PolygonMode
	TriangleCullingMode core1_0.CullModeFlags

	DescriptorLayout []core1_0.DescriptorSetLayoutBinding
}

// Pipeline groups the pipeline with the layouts it was created with.
type Pipeline struct {
	Pipeline            core1_0.Pipeline
	Layout              core1_0.PipelineLayout
	DescriptorSetLayout core1_0.DescriptorSetLayout
}

func (c GraphicsPipelineConfig) sources() (vertex, fragment string, err error) {
	vertexFallback := c.VertexShaderSource
	if vertexFallback == "" {
		vertexFallback = shaders.VertexSource
	}
	fragmentFallback := c.FragmentShaderSource
	if fragmentFallback == "" {
		fragmentFallback = shaders.FragmentSource
	}

	vertex, err = shaders.Load(c.VertexShaderPath, vertexFallback)
	if err != nil {
		return "", "", err
	}
	fragment, err = shaders.Load(c.FragmentShaderPath, fragmentFallback)
	if err != nil {
		return "", "", err
	}
	return vertex, fragment, nil
}

// CreateGraphicsPipeline compiles the configured shaders and builds the descriptor set layout,
// pipeline layout and pipeline.
func (f *Framework) CreateGraphicsPipeline(config GraphicsPipelineConfig) (*Pipeline, error) {
	vertexSource, fragmentSource, err := config.sources()
	if err != nil {
		return nil, err
	}

	vertexCode, fragmentCode, err := shaders.CompileStages(vertexSource, fragmentSource)
	if err != nil {
		return nil, err
	}

	vertShader, _, err := f.deviceDriver.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: vertexCode,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create vertex shader module")
	}
	defer f.deviceDriver.DestroyShaderModule(vertShader, nil)

	fragShader, _, err := f.deviceDriver.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: fragmentCode,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create fragment shader module")
	}
	defer f.deviceDriver.DestroyShaderModule(fragShader, nil)

	pipeline := &Pipeline{}

	pipeline.DescriptorSetLayout, _, err = f.deviceDriver.CreateDescriptorSetLayout(nil, core1_0.DescriptorSetLayoutCreateInfo{
		Bindings: config.DescriptorLayout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create descriptor set layout")
	}

	pipeline.Layout, _, err = f.deviceDriver.CreatePipelineLayout(nil, core1_0.PipelineLayoutCreateInfo{
		SetLayouts: []core1_0.DescriptorSetLayout{
			pipeline.DescriptorSetLayout,
		},
	})
	if err != nil {
		f.DestroyGraphicsPipeline(pipeline)
		return nil, errors.Wrap(err, "create pipeline layout")
	}

	vertexInput := &core1_0.PipelineVertexInputStateCreateInfo{
		VertexBindingDescriptions:   config.VertexInputBuffers,
		VertexAttributeDescriptions: config.InputAttributeDescriptions,
	}

	inputAssembly := &core1_0.PipelineInputAssemblyStateCreateInfo{
		Topology:               core1_0.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: false,
	}

	vertStage := core1_0.PipelineShaderStageCreateInfo{
		Stage:  core1_0.StageVertex,
		Module: vertShader,
		Name:   shaders.VertexEntryPoint,
	}

	fragStage := core1_0.PipelineShaderStageCreateInfo{
		Stage:  core1_0.StageFragment,
		Module: fragShader,
		Name:   shaders.FragmentEntryPoint,
	}

	extent := f.config.ImageExtent
	viewport := &core1_0.PipelineViewportStateCreateInfo{
		Viewports: []core1_0.Viewport{
			{
				X:        0,
				Y:        0,
				Width:    float32(extent.Width),
				Height:   float32(extent.Height),
				MinDepth: 0,
				MaxDepth: 1,
			},
		},
		Scissors: []core1_0.Rect2D{
			{
				Offset: core1_0.Offset2D{X: 0, Y: 0},
				Extent: extent,
			},
		},
	}

	rasterization := &core1_0.PipelineRasterizationStateCreateInfo{
		DepthClampEnable:        false,
		RasterizerDiscardEnable: false,

		PolygonMode: config.PolygonDrawMode,
		CullMode:    config.TriangleCullingMode,
		FrontFace:   core1_0.FrontFaceCounterClockwise,

		DepthBiasEnable: false,

		LineWidth: 1.0,
	}

	multisample := &core1_0.PipelineMultisampleStateCreateInfo{
		SampleShadingEnable:  false,
		RasterizationSamples: core1_0.Samples1,
		MinSampleShading:     1.0,
	}

	var depthStencil *core1_0.PipelineDepthStencilStateCreateInfo
	if f.config.HasDepth() {
		depthStencil = &core1_0.PipelineDepthStencilStateCreateInfo{
			DepthTestEnable:  true,
			DepthWriteEnable: true,
			DepthCompareOp:   core1_0.CompareOpLess,
		}
	}

	colorBlend := &core1_0.PipelineColorBlendStateCreateInfo{
		LogicOpEnabled: false,
		LogicOp:        core1_0.LogicOpCopy,

		BlendConstants: [4]float32{0, 0, 0, 0},
		Attachments: []core1_0.PipelineColorBlendAttachmentState{
			{
				BlendEnabled:   false,
				ColorWriteMask: core1_0.ColorComponentRed | core1_0.ColorComponentGreen | core1_0.ColorComponentBlue | core1_0.ColorComponentAlpha,
			},
		},
	}

	// Roughly how long creation took, to see what the pipeline cache buys
	start := hrtime.Now()
	pipelines, _, err := f.deviceDriver.CreateGraphicsPipelines(f.pipelineCacheHandle(), nil,
		core1_0.GraphicsPipelineCreateInfo{
			Stages: []core1_0.PipelineShaderStageCreateInfo{
				vertStage,
				fragStage,
			},
			VertexInputState:   vertexInput,
			InputAssemblyState: inputAssembly,
			ViewportState:      viewport,
			RasterizationState: rasterization,
			MultisampleState:   multisample,
			DepthStencilState:  depthStencil,
			ColorBlendState:    colorBlend,
			Layout:             pipeline.Layout,
			RenderPass:         f.renderPass,
			Subpass:            0,
			BasePipelineIndex:  -1,
		},
	)
	if err != nil {
		f.DestroyGraphicsPipeline(pipeline)
		return nil, errors.Wrap(err, "create graphics pipeline")
	}
	pipeline.Pipeline = pipelines[0]
	log.Printf("vkCreateGraphicsPipelines: %s (cache: %t)", hrtime.Since(start), f.pipelineCache.Initialized())

	return pipeline, nil
}

// DestroyGraphicsPipeline releases the pipeline and both of its layouts.
func (f *Framework) DestroyGraphicsPipeline(pipeline *Pipeline) {
	if pipeline == nil {
		return
	}

	if pipeline.Pipeline.Initialized() {
		f.deviceDriver.DestroyPipeline(pipeline.Pipeline, nil)
		pipeline.Pipeline = core1_0.Pipeline{}
	}
	if pipeline.Layout.Initialized() {
		f.deviceDriver.DestroyPipelineLayout(pipeline.Layout, nil)
		pipeline.Layout = core1_0.PipelineLayout{}
	}
	if pipeline.DescriptorSetLayout.Initialized() {
		f.deviceDriver.DestroyDescriptorSetLayout(pipeline.DescriptorSetLayout, nil)
		pipeline.DescriptorSetLayout = core1_0.DescriptorSetLayout{}
	}
}
