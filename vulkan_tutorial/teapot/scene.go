package main

import (
	"log"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/teapot-tutorial/launchpad"
	"github.com/vkngwrapper/teapot-tutorial/teapot"
)

var clearColor = core1_0.ClearValueFloat{0.39, 0.58, 0.93, 1.0}

func (app *TutorialApplication) initFramework() error {
	if app.cfg.Depth {
		var err error
		app.depthImages, err = launchpad.CreateDepthImages(app.instanceDriver, app.physicalDevice, app.deviceDriver, app.swapchainExtent, len(app.swapchainImages))
		if err != nil {
			return err
		}
	}

	config := launchpad.SwapchainConfig{
		SwapchainHandle: app.swapchain,
		ImageExtent:     app.swapchainExtent,
	}
	for i, image := range app.swapchainImages {
		composition := launchpad.SwapchainFramebufferComposition{
			ColorAttachmentImageDetails: launchpad.SwapchainImageDetails{
				ImageHandle: image,
				ImageFormat: app.swapchainFormat.Format,
				ImageUsage:  core1_0.ImageUsageColorAttachment,
				ClearValue:  clearColor,
			},
		}
		if app.depthImages != nil {
			composition.DepthAttachmentImageDetails = app.depthImages.Details(i)
		}
		config.SwapchainImages = append(config.SwapchainImages, composition)
	}

	var err error
	app.framework, err = launchpad.Init(launchpad.InitInfo{
		InstanceDriver:    app.instanceDriver,
		PhysicalDevice:    app.physicalDevice,
		DeviceDriver:      app.deviceDriver,
		SwapchainDriver:   app.swapchainDriver,
		Queue:             app.queue,
		QueueFamilyIndex:  app.queueFamilyIndex,
		SwapchainConfig:   config,
		PipelineCachePath: app.cfg.PipelineCache,
	})
	return err
}

func (app *TutorialApplication) createGraphicsPipeline() error {
	polygonMode, err := app.cfg.PolygonMode()
	if err != nil {
		return err
	}
	cullMode, err := app.cfg.CullMode()
	if err != nil {
		return err
	}

	app.pipeline, err = app.framework.CreateGraphicsPipeline(launchpad.GraphicsPipelineConfig{
		VertexShaderPath:           app.cfg.VertexShader,
		FragmentShaderPath:         app.cfg.FragmentShader,
		VertexInputBuffers:         teapot.VertexInputBuffers(),
		InputAttributeDescriptions: teapot.InputAttributeDescriptions(),
		PolygonDrawMode:            polygonMode,
		TriangleCullingMode:        cullMode,
		DescriptorLayout:           descriptorLayout(),
	})
	return err
}

// One uniform buffer per frame in flight, so the CPU never writes a buffer a submitted
// frame may still read.
func (app *TutorialApplication) createUniformBuffers() error {
	for i := 0; i < launchpad.MaxFramesInFlight; i++ {
		buffer, err := app.framework.CreateHostCoherentBufferWithBackingMemory(uniformBufferSize(),
			core1_0.BufferUsageTransferDst|core1_0.BufferUsageUniformBuffer)
		if err != nil {
			return err
		}
		app.uniformBuffers = append(app.uniformBuffers, buffer)

		err = app.framework.CopyDataIntoHostCoherentBuffer(buffer, &app.uniformData)
		if err != nil {
			return err
		}
	}

	return nil
}

func (app *TutorialApplication) createDescriptorSets() error {
	var err error
	app.descriptorPool, _, err = app.deviceDriver.CreateDescriptorPool(nil, core1_0.DescriptorPoolCreateInfo{
		MaxSets: descriptorPoolMaxSets,
		PoolSizes: []core1_0.DescriptorPoolSize{
			{
				Type:            core1_0.DescriptorTypeUniformBuffer,
				DescriptorCount: descriptorPoolUniformBuffers,
			},
		},
	})
	if err != nil {
		return errors.Wrap(err, "create descriptor pool")
	}

	var allocLayouts []core1_0.DescriptorSetLayout
	for range app.uniformBuffers {
		allocLayouts = append(allocLayouts, app.pipeline.DescriptorSetLayout)
	}

	app.descriptorSets, _, err = app.deviceDriver.AllocateDescriptorSets(core1_0.DescriptorSetAllocateInfo{
		DescriptorPool: app.descriptorPool,
		SetLayouts:     allocLayouts,
	})
	if err != nil {
		return errors.Wrap(err, "allocate descriptor sets")
	}

	for i, buffer := range app.uniformBuffers {
		err = app.deviceDriver.UpdateDescriptorSets([]core1_0.WriteDescriptorSet{
			{
				DstSet:          app.descriptorSets[i],
				DstBinding:      0,
				DstArrayElement: 0,

				DescriptorType: core1_0.DescriptorTypeUniformBuffer,

				BufferInfo: []core1_0.DescriptorBufferInfo{
					{
						Buffer: buffer.Buffer,
						Offset: 0,
						Range:  buffer.Size,
					},
				},
			},
		}, nil)
		if err != nil {
			return errors.Wrap(err, "update descriptor set")
		}
	}

	return nil
}

func (app *TutorialApplication) createTeapot() error {
	mesh := teapot.Generate()
	if app.cfg.Mesh != "" {
		var err error
		mesh, err = teapot.LoadOBJ(app.cfg.Mesh)
		if err != nil {
			return err
		}
		mesh.Normalize()
	}
	log.Printf("Drawing %d vertices, %d triangles", len(mesh.Positions), len(mesh.Indices)/3)

	var err error
	app.teapot, err = teapot.CreateGeometryAndBuffers(app.framework, mesh)
	return err
}
