package main

import (
	"log"

	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	"github.com/vkngwrapper/teapot-tutorial/launchpad"
)

// cleanup releases everything in the reverse order of creation. Run defers it before the
// first step, so anything that was never created is skipped.
func (app *TutorialApplication) cleanup() {
	if app.deviceDriver != nil {
		_, err := app.deviceDriver.DeviceWaitIdle()
		if err != nil {
			log.Printf("wait for device idle: %+v", err)
		}
	}

	if app.framework != nil {
		app.teapot.DestroyBuffers(app.framework)
		app.teapot = nil

		if app.descriptorPool.Initialized() {
			app.deviceDriver.DestroyDescriptorPool(app.descriptorPool, nil)
			app.descriptorPool = core1_0.DescriptorPool{}
			app.descriptorSets = nil
		}

		for _, buffer := range app.uniformBuffers {
			app.framework.DestroyHostCoherentBufferAndItsBackingMemory(buffer)
		}
		app.uniformBuffers = nil

		app.framework.DestroyGraphicsPipeline(app.pipeline)
		app.pipeline = nil

		app.framework.Destroy()
		app.framework = nil
	}

	if app.depthImages != nil {
		launchpad.DestroyDepthImages(app.deviceDriver, app.depthImages)
		app.depthImages = nil
	}

	if app.swapchain.Initialized() {
		app.swapchainDriver.DestroySwapchain(app.swapchain, nil)
		app.swapchain = khr_swapchain.Swapchain{}
		app.swapchainImages = nil
	}

	if app.deviceDriver != nil {
		app.deviceDriver.DestroyDevice(nil)
		app.deviceDriver = nil
	}
	log.Println("Task 1.10 done.")

	if app.debugMessenger.Initialized() {
		app.debugDriver.DestroyDebugUtilsMessenger(app.debugMessenger, nil)
	}

	if app.surface.Initialized() {
		app.surfaceDriver.DestroySurface(app.surface, nil)
	}

	if app.instanceDriver != nil {
		app.instanceDriver.DestroyInstance(nil)
		app.instanceDriver = nil
	}

	if app.window != nil {
		app.window.Destroy()
		app.window = nil
	}
	sdl.Quit()
}
