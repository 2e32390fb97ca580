package main

import (
	"log"
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	"github.com/vkngwrapper/teapot-tutorial/camera"
	"github.com/vkngwrapper/teapot-tutorial/config"
	"github.com/vkngwrapper/teapot-tutorial/input"
	"github.com/vkngwrapper/teapot-tutorial/launchpad"
	"github.com/vkngwrapper/teapot-tutorial/teapot"
)

type TutorialApplication struct {
	cfg config.Config

	window *sdl.Window
	input  *input.State

	globalDriver   core1_0.GlobalDriver
	instanceDriver core1_0.CoreInstanceDriver
	debugDriver    ext_debug_utils.ExtensionDriver
	debugMessenger ext_debug_utils.DebugUtilsMessenger

	surfaceDriver khr_surface.ExtensionDriver
	surface       khr_surface.Surface

	physicalDevice   core1_0.PhysicalDevice
	queueFamilyIndex int
	deviceDriver     core1_0.CoreDeviceDriver
	queue            core1_0.Queue

	swapchainDriver khr_swapchain.ExtensionDriver
	swapchain       khr_swapchain.Swapchain
	swapchainExtent core1_0.Extent2D
	swapchainFormat khr_surface.SurfaceFormat
	swapchainImages []core1_0.Image
	depthImages     *launchpad.DepthImages

	framework *launchpad.Framework
	pipeline  *launchpad.Pipeline

	uniformData    UniformBufferData
	uniformBuffers []*launchpad.HostCoherentBuffer
	descriptorPool core1_0.DescriptorPool
	descriptorSets []core1_0.DescriptorSet

	camera *camera.Orbit
	teapot *teapot.Teapot
}

func (app *TutorialApplication) Run() error {
	defer app.cleanup()

	err := app.initWindow()
	if err != nil {
		return err
	}
	log.Println("Task 1.1 done.")

	err = app.createInstance()
	if err != nil {
		return err
	}
	log.Println("Task 1.2 done.")

	err = app.setupDebugMessenger()
	if err != nil {
		return err
	}

	err = app.createSurface()
	if err != nil {
		return err
	}
	log.Println("Task 1.3 done.")

	if app.cfg.Info {
		return app.printDeviceReport()
	}

	err = app.initVulkan()
	if err != nil {
		return err
	}

	return app.mainLoop()
}

func (app *TutorialApplication) initVulkan() error {
	err := app.pickPhysicalDevice()
	if err != nil {
		return err
	}
	log.Println("Task 1.4 done.")

	err = app.selectQueueFamily()
	if err != nil {
		return err
	}
	log.Println("Task 1.5 done.")

	err = app.createLogicalDevice()
	if err != nil {
		return err
	}
	log.Println("Task 1.6 done.")

	err = app.createSwapchain()
	if err != nil {
		return err
	}
	log.Println("Task 1.7 done.")

	err = app.initFramework()
	if err != nil {
		return err
	}
	log.Println("Task 1.8 done.")

	err = app.createGraphicsPipeline()
	if err != nil {
		return err
	}

	err = app.createUniformBuffers()
	if err != nil {
		return err
	}

	err = app.createDescriptorSets()
	if err != nil {
		return err
	}

	err = app.createTeapot()
	if err != nil {
		return err
	}

	app.camera = camera.NewOrbit(cameraAspect(app.swapchainExtent, app.cfg))
	return nil
}

// cameraAspect prefers the swapchain extent and falls back to the configured window size
// when the drawable has no area yet.
func cameraAspect(extent core1_0.Extent2D, cfg config.Config) float32 {
	if extent.Width > 0 && extent.Height > 0 {
		return float32(extent.Width) / float32(extent.Height)
	}
	return cfg.Aspect()
}

func main() {
	runtime.LockOSThread()

	cfg, err := config.Parse(os.Args[1:], os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return
	} else if err != nil {
		log.Fatalf("%+v\n", err)
	}

	app := &TutorialApplication{
		cfg:         cfg,
		input:       input.NewState(),
		uniformData: DefaultUniformBufferData(),
	}

	err = app.Run()
	if err != nil {
		log.Fatalf("%+v\n", err)
	}
}
