package main

import (
	"log"

	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
	"github.com/vkngwrapper/extensions/v3/khr_portability_subset"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"
	"github.com/vkngwrapper/teapot-tutorial/launchpad"
)

func (app *TutorialApplication) initWindow() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return errors.Wrap(err, "failed to init SDL")
	}

	flags := uint32(sdl.WINDOW_SHOWN | sdl.WINDOW_VULKAN)
	if app.cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	window, err := sdl.CreateWindow(app.cfg.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(app.cfg.Width), int32(app.cfg.Height), flags)
	if err != nil {
		log.Printf("SDL error: %s", err)
		return errors.Wrap(err, "No window created.")
	}
	app.window = window

	app.globalDriver, err = core.CreateDriverFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return errors.Wrap(err, "load Vulkan")
	}

	return nil
}

func (app *TutorialApplication) createInstance() error {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:    "An Introduction to Vulkan",
		ApplicationVersion: common.CreateVersion(2023, 1, 1),
		EngineName:         "Vulkan Launchpad",
		EngineVersion:      common.CreateVersion(2023, 1, 0),
		APIVersion:         common.Vulkan1_1,
	}

	available, _, err := app.globalDriver.AvailableExtensions()
	if err != nil {
		return errors.Wrap(err, "enumerate instance extensions")
	}

	supported := func(name string) bool {
		_, has := available[name]
		return has
	}

	// Needed to find MoltenVK devices
	portability := launchpad.PortabilityInstanceExtensions(supported)
	instanceOptions.EnabledExtensionNames, err = launchpad.MergeExtensions(
		supported,
		app.window.VulkanGetInstanceExtensions(),
		launchpad.RequiredInstanceExtensions(app.cfg.Validation),
		portability,
	)
	if err != nil {
		return err
	}
	if len(portability) > 0 {
		instanceOptions.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	if app.cfg.Validation {
		layerSupported, err := launchpad.IsInstanceLayerSupported(app.globalDriver, launchpad.ValidationLayerName)
		if err != nil {
			return err
		}
		if !layerSupported {
			return errors.Wrapf(launchpad.ErrLayerNotSupported, "Validation layer %q is not supported.", launchpad.ValidationLayerName)
		}
		log.Printf("Validation layer %q is supported.", launchpad.ValidationLayerName)
		instanceOptions.EnabledLayerNames = append(instanceOptions.EnabledLayerNames, launchpad.ValidationLayerName)

		instanceOptions.Next = app.debugMessengerOptions()
	}

	instance, _, err := app.globalDriver.CreateInstance(nil, instanceOptions)
	if err != nil {
		return errors.Wrap(err, "create instance")
	}

	app.instanceDriver, err = app.globalDriver.BuildInstanceDriver(instance)
	if err != nil {
		return errors.Wrap(err, "load instance functions")
	}

	return nil
}

func (app *TutorialApplication) debugMessengerOptions() ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback:    app.logDebug,
	}
}

func (app *TutorialApplication) setupDebugMessenger() error {
	if !app.cfg.Validation {
		return nil
	}

	var err error
	app.debugDriver = ext_debug_utils.CreateExtensionDriverFromCoreDriver(app.instanceDriver)
	app.debugMessenger, _, err = app.debugDriver.CreateDebugUtilsMessenger(nil, app.debugMessengerOptions())
	if err != nil {
		return errors.Wrap(err, "create debug messenger")
	}

	return nil
}

func (app *TutorialApplication) logDebug(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
	log.Printf("[%s %s] - %s", severity, msgType, data.Message)
	return false
}

func (app *TutorialApplication) createSurface() error {
	app.surfaceDriver = khr_surface.CreateExtensionDriverFromCoreDriver(app.instanceDriver)
	surface, err := vkng_sdl2.CreateSurface(app.instanceDriver.Instance(), app.surfaceDriver, app.window)
	if err != nil {
		return errors.Wrap(err, "create window surface")
	}

	app.surface = surface
	return nil
}

func (app *TutorialApplication) pickPhysicalDevice() error {
	physicalDevices, _, err := app.instanceDriver.EnumeratePhysicalDevices()
	if err != nil {
		return errors.Wrap(err, "enumerate physical devices")
	}
	if len(physicalDevices) == 0 {
		return errors.New("failed to find GPUs with Vulkan support")
	}

	index, candidates, err := launchpad.SelectPhysicalDevice(app.instanceDriver, app.surfaceDriver, app.surface, physicalDevices)
	if err != nil {
		return err
	}

	app.physicalDevice = physicalDevices[index]
	log.Printf("Selected physical device %q", candidates[index].Name)
	return nil
}

func (app *TutorialApplication) selectQueueFamily() error {
	index, err := launchpad.SelectDeviceQueueFamily(app.instanceDriver, app.surfaceDriver, app.surface, app.physicalDevice)
	if err != nil {
		return err
	}

	familyCount := len(launchpad.QueueFamilyFlags(app.instanceDriver, app.physicalDevice))
	if err := launchpad.CheckQueueFamilyIndex(index, familyCount); err != nil {
		return err
	}

	app.queueFamilyIndex = index
	return nil
}

func (app *TutorialApplication) createLogicalDevice() error {
	extensionNames := []string{khr_swapchain.ExtensionName}

	// Makes this example compatible with vulkan portability, necessary to run on mobile & mac
	extensions, _, err := app.instanceDriver.EnumerateDeviceExtensionProperties(app.physicalDevice)
	if err != nil {
		return errors.Wrap(err, "enumerate device extensions")
	}

	_, supported := extensions[khr_portability_subset.ExtensionName]
	if supported {
		extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
	}

	polygonMode, err := app.cfg.PolygonMode()
	if err != nil {
		return err
	}

	features, err := launchpad.DeviceFeaturesForPolygonMode(app.instanceDriver.GetPhysicalDeviceFeatures(app.physicalDevice), polygonMode)
	if err != nil {
		return err
	}

	device, _, err := app.instanceDriver.CreateDevice(app.physicalDevice, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos: []core1_0.DeviceQueueCreateInfo{
			{
				QueueFamilyIndex: app.queueFamilyIndex,
				QueuePriorities:  []float32{1.0},
			},
		},
		EnabledFeatures:       features,
		EnabledExtensionNames: extensionNames,
	})
	if err != nil {
		return errors.Wrap(err, "create logical device")
	}

	app.deviceDriver, err = app.instanceDriver.BuildDeviceDriver(device)
	if err != nil {
		return errors.Wrap(err, "load device functions")
	}

	app.queue = app.deviceDriver.GetQueue(app.queueFamilyIndex, 0)
	return nil
}

func (app *TutorialApplication) createSwapchain() error {
	app.swapchainDriver = khr_swapchain.CreateExtensionDriverFromCoreDriver(app.deviceDriver)

	capabilities, err := launchpad.SurfaceCapabilities(app.surfaceDriver, app.surface, app.physicalDevice)
	if err != nil {
		return err
	}

	surfaceFormat, err := launchpad.SurfaceImageFormat(app.surfaceDriver, app.surface, app.physicalDevice)
	if err != nil {
		return err
	}

	width, height := app.window.VulkanGetDrawableSize()
	extent := core1_0.Extent2D{Width: int(width), Height: int(height)}

	swapchain, _, err := app.swapchainDriver.CreateSwapchain(nil, khr_swapchain.SwapchainCreateInfo{
		Surface: app.surface,

		MinImageCount:    capabilities.MinImageCount,
		ImageFormat:      surfaceFormat.Format,
		ImageColorSpace:  surfaceFormat.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   core1_0.SharingModeExclusive,
		QueueFamilyIndices: []int{app.queueFamilyIndex},

		PreTransform:   capabilities.CurrentTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    khr_surface.PresentModeFIFO,
		Clipped:        true,
	})
	if err != nil {
		return errors.Wrap(err, "create swapchain")
	}
	app.swapchain = swapchain
	app.swapchainExtent = extent
	app.swapchainFormat = surfaceFormat

	images, _, err := app.swapchainDriver.GetSwapchainImages(swapchain)
	if err != nil {
		return errors.Wrap(err, "get swapchain images")
	}
	if err := launchpad.CheckSwapchainImageCount(len(images), capabilities.MinImageCount); err != nil {
		return err
	}

	app.swapchainImages = images
	return nil
}
