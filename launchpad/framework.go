package launchpad

import (
	"log"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

const MaxFramesInFlight = 2

// InitInfo hands the framework the objects the application brought up itself.
type InitInfo struct {
	InstanceDriver   core1_0.CoreInstanceDriver
	PhysicalDevice   core1_0.PhysicalDevice
	DeviceDriver     core1_0.CoreDeviceDriver
	SwapchainDriver  khr_swapchain.ExtensionDriver
	Queue            core1_0.Queue
	QueueFamilyIndex int

	SwapchainConfig SwapchainConfig

	// PipelineCachePath is read at init and written back on Destroy. Empty disables the cache.
	PipelineCachePath string
}

// Framework owns the render pass, framebuffers, command buffers and frame synchronization
// for a swapchain the application created.
type Framework struct {
	instanceDriver  core1_0.CoreInstanceDriver
	physicalDevice  core1_0.PhysicalDevice
	deviceDriver    core1_0.CoreDeviceDriver
	swapchainDriver khr_swapchain.ExtensionDriver
	queue           core1_0.Queue

	config SwapchainConfig

	colorImageViews []core1_0.ImageView
	depthImageViews []core1_0.ImageView
	renderPass      core1_0.RenderPass
	framebuffers    []core1_0.Framebuffer

	commandPool    core1_0.CommandPool
	commandBuffers []core1_0.CommandBuffer

	imageAvailableSemaphores []core1_0.Semaphore
	renderFinishedSemaphores []core1_0.Semaphore
	inFlightFences           []core1_0.Fence
	imagesInFlight           []core1_0.Fence

	pipelineCache     core1_0.PipelineCache
	pipelineCachePath string

	currentFrame int
	imageIndex   int
	state        frameState
}

// Init builds everything the framework needs to render into the configured swapchain images.
func Init(info InitInfo) (*Framework, error) {
	if err := info.SwapchainConfig.Validate(); err != nil {
		return nil, errors.Wrap(err, "Failed to init Vulkan Launchpad")
	}

	f := &Framework{
		instanceDriver:    info.InstanceDriver,
		physicalDevice:    info.PhysicalDevice,
		deviceDriver:      info.DeviceDriver,
		swapchainDriver:   info.SwapchainDriver,
		queue:             info.Queue,
		config:            info.SwapchainConfig,
		pipelineCachePath: info.PipelineCachePath,
	}

	steps := []func() error{
		f.createImageViews,
		f.createRenderPass,
		f.createFramebuffers,
		func() error { return f.createCommandPool(info.QueueFamilyIndex) },
		f.createCommandBuffers,
		f.createSyncObjects,
		f.createPipelineCache,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			f.Destroy()
			return nil, errors.Wrap(err, "Failed to init Vulkan Launchpad")
		}
	}

	log.Printf("Vulkan Launchpad initialized with %d swapchain images, depth: %t", len(f.config.SwapchainImages), f.config.HasDepth())
	return f, nil
}

func (f *Framework) DeviceDriver() core1_0.CoreDeviceDriver {
	return f.deviceDriver
}

func (f *Framework) RenderPass() core1_0.RenderPass {
	return f.renderPass
}

func (f *Framework) Extent() core1_0.Extent2D {
	return f.config.ImageExtent
}

func (f *Framework) HasDepth() bool {
	return f.config.HasDepth()
}

// CurrentFrameIndex is the frame-in-flight slot the next recorded frame uses.
func (f *Framework) CurrentFrameIndex() int {
	return f.currentFrame
}

// Destroy waits for the device and releases everything Init created. Handles that were never
// created are skipped, so Destroy is safe after a partial Init.
func (f *Framework) Destroy() {
	if f == nil || f.deviceDriver == nil {
		return
	}

	_, err := f.deviceDriver.DeviceWaitIdle()
	if err != nil {
		log.Printf("wait for device idle: %+v", err)
	}

	f.destroyPipelineCache()

	for _, fence := range f.inFlightFences {
		f.deviceDriver.DestroyFence(fence, nil)
	}
	f.inFlightFences = nil
	f.imagesInFlight = nil

	for _, semaphore := range f.renderFinishedSemaphores {
		f.deviceDriver.DestroySemaphore(semaphore, nil)
	}
	f.renderFinishedSemaphores = nil

	for _, semaphore := range f.imageAvailableSemaphores {
		f.deviceDriver.DestroySemaphore(semaphore, nil)
	}
	f.imageAvailableSemaphores = nil

	if len(f.commandBuffers) > 0 {
		f.deviceDriver.FreeCommandBuffers(f.commandBuffers...)
		f.commandBuffers = nil
	}

	if f.commandPool.Initialized() {
		f.deviceDriver.DestroyCommandPool(f.commandPool, nil)
		f.commandPool = core1_0.CommandPool{}
	}

	for _, framebuffer := range f.framebuffers {
		f.deviceDriver.DestroyFramebuffer(framebuffer, nil)
	}
	f.framebuffers = nil

	if f.renderPass.Initialized() {
		f.deviceDriver.DestroyRenderPass(f.renderPass, nil)
		f.renderPass = core1_0.RenderPass{}
	}

	for _, view := range f.depthImageViews {
		f.deviceDriver.DestroyImageView(view, nil)
	}
	f.depthImageViews = nil

	for _, view := range f.colorImageViews {
		f.deviceDriver.DestroyImageView(view, nil)
	}
	f.colorImageViews = nil
}

func (f *Framework) createImageView(image core1_0.Image, format core1_0.Format, aspect core1_0.ImageAspectFlags) (core1_0.ImageView, error) {
	imageView, _, err := f.deviceDriver.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		Image:    image,
		ViewType: core1_0.ImageViewType2D,
		Format:   format,
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     aspect,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	})
	return imageView, err
}

func (f *Framework) createImageViews() error {
	for i, image := range f.config.SwapchainImages {
		color := image.ColorAttachmentImageDetails
		view, err := f.createImageView(color.ImageHandle, color.ImageFormat, core1_0.ImageAspectColor)
		if err != nil {
			return errors.Wrapf(err, "create color image view %d", i)
		}
		f.colorImageViews = append(f.colorImageViews, view)

		if !f.config.HasDepth() {
			continue
		}

		depth := image.DepthAttachmentImageDetails
		view, err = f.createImageView(depth.ImageHandle, depth.ImageFormat, core1_0.ImageAspectDepth)
		if err != nil {
			return errors.Wrapf(err, "create depth image view %d", i)
		}
		f.depthImageViews = append(f.depthImageViews, view)
	}

	return nil
}

func (f *Framework) createRenderPass() error {
	first := f.config.SwapchainImages[0]

	attachments := []core1_0.AttachmentDescription{
		{
			Format:         first.ColorAttachmentImageDetails.ImageFormat,
			Samples:        core1_0.Samples1,
			LoadOp:         core1_0.AttachmentLoadOpClear,
			StoreOp:        core1_0.AttachmentStoreOpStore,
			StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
			StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
			InitialLayout:  core1_0.ImageLayoutUndefined,
			FinalLayout:    khr_swapchain.ImageLayoutPresentSrc,
		},
	}
	subpass := core1_0.SubpassDescription{
		PipelineBindPoint: core1_0.PipelineBindPointGraphics,
		ColorAttachments: []core1_0.AttachmentReference{
			{
				Attachment: 0,
				Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
			},
		},
	}
	dependency := core1_0.SubpassDependency{
		SrcSubpass: core1_0.SubpassExternal,
		DstSubpass: 0,

		SrcStageMask:  core1_0.PipelineStageColorAttachmentOutput,
		SrcAccessMask: 0,

		DstStageMask:  core1_0.PipelineStageColorAttachmentOutput,
		DstAccessMask: core1_0.AccessColorAttachmentWrite,
	}

	if f.config.HasDepth() {
		attachments = append(attachments, core1_0.AttachmentDescription{
			Format:         first.DepthAttachmentImageDetails.ImageFormat,
			Samples:        core1_0.Samples1,
			LoadOp:         core1_0.AttachmentLoadOpClear,
			StoreOp:        core1_0.AttachmentStoreOpDontCare,
			StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
			StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
			InitialLayout:  core1_0.ImageLayoutUndefined,
			FinalLayout:    core1_0.ImageLayoutDepthStencilAttachmentOptimal,
		})
		subpass.DepthStencilAttachment = &core1_0.AttachmentReference{
			Attachment: 1,
			Layout:     core1_0.ImageLayoutDepthStencilAttachmentOptimal,
		}
		dependency.SrcStageMask |= core1_0.PipelineStageEarlyFragmentTests
		dependency.DstStageMask |= core1_0.PipelineStageEarlyFragmentTests
		dependency.DstAccessMask |= core1_0.AccessDepthStencilAttachmentWrite
	}

	renderPass, _, err := f.deviceDriver.CreateRenderPass(nil, core1_0.RenderPassCreateInfo{
		Attachments:         attachments,
		Subpasses:           []core1_0.SubpassDescription{subpass},
		SubpassDependencies: []core1_0.SubpassDependency{dependency},
	})
	if err != nil {
		return errors.Wrap(err, "create render pass")
	}

	f.renderPass = renderPass
	return nil
}

func (f *Framework) createFramebuffers() error {
	for i, colorView := range f.colorImageViews {
		attachments := []core1_0.ImageView{colorView}
		if f.config.HasDepth() {
			attachments = append(attachments, f.depthImageViews[i])
		}

		framebuffer, _, err := f.deviceDriver.CreateFramebuffer(nil, core1_0.FramebufferCreateInfo{
			RenderPass:  f.renderPass,
			Layers:      1,
			Attachments: attachments,
			Width:       f.config.ImageExtent.Width,
			Height:      f.config.ImageExtent.Height,
		})
		if err != nil {
			return errors.Wrapf(err, "create framebuffer %d", i)
		}

		f.framebuffers = append(f.framebuffers, framebuffer)
	}

	return nil
}

func (f *Framework) createCommandPool(queueFamilyIndex int) error {
	pool, _, err := f.deviceDriver.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		Flags:            core1_0.CommandPoolCreateResetBuffer,
		QueueFamilyIndex: queueFamilyIndex,
	})
	if err != nil {
		return errors.Wrap(err, "create command pool")
	}

	f.commandPool = pool
	return nil
}

func (f *Framework) createCommandBuffers() error {
	buffers, _, err := f.deviceDriver.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        f.commandPool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: MaxFramesInFlight,
	})
	if err != nil {
		return errors.Wrap(err, "allocate command buffers")
	}

	f.commandBuffers = buffers
	return nil
}

func (f *Framework) createSyncObjects() error {
	for i := 0; i < MaxFramesInFlight; i++ {
		semaphore, _, err := f.deviceDriver.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
		if err != nil {
			return errors.Wrap(err, "create image available semaphore")
		}
		f.imageAvailableSemaphores = append(f.imageAvailableSemaphores, semaphore)

		fence, _, err := f.deviceDriver.CreateFence(nil, core1_0.FenceCreateInfo{
			Flags: core1_0.FenceCreateSignaled,
		})
		if err != nil {
			return errors.Wrap(err, "create in flight fence")
		}
		f.inFlightFences = append(f.inFlightFences, fence)
	}

	for i := 0; i < len(f.config.SwapchainImages); i++ {
		semaphore, _, err := f.deviceDriver.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
		if err != nil {
			return errors.Wrap(err, "create render finished semaphore")
		}
		f.renderFinishedSemaphores = append(f.renderFinishedSemaphores, semaphore)

		f.imagesInFlight = append(f.imagesInFlight, core1_0.Fence{})
	}

	return nil
}
