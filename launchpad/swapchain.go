package launchpad

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// SwapchainImageDetails describes one attachment image the framework renders into.
type SwapchainImageDetails struct {
	ImageHandle core1_0.Image
	ImageFormat core1_0.Format
	ImageUsage  core1_0.ImageUsageFlags
	ClearValue  core1_0.ClearValue
}

// SwapchainFramebufferComposition is the set of attachments behind one swapchain image.
// The depth attachment is optional: leave its ImageHandle unset to render without depth.
type SwapchainFramebufferComposition struct {
	ColorAttachmentImageDetails SwapchainImageDetails
	DepthAttachmentImageDetails SwapchainImageDetails
}

type SwapchainConfig struct {
	SwapchainHandle khr_swapchain.Swapchain
	ImageExtent     core1_0.Extent2D
	SwapchainImages []SwapchainFramebufferComposition
}

// HasDepth reports whether the config carries depth attachments.
func (c *SwapchainConfig) HasDepth() bool {
	return len(c.SwapchainImages) > 0 && c.SwapchainImages[0].DepthAttachmentImageDetails.ImageHandle.Initialized()
}

// Validate checks the config is complete enough to build framebuffers from.
func (c *SwapchainConfig) Validate() error {
	if len(c.SwapchainImages) == 0 {
		return errors.Wrap(ErrInvalidSwapchainConfig, "no swapchain images")
	}
	if c.ImageExtent.Width <= 0 || c.ImageExtent.Height <= 0 {
		return errors.Wrapf(ErrInvalidSwapchainConfig, "image extent %dx%d", c.ImageExtent.Width, c.ImageExtent.Height)
	}

	hasDepth := c.HasDepth()
	colorFormat := c.SwapchainImages[0].ColorAttachmentImageDetails.ImageFormat
	depthFormat := c.SwapchainImages[0].DepthAttachmentImageDetails.ImageFormat

	for i, image := range c.SwapchainImages {
		if !image.ColorAttachmentImageDetails.ImageHandle.Initialized() {
			return errors.Wrapf(ErrInvalidSwapchainConfig, "image %d has no color attachment handle", i)
		}
		if image.ColorAttachmentImageDetails.ImageFormat != colorFormat {
			return errors.Wrapf(ErrInvalidSwapchainConfig, "image %d color format %s differs from %s", i, image.ColorAttachmentImageDetails.ImageFormat, colorFormat)
		}
		if image.DepthAttachmentImageDetails.ImageHandle.Initialized() != hasDepth {
			return errors.Wrapf(ErrInvalidSwapchainConfig, "image %d depth attachment does not match image 0", i)
		}
		if hasDepth && image.DepthAttachmentImageDetails.ImageFormat != depthFormat {
			return errors.Wrapf(ErrInvalidSwapchainConfig, "image %d depth format %s differs from %s", i, image.DepthAttachmentImageDetails.ImageFormat, depthFormat)
		}
	}

	return nil
}

func (c *SwapchainConfig) clearValues(imageIndex int) []core1_0.ClearValue {
	image := c.SwapchainImages[imageIndex]
	values := []core1_0.ClearValue{image.ColorAttachmentImageDetails.ClearValue}
	if c.HasDepth() {
		values = append(values, image.DepthAttachmentImageDetails.ClearValue)
	}
	return values
}
