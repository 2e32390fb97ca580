package launchpad

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
)

// DepthImages are device-local depth attachments, one per swapchain image.
type DepthImages struct {
	Format   core1_0.Format
	Images   []core1_0.Image
	Memories []core1_0.DeviceMemory
}

var depthFormatCandidates = []core1_0.Format{
	core1_0.FormatD32SignedFloat,
	core1_0.FormatD32SignedFloatS8UnsignedInt,
	core1_0.FormatD24UnsignedNormalizedS8UnsignedInt,
}

// FindDepthFormat returns the first depth format the device supports as an optimal-tiling
// depth attachment.
func FindDepthFormat(instanceDriver core1_0.CoreInstanceDriver, physicalDevice core1_0.PhysicalDevice) (core1_0.Format, error) {
	return chooseSupportedFormat(depthFormatCandidates, core1_0.FormatFeatureDepthStencilAttachment,
		func(format core1_0.Format) core1_0.FormatFeatureFlags {
			return instanceDriver.GetPhysicalDeviceFormatProperties(physicalDevice, format).OptimalTilingFeatures
		})
}

func chooseSupportedFormat(formats []core1_0.Format, features core1_0.FormatFeatureFlags, optimalFeatures func(core1_0.Format) core1_0.FormatFeatureFlags) (core1_0.Format, error) {
	for _, format := range formats {
		if (optimalFeatures(format) & features) == features {
			return format, nil
		}
	}

	return 0, errors.Errorf("failed to find supported format for featureset %s", features)
}

// CreateDepthImages creates count depth images of the given extent.
func CreateDepthImages(instanceDriver core1_0.CoreInstanceDriver, physicalDevice core1_0.PhysicalDevice, deviceDriver core1_0.CoreDeviceDriver, extent core1_0.Extent2D, count int) (*DepthImages, error) {
	format, err := FindDepthFormat(instanceDriver, physicalDevice)
	if err != nil {
		return nil, err
	}

	depth := &DepthImages{Format: format}
	for i := 0; i < count; i++ {
		image, memory, err := createImage(instanceDriver, physicalDevice, deviceDriver, extent, format,
			core1_0.ImageUsageDepthStencilAttachment, core1_0.MemoryPropertyDeviceLocal)
		if err != nil {
			DestroyDepthImages(deviceDriver, depth)
			return nil, errors.Wrapf(err, "create depth image %d", i)
		}

		depth.Images = append(depth.Images, image)
		depth.Memories = append(depth.Memories, memory)
	}

	return depth, nil
}

// Details describes depth image i as a framebuffer attachment cleared to the far plane.
func (d *DepthImages) Details(i int) SwapchainImageDetails {
	return SwapchainImageDetails{
		ImageHandle: d.Images[i],
		ImageFormat: d.Format,
		ImageUsage:  core1_0.ImageUsageDepthStencilAttachment,
		ClearValue:  core1_0.ClearValueDepthStencil{Depth: 1.0, Stencil: 0},
	}
}

func DestroyDepthImages(deviceDriver core1_0.CoreDeviceDriver, depth *DepthImages) {
	if depth == nil {
		return
	}

	for _, image := range depth.Images {
		deviceDriver.DestroyImage(image, nil)
	}
	depth.Images = nil

	for _, memory := range depth.Memories {
		deviceDriver.FreeMemory(memory, nil)
	}
	depth.Memories = nil
}
