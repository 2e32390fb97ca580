package launchpad

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

// SurfaceCapabilities returns the capabilities of the surface on the physical device.
func SurfaceCapabilities(surfaceDriver khr_surface.ExtensionDriver, surface khr_surface.Surface, device core1_0.PhysicalDevice) (*khr_surface.SurfaceCapabilities, error) {
	capabilities, _, err := surfaceDriver.GetPhysicalDeviceSurfaceCapabilities(surface, device)
	if err != nil {
		return nil, errors.Wrap(err, "get surface capabilities")
	}
	return capabilities, nil
}

// SurfaceImageFormat picks the swapchain image format for the surface.
func SurfaceImageFormat(surfaceDriver khr_surface.ExtensionDriver, surface khr_surface.Surface, device core1_0.PhysicalDevice) (khr_surface.SurfaceFormat, error) {
	formats, _, err := surfaceDriver.GetPhysicalDeviceSurfaceFormats(surface, device)
	if err != nil {
		return khr_surface.SurfaceFormat{}, errors.Wrap(err, "get surface formats")
	}
	return ChooseSurfaceFormat(formats)
}

// ChooseSurfaceFormat prefers B8G8R8A8 UNORM in the sRGB non-linear color space, then
// B8G8R8A8 SRGB, then whatever the surface lists first.
func ChooseSurfaceFormat(available []khr_surface.SurfaceFormat) (khr_surface.SurfaceFormat, error) {
	if len(available) == 0 {
		return khr_surface.SurfaceFormat{}, errors.New("surface reports no formats")
	}

	preferred := []core1_0.Format{core1_0.FormatB8G8R8A8UnsignedNormalized, core1_0.FormatB8G8R8A8SRGB}
	for _, want := range preferred {
		for _, format := range available {
			if format.Format == want && format.ColorSpace == khr_surface.ColorSpaceSRGBNonlinear {
				return format, nil
			}
		}
	}

	return available[0], nil
}

// CheckSwapchainImageCount verifies the swapchain handed out exactly the requested images.
func CheckSwapchainImageCount(imageCount, minImageCount int) error {
	if imageCount == 0 {
		return errors.New("Swap chain images not retrieved.")
	}
	if imageCount != minImageCount {
		return errors.Wrapf(ErrImageCountMismatch, "got %d images, requested %d", imageCount, minImageCount)
	}
	return nil
}
