package launchpad

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// DeviceFeaturesForPolygonMode returns the features a logical device must enable to rasterize
// with mode. Line and point modes need fillModeNonSolid.
func DeviceFeaturesForPolygonMode(supported *core1_0.PhysicalDeviceFeatures, mode core1_0.PolygonMode) (*core1_0.PhysicalDeviceFeatures, error) {
	if mode == core1_0.PolygonModeFill {
		return &core1_0.PhysicalDeviceFeatures{}, nil
	}

	if supported == nil || !supported.FillModeNonSolid {
		return nil, errors.Wrapf(ErrFeatureNotSupported, "polygon mode %s requires fillModeNonSolid", mode)
	}
	return &core1_0.PhysicalDeviceFeatures{FillModeNonSolid: true}, nil
}

// DeviceCandidate is everything device selection needs to know about one physical device.
type DeviceCandidate struct {
	Name                string
	Type                core1_0.PhysicalDeviceType
	MaxImageDimension2D int

	HasQueueFamily      bool
	SupportsSwapchain   bool
	SurfaceFormats      int
	SurfacePresentModes int
}

// Suitability scores the candidate. Zero means the device cannot be used.
func (c DeviceCandidate) Suitability() int {
	if !c.HasQueueFamily || !c.SupportsSwapchain {
		return 0
	}
	if c.SurfaceFormats == 0 || c.SurfacePresentModes == 0 {
		return 0
	}

	score := c.MaxImageDimension2D
	switch c.Type {
	case core1_0.PhysicalDeviceTypeDiscreteGPU:
		score += 1000
	case core1_0.PhysicalDeviceTypeIntegratedGPU:
		score += 100
	}

	if score <= 0 {
		score = 1
	}
	return score
}

// SelectPhysicalDeviceIndex picks the best scoring candidate. Ties keep the earlier device.
func SelectPhysicalDeviceIndex(candidates []DeviceCandidate) (int, error) {
	bestScore := 0
	bestIndex := -1

	for i, candidate := range candidates {
		score := candidate.Suitability()
		if score > bestScore {
			bestScore = score
			bestIndex = i
		}
	}

	if bestIndex < 0 {
		return -1, ErrNoSuitableDevice
	}
	return bestIndex, nil
}

// SelectQueueFamilyIndex returns the first queue family that supports graphics and can present
// to the surface, scanning in index order.
func SelectQueueFamilyIndex(families []core1_0.QueueFlags, presentSupported func(index int) (bool, error)) (int, error) {
	for index, flags := range families {
		if (flags & core1_0.QueueGraphics) == 0 {
			continue
		}

		supported, err := presentSupported(index)
		if err != nil {
			return -1, errors.Wrapf(err, "query presentation support of queue family %d", index)
		}
		if supported {
			return index, nil
		}
	}

	return -1, ErrNoSuitableQueueFamily
}

// CheckQueueFamilyIndex rejects an index outside the device's queue families.
func CheckQueueFamilyIndex(index, familyCount int) error {
	if index < 0 || index >= familyCount {
		return errors.Wrapf(ErrInvalidQueueFamily, "index %d, %d families", index, familyCount)
	}
	return nil
}

// QueueFamilyFlags lists the queue flags of every queue family of the device.
func QueueFamilyFlags(instanceDriver core1_0.CoreInstanceDriver, device core1_0.PhysicalDevice) []core1_0.QueueFlags {
	var flags []core1_0.QueueFlags
	for _, family := range instanceDriver.GetPhysicalDeviceQueueFamilyProperties(device) {
		flags = append(flags, family.QueueFlags)
	}
	return flags
}

// SelectDeviceQueueFamily runs SelectQueueFamilyIndex against a real device and surface.
func SelectDeviceQueueFamily(instanceDriver core1_0.CoreInstanceDriver, surfaceDriver khr_surface.ExtensionDriver, surface khr_surface.Surface, device core1_0.PhysicalDevice) (int, error) {
	return SelectQueueFamilyIndex(QueueFamilyFlags(instanceDriver, device), func(index int) (bool, error) {
		supported, _, err := surfaceDriver.GetPhysicalDeviceSurfaceSupport(surface, device, index)
		return supported, err
	})
}

// CollectDeviceCandidate queries what SelectPhysicalDeviceIndex needs from one device.
func CollectDeviceCandidate(instanceDriver core1_0.CoreInstanceDriver, surfaceDriver khr_surface.ExtensionDriver, surface khr_surface.Surface, device core1_0.PhysicalDevice) (DeviceCandidate, error) {
	var candidate DeviceCandidate

	properties, err := instanceDriver.GetPhysicalDeviceProperties(device)
	if err != nil {
		return candidate, errors.Wrap(err, "get physical device properties")
	}
	candidate.Name = properties.DriverName
	candidate.Type = properties.DriverType
	candidate.MaxImageDimension2D = int(properties.Limits.MaxImageDimension2D)

	_, err = SelectDeviceQueueFamily(instanceDriver, surfaceDriver, surface, device)
	if err != nil && !errors.Is(err, ErrNoSuitableQueueFamily) {
		return candidate, err
	}
	candidate.HasQueueFamily = err == nil

	extensions, _, err := instanceDriver.EnumerateDeviceExtensionProperties(device)
	if err != nil {
		return candidate, errors.Wrap(err, "enumerate device extensions")
	}
	_, candidate.SupportsSwapchain = extensions[khr_swapchain.ExtensionName]

	if candidate.SupportsSwapchain {
		formats, _, err := surfaceDriver.GetPhysicalDeviceSurfaceFormats(surface, device)
		if err != nil {
			return candidate, errors.Wrap(err, "get surface formats")
		}
		presentModes, _, err := surfaceDriver.GetPhysicalDeviceSurfacePresentModes(surface, device)
		if err != nil {
			return candidate, errors.Wrap(err, "get surface present modes")
		}
		candidate.SurfaceFormats = len(formats)
		candidate.SurfacePresentModes = len(presentModes)
	}

	return candidate, nil
}

// SelectPhysicalDevice collects a candidate for every device and returns the index of the best.
func SelectPhysicalDevice(instanceDriver core1_0.CoreInstanceDriver, surfaceDriver khr_surface.ExtensionDriver, surface khr_surface.Surface, devices []core1_0.PhysicalDevice) (int, []DeviceCandidate, error) {
	candidates := make([]DeviceCandidate, 0, len(devices))
	for _, device := range devices {
		candidate, err := CollectDeviceCandidate(instanceDriver, surfaceDriver, surface, device)
		if err != nil {
			return -1, nil, err
		}
		candidates = append(candidates, candidate)
	}

	index, err := SelectPhysicalDeviceIndex(candidates)
	return index, candidates, err
}
