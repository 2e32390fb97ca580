package launchpad

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/core/v3/mocks"
	"github.com/vkngwrapper/core/v3/mocks/mocks1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	mock_surface "github.com/vkngwrapper/extensions/v3/khr_surface/mocks"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	"go.uber.org/mock/gomock"
)

func suitableCandidate(name string, deviceType core1_0.PhysicalDeviceType, maxDim int) DeviceCandidate {
	return DeviceCandidate{
		Name:                name,
		Type:                deviceType,
		MaxImageDimension2D: maxDim,
		HasQueueFamily:      true,
		SupportsSwapchain:   true,
		SurfaceFormats:      2,
		SurfacePresentModes: 1,
	}
}

func TestSuitability(t *testing.T) {
	discrete := suitableCandidate("discrete", core1_0.PhysicalDeviceTypeDiscreteGPU, 16384)
	require.Equal(t, 17384, discrete.Suitability())

	integrated := suitableCandidate("integrated", core1_0.PhysicalDeviceTypeIntegratedGPU, 8192)
	require.Equal(t, 8292, integrated.Suitability())

	noQueue := discrete
	noQueue.HasQueueFamily = false
	require.Zero(t, noQueue.Suitability())

	noSwapchain := discrete
	noSwapchain.SupportsSwapchain = false
	require.Zero(t, noSwapchain.Suitability())

	noFormats := discrete
	noFormats.SurfaceFormats = 0
	require.Zero(t, noFormats.Suitability())

	noModes := discrete
	noModes.SurfacePresentModes = 0
	require.Zero(t, noModes.Suitability())
}

func TestSelectPhysicalDeviceIndexPrefersHighestScore(t *testing.T) {
	index, err := SelectPhysicalDeviceIndex([]DeviceCandidate{
		suitableCandidate("integrated", core1_0.PhysicalDeviceTypeIntegratedGPU, 16384),
		suitableCandidate("discrete", core1_0.PhysicalDeviceTypeDiscreteGPU, 16384),
	})
	require.NoError(t, err)
	require.Equal(t, 1, index)
}

func TestSelectPhysicalDeviceIndexTieKeepsFirst(t *testing.T) {
	index, err := SelectPhysicalDeviceIndex([]DeviceCandidate{
		suitableCandidate("first", core1_0.PhysicalDeviceTypeDiscreteGPU, 8192),
		suitableCandidate("second", core1_0.PhysicalDeviceTypeDiscreteGPU, 8192),
	})
	require.NoError(t, err)
	require.Equal(t, 0, index)
}

func TestSelectPhysicalDeviceIndexSkipsUnsuitable(t *testing.T) {
	unsuitable := suitableCandidate("big", core1_0.PhysicalDeviceTypeDiscreteGPU, 32768)
	unsuitable.SupportsSwapchain = false

	index, err := SelectPhysicalDeviceIndex([]DeviceCandidate{
		unsuitable,
		suitableCandidate("small", core1_0.PhysicalDeviceTypeIntegratedGPU, 4096),
	})
	require.NoError(t, err)
	require.Equal(t, 1, index)
}

func TestSelectPhysicalDeviceIndexNoneSuitable(t *testing.T) {
	_, err := SelectPhysicalDeviceIndex(nil)
	require.ErrorIs(t, err, ErrNoSuitableDevice)

	unsuitable := suitableCandidate("cpu", core1_0.PhysicalDeviceTypeDiscreteGPU, 4096)
	unsuitable.HasQueueFamily = false
	_, err = SelectPhysicalDeviceIndex([]DeviceCandidate{unsuitable})
	require.ErrorIs(t, err, ErrNoSuitableDevice)
}

func presentFor(indices ...int) func(int) (bool, error) {
	return func(index int) (bool, error) {
		for _, i := range indices {
			if i == index {
				return true, nil
			}
		}
		return false, nil
	}
}

func TestSelectQueueFamilyIndexFirstGraphicsAndPresent(t *testing.T) {
	families := []core1_0.QueueFlags{
		core1_0.QueueTransfer,
		core1_0.QueueGraphics | core1_0.QueueCompute,
		core1_0.QueueGraphics,
	}

	index, err := SelectQueueFamilyIndex(families, presentFor(0, 1, 2))
	require.NoError(t, err)
	require.Equal(t, 1, index)

	index, err = SelectQueueFamilyIndex(families, presentFor(0, 2))
	require.NoError(t, err)
	require.Equal(t, 2, index)
}

func TestSelectQueueFamilyIndexNoMatch(t *testing.T) {
	families := []core1_0.QueueFlags{core1_0.QueueGraphics, core1_0.QueueCompute}

	_, err := SelectQueueFamilyIndex(families, presentFor(1))
	require.ErrorIs(t, err, ErrNoSuitableQueueFamily)

	_, err = SelectQueueFamilyIndex(nil, presentFor(0))
	require.ErrorIs(t, err, ErrNoSuitableQueueFamily)
}

func TestSelectQueueFamilyIndexPropagatesQueryError(t *testing.T) {
	queryErr := errors.New("device lost")
	_, err := SelectQueueFamilyIndex([]core1_0.QueueFlags{core1_0.QueueGraphics}, func(int) (bool, error) {
		return false, queryErr
	})
	require.ErrorIs(t, err, queryErr)
	require.NotErrorIs(t, err, ErrNoSuitableQueueFamily)
}

func TestCheckQueueFamilyIndex(t *testing.T) {
	require.NoError(t, CheckQueueFamilyIndex(0, 1))
	require.NoError(t, CheckQueueFamilyIndex(2, 3))
	require.ErrorIs(t, CheckQueueFamilyIndex(3, 3), ErrInvalidQueueFamily)
	require.ErrorIs(t, CheckQueueFamilyIndex(-1, 3), ErrInvalidQueueFamily)
}

type fakeSurfaceDriver struct {
	khr_surface.ExtensionDriver

	presentFamilies map[int]bool
	formats         []khr_surface.SurfaceFormat
	presentModes    []khr_surface.PresentMode

	formatQueries      int
	presentModeQueries int
}

func (d *fakeSurfaceDriver) GetPhysicalDeviceSurfaceSupport(surface khr_surface.Surface, physicalDevice core1_0.PhysicalDevice, queueFamilyIndex int) (bool, common.VkResult, error) {
	return d.presentFamilies[queueFamilyIndex], core1_0.VKSuccess, nil
}

func (d *fakeSurfaceDriver) GetPhysicalDeviceSurfaceFormats(surface khr_surface.Surface, device core1_0.PhysicalDevice) ([]khr_surface.SurfaceFormat, common.VkResult, error) {
	d.formatQueries++
	return d.formats, core1_0.VKSuccess, nil
}

func (d *fakeSurfaceDriver) GetPhysicalDeviceSurfacePresentModes(surface khr_surface.Surface, device core1_0.PhysicalDevice) ([]khr_surface.PresentMode, common.VkResult, error) {
	d.presentModeQueries++
	return d.presentModes, core1_0.VKSuccess, nil
}

func expectDeviceQueries(instanceDriver *mocks1_0.MockCoreInstanceDriver, device core1_0.PhysicalDevice, name string, extensions ...string) {
	instanceDriver.EXPECT().GetPhysicalDeviceProperties(device).Return(&core1_0.PhysicalDeviceProperties{
		DriverName: name,
		DriverType: core1_0.PhysicalDeviceTypeDiscreteGPU,
		Limits:     &core1_0.PhysicalDeviceLimits{MaxImageDimension2D: 16384},
	}, nil)
	instanceDriver.EXPECT().GetPhysicalDeviceQueueFamilyProperties(device).Return([]*core1_0.QueueFamilyProperties{
		{QueueFlags: core1_0.QueueTransfer, QueueCount: 1},
		{QueueFlags: core1_0.QueueGraphics | core1_0.QueueCompute, QueueCount: 16},
	})

	available := make(map[string]*core1_0.ExtensionProperties)
	for _, extension := range extensions {
		available[extension] = &core1_0.ExtensionProperties{ExtensionName: extension}
	}
	instanceDriver.EXPECT().EnumerateDeviceExtensionProperties(device).Return(available, core1_0.VKSuccess, nil)
}

func TestCollectDeviceCandidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	instance := mocks.NewDummyInstance(common.Vulkan1_1, []string{})
	device := mocks.NewDummyPhysicalDevice(instance, common.Vulkan1_1)
	surface := mock_surface.NewDummySurface(instance)
	instanceDriver := mocks1_0.NewMockCoreInstanceDriver(ctrl)

	surfaceDriver := &fakeSurfaceDriver{
		presentFamilies: map[int]bool{1: true},
		formats:         []khr_surface.SurfaceFormat{{Format: core1_0.FormatB8G8R8A8SRGB}},
		presentModes:    []khr_surface.PresentMode{khr_surface.PresentModeFIFO, khr_surface.PresentModeMailbox},
	}
	expectDeviceQueries(instanceDriver, device, "GeForce", khr_swapchain.ExtensionName)

	candidate, err := CollectDeviceCandidate(instanceDriver, surfaceDriver, surface, device)
	require.NoError(t, err)
	require.Equal(t, DeviceCandidate{
		Name:                "GeForce",
		Type:                core1_0.PhysicalDeviceTypeDiscreteGPU,
		MaxImageDimension2D: 16384,
		HasQueueFamily:      true,
		SupportsSwapchain:   true,
		SurfaceFormats:      1,
		SurfacePresentModes: 2,
	}, candidate)
	require.Equal(t, 17384, candidate.Suitability())
}

func TestCollectDeviceCandidateWithoutSwapchainSkipsSurfaceQueries(t *testing.T) {
	ctrl := gomock.NewController(t)
	instance := mocks.NewDummyInstance(common.Vulkan1_1, []string{})
	device := mocks.NewDummyPhysicalDevice(instance, common.Vulkan1_1)
	surface := mock_surface.NewDummySurface(instance)
	instanceDriver := mocks1_0.NewMockCoreInstanceDriver(ctrl)

	surfaceDriver := &fakeSurfaceDriver{presentFamilies: map[int]bool{1: true}}
	expectDeviceQueries(instanceDriver, device, "compute only")

	candidate, err := CollectDeviceCandidate(instanceDriver, surfaceDriver, surface, device)
	require.NoError(t, err)
	require.True(t, candidate.HasQueueFamily)
	require.False(t, candidate.SupportsSwapchain)
	require.Zero(t, candidate.SurfaceFormats)
	require.Zero(t, candidate.SurfacePresentModes)
	require.Zero(t, surfaceDriver.formatQueries)
	require.Zero(t, surfaceDriver.presentModeQueries)
	require.Zero(t, candidate.Suitability())
}

func TestSelectPhysicalDeviceSkipsDeviceWithoutSwapchain(t *testing.T) {
	ctrl := gomock.NewController(t)
	instance := mocks.NewDummyInstance(common.Vulkan1_1, []string{})
	headless := mocks.NewDummyPhysicalDevice(instance, common.Vulkan1_1)
	display := mocks.NewDummyPhysicalDevice(instance, common.Vulkan1_1)
	surface := mock_surface.NewDummySurface(instance)
	instanceDriver := mocks1_0.NewMockCoreInstanceDriver(ctrl)

	surfaceDriver := &fakeSurfaceDriver{
		presentFamilies: map[int]bool{1: true},
		formats:         []khr_surface.SurfaceFormat{{Format: core1_0.FormatB8G8R8A8UnsignedNormalized}},
		presentModes:    []khr_surface.PresentMode{khr_surface.PresentModeFIFO},
	}
	expectDeviceQueries(instanceDriver, headless, "headless")
	expectDeviceQueries(instanceDriver, display, "display", khr_swapchain.ExtensionName)

	index, candidates, err := SelectPhysicalDevice(instanceDriver, surfaceDriver, surface, []core1_0.PhysicalDevice{headless, display})
	require.NoError(t, err)
	require.Equal(t, 1, index)
	require.Len(t, candidates, 2)
	require.Equal(t, "display", candidates[index].Name)
	require.Equal(t, 1, surfaceDriver.formatQueries)
}

func TestDeviceFeaturesForPolygonMode(t *testing.T) {
	features, err := DeviceFeaturesForPolygonMode(&core1_0.PhysicalDeviceFeatures{}, core1_0.PolygonModeFill)
	require.NoError(t, err)
	require.False(t, features.FillModeNonSolid)

	features, err = DeviceFeaturesForPolygonMode(&core1_0.PhysicalDeviceFeatures{FillModeNonSolid: true}, core1_0.PolygonModeLine)
	require.NoError(t, err)
	require.True(t, features.FillModeNonSolid)

	_, err = DeviceFeaturesForPolygonMode(&core1_0.PhysicalDeviceFeatures{}, core1_0.PolygonModeLine)
	require.ErrorIs(t, err, ErrFeatureNotSupported)
	require.Contains(t, err.Error(), "fillModeNonSolid")

	_, err = DeviceFeaturesForPolygonMode(nil, core1_0.PolygonModePoint)
	require.ErrorIs(t, err, ErrFeatureNotSupported)
}
