package launchpad

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
)

// FindMemoryTypeIndex returns the first memory type allowed by typeFilter that has all of the
// requested properties. memoryTypes holds the property flags of each memory type, in order.
func FindMemoryTypeIndex(memoryTypes []core1_0.MemoryPropertyFlags, typeFilter uint32, properties core1_0.MemoryPropertyFlags) (int, error) {
	for i, flags := range memoryTypes {
		typeBit := uint32(1 << i)

		if (typeFilter&typeBit) != 0 && (flags&properties) == properties {
			return i, nil
		}
	}

	return -1, errors.Errorf("failed to find any suitable memory type for properties %s", properties)
}

func (f *Framework) findMemoryType(typeFilter uint32, properties core1_0.MemoryPropertyFlags) (int, error) {
	return findMemoryType(f.instanceDriver, f.physicalDevice, typeFilter, properties)
}

func findMemoryType(instanceDriver core1_0.CoreInstanceDriver, physicalDevice core1_0.PhysicalDevice, typeFilter uint32, properties core1_0.MemoryPropertyFlags) (int, error) {
	memProperties := instanceDriver.GetPhysicalDeviceMemoryProperties(physicalDevice)

	var memoryTypes []core1_0.MemoryPropertyFlags
	for _, memoryType := range memProperties.MemoryTypes {
		memoryTypes = append(memoryTypes, memoryType.PropertyFlags)
	}

	return FindMemoryTypeIndex(memoryTypes, typeFilter, properties)
}

func createBuffer(instanceDriver core1_0.CoreInstanceDriver, physicalDevice core1_0.PhysicalDevice, deviceDriver core1_0.CoreDeviceDriver, size int, usage core1_0.BufferUsageFlags, properties core1_0.MemoryPropertyFlags) (core1_0.Buffer, core1_0.DeviceMemory, error) {
	buffer, _, err := deviceDriver.CreateBuffer(nil, core1_0.BufferCreateInfo{
		Size:        size,
		Usage:       usage,
		SharingMode: core1_0.SharingModeExclusive,
	})
	if err != nil {
		return core1_0.Buffer{}, core1_0.DeviceMemory{}, errors.Wrap(err, "create buffer")
	}

	memRequirements := deviceDriver.GetBufferMemoryRequirements(buffer)
	memoryTypeIndex, err := findMemoryType(instanceDriver, physicalDevice, memRequirements.MemoryTypeBits, properties)
	if err != nil {
		deviceDriver.DestroyBuffer(buffer, nil)
		return core1_0.Buffer{}, core1_0.DeviceMemory{}, err
	}

	memory, _, err := deviceDriver.AllocateMemory(nil, core1_0.MemoryAllocateInfo{
		AllocationSize:  memRequirements.Size,
		MemoryTypeIndex: memoryTypeIndex,
	})
	if err != nil {
		deviceDriver.DestroyBuffer(buffer, nil)
		return core1_0.Buffer{}, core1_0.DeviceMemory{}, errors.Wrap(err, "allocate buffer memory")
	}

	_, err = deviceDriver.BindBufferMemory(buffer, memory, 0)
	if err != nil {
		deviceDriver.DestroyBuffer(buffer, nil)
		deviceDriver.FreeMemory(memory, nil)
		return core1_0.Buffer{}, core1_0.DeviceMemory{}, errors.Wrap(err, "bind buffer memory")
	}

	return buffer, memory, nil
}

func createImage(instanceDriver core1_0.CoreInstanceDriver, physicalDevice core1_0.PhysicalDevice, deviceDriver core1_0.CoreDeviceDriver, extent core1_0.Extent2D, format core1_0.Format, usage core1_0.ImageUsageFlags, memoryProperties core1_0.MemoryPropertyFlags) (core1_0.Image, core1_0.DeviceMemory, error) {
	image, _, err := deviceDriver.CreateImage(nil, core1_0.ImageCreateInfo{
		ImageType: core1_0.ImageType2D,
		Extent: core1_0.Extent3D{
			Width:  extent.Width,
			Height: extent.Height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Format:        format,
		Tiling:        core1_0.ImageTilingOptimal,
		InitialLayout: core1_0.ImageLayoutUndefined,
		Usage:         usage,
		SharingMode:   core1_0.SharingModeExclusive,
		Samples:       core1_0.Samples1,
	})
	if err != nil {
		return core1_0.Image{}, core1_0.DeviceMemory{}, errors.Wrap(err, "create image")
	}

	memReqs := deviceDriver.GetImageMemoryRequirements(image)
	memoryIndex, err := findMemoryType(instanceDriver, physicalDevice, memReqs.MemoryTypeBits, memoryProperties)
	if err != nil {
		deviceDriver.DestroyImage(image, nil)
		return core1_0.Image{}, core1_0.DeviceMemory{}, err
	}

	imageMemory, _, err := deviceDriver.AllocateMemory(nil, core1_0.MemoryAllocateInfo{
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memoryIndex,
	})
	if err != nil {
		deviceDriver.DestroyImage(image, nil)
		return core1_0.Image{}, core1_0.DeviceMemory{}, errors.Wrap(err, "allocate image memory")
	}

	_, err = deviceDriver.BindImageMemory(image, imageMemory, 0)
	if err != nil {
		deviceDriver.DestroyImage(image, nil)
		deviceDriver.FreeMemory(imageMemory, nil)
		return core1_0.Image{}, core1_0.DeviceMemory{}, errors.Wrap(err, "bind image memory")
	}

	return image, imageMemory, nil
}
