package launchpad

import (
	"bytes"
	"encoding/binary"
	"log"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
)

// VK_PIPELINE_CACHE_HEADER_VERSION_ONE
const cacheHeaderVersionOne uint32 = 1

// CacheIdentity is what a pipeline cache header must match to be reused on this device.
type CacheIdentity struct {
	VendorID          uint32
	DeviceID          uint32
	PipelineCacheUUID uuid.UUID
}

type cacheHeader struct {
	HeaderLength  uint32
	HeaderVersion uint32
	VendorID      uint32
	DeviceID      uint32
	CacheUUID     uuid.UUID
}

// ValidateCacheHeader checks the header Vulkan writes at the start of pipeline cache data:
// header length, header version, vendor ID, device ID and the pipeline cache UUID.
func ValidateCacheHeader(data []byte, identity CacheIdentity) error {
	var header cacheHeader
	err := binary.Read(bytes.NewReader(data), common.ByteOrder, &header)
	if err != nil {
		return errors.Wrap(err, "read pipeline cache header")
	}

	if header.HeaderLength == 0 {
		return errors.Newf("bad header length 0x%x", header.HeaderLength)
	}
	if header.HeaderVersion != cacheHeaderVersionOne {
		return errors.Newf("unsupported cache header version 0x%x", header.HeaderVersion)
	}
	if header.VendorID != identity.VendorID {
		return errors.Newf("vendor ID mismatch: cache contains 0x%x, driver expects 0x%x", header.VendorID, identity.VendorID)
	}
	if header.DeviceID != identity.DeviceID {
		return errors.Newf("device ID mismatch: cache contains 0x%x, driver expects 0x%x", header.DeviceID, identity.DeviceID)
	}
	if header.CacheUUID != identity.PipelineCacheUUID {
		return errors.Newf("UUID mismatch: cache contains %s, driver expects %s", header.CacheUUID, identity.PipelineCacheUUID)
	}

	return nil
}

// LoadPipelineCacheData reads cache data from path. Missing files and files whose header does
// not match identity yield nil data; a mismatched file is removed so the next run repopulates it.
func LoadPipelineCacheData(path string, identity CacheIdentity) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Printf("Pipeline cache miss: %s", path)
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrapf(err, "read pipeline cache %s", path)
	}

	err = ValidateCacheHeader(data, identity)
	if err != nil {
		log.Printf("Discarding pipeline cache %s: %v", path, err)
		// not important if this fails
		_ = os.Remove(path)
		return nil, nil
	}

	log.Printf("Pipeline cache hit: %s (%d bytes)", path, len(data))
	return data, nil
}

func (f *Framework) pipelineCacheIdentity() (CacheIdentity, error) {
	properties, err := f.instanceDriver.GetPhysicalDeviceProperties(f.physicalDevice)
	if err != nil {
		return CacheIdentity{}, errors.Wrap(err, "get physical device properties")
	}

	return CacheIdentity{
		VendorID:          properties.VendorID,
		DeviceID:          properties.DeviceID,
		PipelineCacheUUID: properties.PipelineCacheUUID,
	}, nil
}

func (f *Framework) createPipelineCache() error {
	if f.pipelineCachePath == "" {
		return nil
	}

	identity, err := f.pipelineCacheIdentity()
	if err != nil {
		return err
	}

	initialData, err := LoadPipelineCacheData(f.pipelineCachePath, identity)
	if err != nil {
		return err
	}

	f.pipelineCache, _, err = f.deviceDriver.CreatePipelineCache(nil, core1_0.PipelineCacheCreateInfo{
		InitialData: initialData,
	})
	if err != nil {
		return errors.Wrap(err, "create pipeline cache")
	}
	return nil
}

func (f *Framework) pipelineCacheHandle() *core1_0.PipelineCache {
	if !f.pipelineCache.Initialized() {
		return nil
	}
	return &f.pipelineCache
}

func (f *Framework) destroyPipelineCache() {
	if !f.pipelineCache.Initialized() {
		return
	}

	data, _, err := f.deviceDriver.GetPipelineCacheData(f.pipelineCache)
	if err != nil {
		log.Printf("read pipeline cache data: %+v", err)
	} else if err := os.WriteFile(f.pipelineCachePath, data, 0666); err != nil {
		log.Printf("write pipeline cache %s: %+v", f.pipelineCachePath, err)
	}

	f.deviceDriver.DestroyPipelineCache(f.pipelineCache, nil)
	f.pipelineCache = core1_0.PipelineCache{}
}
