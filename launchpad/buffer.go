package launchpad

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
)

// HostCoherentBuffer is a buffer whose memory is host visible and coherent, so the CPU can
// write into it without explicit flushes.
type HostCoherentBuffer struct {
	Buffer core1_0.Buffer
	Memory core1_0.DeviceMemory
	Size   int
}

// CreateHostCoherentBufferWithBackingMemory creates a buffer of size bytes and binds freshly
// allocated host-visible, host-coherent memory to it.
func (f *Framework) CreateHostCoherentBufferWithBackingMemory(size int, usage core1_0.BufferUsageFlags) (*HostCoherentBuffer, error) {
	if size <= 0 {
		return nil, errors.Newf("buffer size must be positive, got %d", size)
	}

	buffer, memory, err := createBuffer(f.instanceDriver, f.physicalDevice, f.deviceDriver, size, usage,
		core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCoherent)
	if err != nil {
		return nil, err
	}

	return &HostCoherentBuffer{Buffer: buffer, Memory: memory, Size: size}, nil
}

// CopyDataIntoHostCoherentBuffer encodes data in Vulkan byte order and writes it to the start
// of the buffer. data must be a fixed-size value, a pointer to one, or a slice of them.
func (f *Framework) CopyDataIntoHostCoherentBuffer(buffer *HostCoherentBuffer, data any) error {
	encoded, err := EncodeData(data)
	if err != nil {
		return err
	}
	if err := checkFits(len(encoded), buffer.Size); err != nil {
		return err
	}

	memoryPtr, _, err := f.deviceDriver.MapMemory(buffer.Memory, 0, len(encoded), 0)
	if err != nil {
		return errors.Wrap(err, "map buffer memory")
	}
	defer f.deviceDriver.UnmapMemory(buffer.Memory)

	dataBuffer := unsafe.Slice((*byte)(memoryPtr), len(encoded))
	copy(dataBuffer, encoded)
	return nil
}

// DestroyHostCoherentBufferAndItsBackingMemory releases the buffer and its memory.
func (f *Framework) DestroyHostCoherentBufferAndItsBackingMemory(buffer *HostCoherentBuffer) {
	if buffer == nil {
		return
	}

	if buffer.Buffer.Initialized() {
		f.deviceDriver.DestroyBuffer(buffer.Buffer, nil)
		buffer.Buffer = core1_0.Buffer{}
	}
	if buffer.Memory.Initialized() {
		f.deviceDriver.FreeMemory(buffer.Memory, nil)
		buffer.Memory = core1_0.DeviceMemory{}
	}
}

// EncodeData serializes data the way the GPU expects to read it.
func EncodeData(data any) ([]byte, error) {
	if binary.Size(data) < 0 {
		return nil, errors.Newf("cannot encode %T: not a fixed-size value", data)
	}

	buf := &bytes.Buffer{}
	if err := binary.Write(buf, common.ByteOrder, data); err != nil {
		return nil, errors.Wrapf(err, "encode %T", data)
	}
	return buf.Bytes(), nil
}

func checkFits(dataSize, bufferSize int) error {
	if dataSize > bufferSize {
		return errors.Wrapf(ErrBufferTooSmall, "%d bytes into a %d byte buffer", dataSize, bufferSize)
	}
	return nil
}
