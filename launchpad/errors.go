package launchpad

import "github.com/cockroachdb/errors"

var (
	ErrExtensionNotSupported  = errors.New("extension not supported")
	ErrLayerNotSupported      = errors.New("layer not supported")
	ErrNoSuitableDevice       = errors.New("failed to find a suitable GPU")
	ErrNoSuitableQueueFamily  = errors.New("unable to find a suitable queue family that supports graphics and presentation on the same queue")
	ErrInvalidQueueFamily     = errors.New("invalid queue family index selected")
	ErrImageCountMismatch     = errors.New("image count mismatch")
	ErrInvalidSwapchainConfig = errors.New("invalid swapchain config")
	ErrFrameOrder             = errors.New("frame operation called out of order")
	ErrBufferTooSmall         = errors.New("data does not fit into buffer")
	ErrFeatureNotSupported    = errors.New("device feature not supported")
)
