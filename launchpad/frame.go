package launchpad

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

type frameState int

const (
	frameIdle frameState = iota
	frameAcquired
	frameRecording
	frameSubmitted
)

func (s frameState) String() string {
	switch s {
	case frameIdle:
		return "idle"
	case frameAcquired:
		return "acquired"
	case frameRecording:
		return "recording"
	case frameSubmitted:
		return "submitted"
	}
	return "unknown"
}

// next is the only state each state may move to.
func (s frameState) next() frameState {
	return (s + 1) % 4
}

func (s frameState) advance(to frameState, operation string) (frameState, error) {
	if s.next() != to {
		return s, errors.Wrapf(ErrFrameOrder, "%s called while the frame is %s", operation, s)
	}
	return to, nil
}

// WaitForNextSwapchainImage waits until the current frame slot is free and acquires the
// next swapchain image to render into.
func (f *Framework) WaitForNextSwapchainImage() error {
	if _, err := f.state.advance(frameAcquired, "WaitForNextSwapchainImage"); err != nil {
		return err
	}

	fence := f.inFlightFences[f.currentFrame]
	_, err := f.deviceDriver.WaitForFences(true, common.NoTimeout, fence)
	if err != nil {
		return errors.Wrap(err, "wait for in flight fence")
	}

	imageIndex, _, err := f.swapchainDriver.AcquireNextImage(f.config.SwapchainHandle, common.NoTimeout, &f.imageAvailableSemaphores[f.currentFrame], nil)
	if err != nil {
		return errors.Wrap(err, "acquire next swapchain image")
	}

	if f.imagesInFlight[imageIndex].Initialized() {
		_, err := f.deviceDriver.WaitForFences(true, common.NoTimeout, f.imagesInFlight[imageIndex])
		if err != nil {
			return errors.Wrap(err, "wait for image in flight")
		}
	}
	f.imagesInFlight[imageIndex] = fence

	f.imageIndex = imageIndex
	f.state = frameAcquired
	return nil
}

// StartRecordingCommands begins the frame's command buffer and render pass, clearing the
// attachments, and hands the buffer back for draw commands.
func (f *Framework) StartRecordingCommands() (core1_0.CommandBuffer, error) {
	if _, err := f.state.advance(frameRecording, "StartRecordingCommands"); err != nil {
		return core1_0.CommandBuffer{}, err
	}

	buffer := f.commandBuffers[f.currentFrame]
	_, err := f.deviceDriver.ResetCommandBuffer(buffer, 0)
	if err != nil {
		return core1_0.CommandBuffer{}, errors.Wrap(err, "reset command buffer")
	}

	_, err = f.deviceDriver.BeginCommandBuffer(buffer, core1_0.CommandBufferBeginInfo{
		Flags: core1_0.CommandBufferUsageOneTimeSubmit,
	})
	if err != nil {
		return core1_0.CommandBuffer{}, errors.Wrap(err, "begin command buffer")
	}

	err = f.deviceDriver.CmdBeginRenderPass(buffer, core1_0.SubpassContentsInline,
		core1_0.RenderPassBeginInfo{
			RenderPass:  f.renderPass,
			Framebuffer: f.framebuffers[f.imageIndex],
			RenderArea: core1_0.Rect2D{
				Offset: core1_0.Offset2D{X: 0, Y: 0},
				Extent: f.config.ImageExtent,
			},
			ClearValues: f.config.clearValues(f.imageIndex),
		})
	if err != nil {
		return core1_0.CommandBuffer{}, errors.Wrap(err, "begin render pass")
	}

	f.state = frameRecording
	return buffer, nil
}

// EndRecordingCommands closes the render pass and submits the frame's commands.
func (f *Framework) EndRecordingCommands() error {
	if _, err := f.state.advance(frameSubmitted, "EndRecordingCommands"); err != nil {
		return err
	}

	buffer := f.commandBuffers[f.currentFrame]
	f.deviceDriver.CmdEndRenderPass(buffer)

	_, err := f.deviceDriver.EndCommandBuffer(buffer)
	if err != nil {
		return errors.Wrap(err, "end command buffer")
	}

	_, err = f.deviceDriver.ResetFences(f.inFlightFences[f.currentFrame])
	if err != nil {
		return errors.Wrap(err, "reset in flight fence")
	}

	_, err = f.deviceDriver.QueueSubmit(f.queue, &f.inFlightFences[f.currentFrame],
		core1_0.SubmitInfo{
			WaitSemaphores:   []core1_0.Semaphore{f.imageAvailableSemaphores[f.currentFrame]},
			WaitDstStageMask: []core1_0.PipelineStageFlags{core1_0.PipelineStageColorAttachmentOutput},
			CommandBuffers:   []core1_0.CommandBuffer{buffer},
			SignalSemaphores: []core1_0.Semaphore{f.renderFinishedSemaphores[f.imageIndex]},
		},
	)
	if err != nil {
		return errors.Wrap(err, "submit draw command buffer")
	}

	f.state = frameSubmitted
	return nil
}

// PresentCurrentSwapchainImage queues the rendered image for presentation and moves on to
// the next frame slot.
func (f *Framework) PresentCurrentSwapchainImage() error {
	if _, err := f.state.advance(frameIdle, "PresentCurrentSwapchainImage"); err != nil {
		return err
	}

	res, err := f.swapchainDriver.QueuePresent(f.queue, khr_swapchain.PresentInfo{
		WaitSemaphores: []core1_0.Semaphore{f.renderFinishedSemaphores[f.imageIndex]},
		Swapchains:     []khr_swapchain.Swapchain{f.config.SwapchainHandle},
		ImageIndices:   []int{f.imageIndex},
	})
	// The window cannot be resized, so a suboptimal swapchain is still presentable.
	if err != nil && res != khr_swapchain.VKSuboptimal {
		return errors.Wrap(err, "present swapchain image")
	}

	f.currentFrame = (f.currentFrame + 1) % MaxFramesInFlight
	f.state = frameIdle
	return nil
}
