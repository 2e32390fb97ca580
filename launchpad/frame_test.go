package launchpad

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/core/v3/mocks"
	"github.com/vkngwrapper/core/v3/mocks/mocks1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	"go.uber.org/mock/gomock"
)

func TestFrameStateCycle(t *testing.T) {
	state := frameIdle
	var err error

	for _, to := range []frameState{frameAcquired, frameRecording, frameSubmitted, frameIdle} {
		state, err = state.advance(to, "step")
		require.NoError(t, err)
		require.Equal(t, to, state)
	}
}

func TestFrameStateRejectsSkips(t *testing.T) {
	_, err := frameIdle.advance(frameRecording, "StartRecordingCommands")
	require.ErrorIs(t, err, ErrFrameOrder)
	require.Contains(t, err.Error(), "StartRecordingCommands called while the frame is idle")

	_, err = frameAcquired.advance(frameAcquired, "WaitForNextSwapchainImage")
	require.ErrorIs(t, err, ErrFrameOrder)

	_, err = frameRecording.advance(frameIdle, "PresentCurrentSwapchainImage")
	require.ErrorIs(t, err, ErrFrameOrder)
}

func TestFrameworkFrameOperationsOutOfOrder(t *testing.T) {
	f := &Framework{}

	_, err := f.StartRecordingCommands()
	require.ErrorIs(t, err, ErrFrameOrder)
	require.ErrorIs(t, f.EndRecordingCommands(), ErrFrameOrder)
	require.ErrorIs(t, f.PresentCurrentSwapchainImage(), ErrFrameOrder)

	f.state = frameRecording
	require.ErrorIs(t, f.WaitForNextSwapchainImage(), ErrFrameOrder)
	require.ErrorIs(t, f.PresentCurrentSwapchainImage(), ErrFrameOrder)
}

func TestFrameworkNilDestroy(t *testing.T) {
	var f *Framework
	f.Destroy()
	(&Framework{}).Destroy()
}

func expectRecordAndSubmit(deviceDriver *mocks1_0.MockCoreDeviceDriver, queue core1_0.Queue, frames int, submits *[]core1_0.SubmitInfo) {
	deviceDriver.EXPECT().WaitForFences(true, common.NoTimeout, gomock.Any()).Return(core1_0.VKSuccess, nil).AnyTimes()
	deviceDriver.EXPECT().ResetCommandBuffer(gomock.Any(), core1_0.CommandBufferResetFlags(0)).Return(core1_0.VKSuccess, nil).Times(frames)
	deviceDriver.EXPECT().BeginCommandBuffer(gomock.Any(), core1_0.CommandBufferBeginInfo{Flags: core1_0.CommandBufferUsageOneTimeSubmit}).Return(core1_0.VKSuccess, nil).Times(frames)
	deviceDriver.EXPECT().CmdBeginRenderPass(gomock.Any(), core1_0.SubpassContentsInline, gomock.Any()).Return(nil).Times(frames)
	deviceDriver.EXPECT().CmdEndRenderPass(gomock.Any()).Times(frames)
	deviceDriver.EXPECT().EndCommandBuffer(gomock.Any()).Return(core1_0.VKSuccess, nil).Times(frames)
	deviceDriver.EXPECT().ResetFences(gomock.Any()).Return(core1_0.VKSuccess, nil).Times(frames)
	deviceDriver.EXPECT().QueueSubmit(queue, gomock.Not(gomock.Nil()), gomock.Any()).DoAndReturn(
		func(queue core1_0.Queue, fence *core1_0.Fence, o ...core1_0.SubmitInfo) (common.VkResult, error) {
			*submits = append(*submits, o...)
			return core1_0.VKSuccess, nil
		}).Times(frames)
}

func renderFrame(t *testing.T, f *Framework) {
	require.NoError(t, f.WaitForNextSwapchainImage())
	buffer, err := f.StartRecordingCommands()
	require.NoError(t, err)
	require.Equal(t, f.commandBuffers[f.currentFrame], buffer)
	require.NoError(t, f.EndRecordingCommands())
	require.NoError(t, f.PresentCurrentSwapchainImage())
}

func TestFrameworkRotatesFrameSlots(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewDummyDevice(common.Vulkan1_1, []string{})
	deviceDriver := mocks1_0.NewMockCoreDeviceDriver(ctrl)
	queue := mocks.NewDummyQueue(device)
	expectInitObjects(deviceDriver, device)

	// A suboptimal swapchain is still presented and the frame still advances.
	swapchainDriver := &fakeSwapchainDriver{
		imageIndices:  []int{2, 0, 1},
		presentResult: khr_swapchain.VKSuboptimal,
	}
	config := testSwapchainConfig(device, 3)
	f, err := Init(InitInfo{
		DeviceDriver:    deviceDriver,
		SwapchainDriver: swapchainDriver,
		Queue:           queue,
		SwapchainConfig: config,
	})
	require.NoError(t, err)

	var submits []core1_0.SubmitInfo
	expectRecordAndSubmit(deviceDriver, queue, 3, &submits)

	for frame := 0; frame < 3; frame++ {
		renderFrame(t, f)
	}
	require.Equal(t, 1, f.CurrentFrameIndex())
	require.Equal(t, frameIdle, f.state)

	require.Equal(t, []core1_0.Semaphore{
		f.imageAvailableSemaphores[0],
		f.imageAvailableSemaphores[1],
		f.imageAvailableSemaphores[0],
	}, swapchainDriver.acquireSemaphores)

	require.Len(t, submits, 3)
	for i, imageIndex := range []int{2, 0, 1} {
		slot := i % MaxFramesInFlight
		require.Equal(t, []core1_0.Semaphore{f.imageAvailableSemaphores[slot]}, submits[i].WaitSemaphores)
		require.Equal(t, []core1_0.Semaphore{f.renderFinishedSemaphores[imageIndex]}, submits[i].SignalSemaphores)
		require.Equal(t, []core1_0.CommandBuffer{f.commandBuffers[slot]}, submits[i].CommandBuffers)

		present := swapchainDriver.presents[i]
		require.Equal(t, []core1_0.Semaphore{f.renderFinishedSemaphores[imageIndex]}, present.WaitSemaphores)
		require.Equal(t, []int{imageIndex}, present.ImageIndices)
		require.Equal(t, []khr_swapchain.Swapchain{config.SwapchainHandle}, present.Swapchains)
	}

	require.Equal(t, f.inFlightFences[0], f.imagesInFlight[2])
	require.Equal(t, f.inFlightFences[1], f.imagesInFlight[0])
	require.Equal(t, f.inFlightFences[0], f.imagesInFlight[1])
}

func TestFrameworkWaitsForImageStillInFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewDummyDevice(common.Vulkan1_1, []string{})
	deviceDriver := mocks1_0.NewMockCoreDeviceDriver(ctrl)
	expectInitObjects(deviceDriver, device)

	swapchainDriver := &fakeSwapchainDriver{imageIndices: []int{1}}
	f, err := Init(InitInfo{
		DeviceDriver:    deviceDriver,
		SwapchainDriver: swapchainDriver,
		SwapchainConfig: testSwapchainConfig(device, 2),
	})
	require.NoError(t, err)

	previous := mocks.NewDummyFence(device)
	f.imagesInFlight[1] = previous

	gomock.InOrder(
		deviceDriver.EXPECT().WaitForFences(true, common.NoTimeout, f.inFlightFences[0]).Return(core1_0.VKSuccess, nil),
		deviceDriver.EXPECT().WaitForFences(true, common.NoTimeout, previous).Return(core1_0.VKSuccess, nil),
	)

	require.NoError(t, f.WaitForNextSwapchainImage())
	require.Equal(t, 1, f.imageIndex)
	require.Equal(t, f.inFlightFences[0], f.imagesInFlight[1])
	require.Equal(t, frameAcquired, f.state)
}

func TestFrameworkPresentOutOfDateFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	device := mocks.NewDummyDevice(common.Vulkan1_1, []string{})
	deviceDriver := mocks1_0.NewMockCoreDeviceDriver(ctrl)
	queue := mocks.NewDummyQueue(device)
	expectInitObjects(deviceDriver, device)

	swapchainDriver := &fakeSwapchainDriver{
		imageIndices:  []int{0},
		presentResult: khr_swapchain.VKErrorOutOfDate,
		presentErr:    khr_swapchain.VKErrorOutOfDate.ToError(),
	}
	f, err := Init(InitInfo{
		DeviceDriver:    deviceDriver,
		SwapchainDriver: swapchainDriver,
		Queue:           queue,
		SwapchainConfig: testSwapchainConfig(device, 2),
	})
	require.NoError(t, err)

	var submits []core1_0.SubmitInfo
	expectRecordAndSubmit(deviceDriver, queue, 1, &submits)

	require.NoError(t, f.WaitForNextSwapchainImage())
	_, err = f.StartRecordingCommands()
	require.NoError(t, err)
	require.NoError(t, f.EndRecordingCommands())

	err = f.PresentCurrentSwapchainImage()
	require.Error(t, err)
	require.Contains(t, err.Error(), "present swapchain image")
	require.Equal(t, 0, f.CurrentFrameIndex())
}
