package main

import (
	"log"
	"time"

	"github.com/loov/hrtime"
	"github.com/veandco/go-sdl2/sdl"
)

const fpsReportInterval = 5 * time.Second

func (app *TutorialApplication) mainLoop() error {
	rendering := true
	frames := 0

	lastFrame := hrtime.Now()
	reportStart := lastFrame
	reportFrames := 0

	for !app.input.ShouldClose() {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			if e, ok := event.(*sdl.WindowEvent); ok {
				switch e.Event {
				case sdl.WINDOWEVENT_MINIMIZED:
					rendering = false
				case sdl.WINDOWEVENT_RESTORED:
					rendering = true
				}
			}
			app.input.HandleEvent(event)
		}

		now := hrtime.Now()
		dt := now - lastFrame
		lastFrame = now

		if !rendering {
			sdl.Delay(10)
			continue
		}

		app.camera.Update(app.input.TakeCameraInput(), float32(dt.Seconds()))

		err := app.drawFrame()
		if err != nil {
			return err
		}

		frames++
		reportFrames++
		if elapsed := hrtime.Since(reportStart); elapsed >= fpsReportInterval {
			log.Printf("%.1f fps", float64(reportFrames)/elapsed.Seconds())
			reportStart = hrtime.Now()
			reportFrames = 0
		}

		if app.cfg.Frames > 0 && frames >= app.cfg.Frames {
			log.Printf("Rendered %d frames", frames)
			app.input.RequestClose()
		}
	}

	_, err := app.deviceDriver.DeviceWaitIdle()
	return err
}

// drawFrame runs one pass of the launchpad frame cycle: wait, record, submit, present.
func (app *TutorialApplication) drawFrame() error {
	app.uniformData.Transformation = app.camera.ViewProjection()
	frameIndex := app.framework.CurrentFrameIndex()

	err := app.framework.WaitForNextSwapchainImage()
	if err != nil {
		return err
	}

	// The fence for this frame has signaled, so its uniform buffer is free to overwrite.
	err = app.framework.CopyDataIntoHostCoherentBuffer(app.uniformBuffers[frameIndex], &app.uniformData)
	if err != nil {
		return err
	}

	cmd, err := app.framework.StartRecordingCommands()
	if err != nil {
		return err
	}

	app.teapot.Draw(app.framework, cmd, app.pipeline, app.descriptorSets[frameIndex])

	err = app.framework.EndRecordingCommands()
	if err != nil {
		return err
	}

	return app.framework.PresentCurrentSwapchainImage()
}
