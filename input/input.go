// Package input tracks keyboard and mouse state from SDL events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/teapot-tutorial/camera"
)

// State holds which keys are down, whether the window was asked to close, and the mouse
// movement collected since the last TakeCameraInput.
type State struct {
	keysDown    map[sdl.Keycode]bool
	shouldClose bool

	dragging     bool
	dragX, dragY float32
	wheel        float32
}

func NewState() *State {
	return &State{keysDown: make(map[sdl.Keycode]bool)}
}

// HandleEvent updates the state from one SDL event. Other event types are ignored.
func (s *State) HandleEvent(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		s.shouldClose = true

	case *sdl.KeyboardEvent:
		key := e.Keysym.Sym
		switch e.State {
		case sdl.PRESSED:
			s.keysDown[key] = true
		case sdl.RELEASED:
			s.keysDown[key] = false
			if key == sdl.K_ESCAPE {
				s.shouldClose = true
			}
		}

	case *sdl.MouseButtonEvent:
		if e.Button == sdl.BUTTON_LEFT {
			s.dragging = e.State == sdl.PRESSED
		}

	case *sdl.MouseMotionEvent:
		if s.dragging {
			s.dragX += float32(e.XRel)
			s.dragY += float32(e.YRel)
		}

	case *sdl.MouseWheelEvent:
		s.wheel += float32(e.Y)
	}
}

// IsKeyDown reports whether key is held. Keys never seen are up.
func (s *State) IsKeyDown(key sdl.Keycode) bool {
	return s.keysDown[key]
}

func (s *State) ShouldClose() bool {
	return s.shouldClose
}

func (s *State) RequestClose() {
	s.shouldClose = true
}

// TakeCameraInput returns the frame's camera input and resets the accumulated mouse deltas.
func (s *State) TakeCameraInput() camera.Input {
	in := camera.Input{
		DragX: s.dragX,
		DragY: s.dragY,
		Wheel: s.wheel,

		Left:  s.IsKeyDown(sdl.K_LEFT) || s.IsKeyDown(sdl.K_a),
		Right: s.IsKeyDown(sdl.K_RIGHT) || s.IsKeyDown(sdl.K_d),
		Up:    s.IsKeyDown(sdl.K_UP) || s.IsKeyDown(sdl.K_w),
		Down:  s.IsKeyDown(sdl.K_DOWN) || s.IsKeyDown(sdl.K_s),
	}

	s.dragX, s.dragY, s.wheel = 0, 0, 0
	return in
}
