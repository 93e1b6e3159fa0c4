package neurotoy

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyN int = iota
	KeyR
	KeySpace
	KeyEscape
	KeyF2
	MouseButtonLeft
	MouseButtonRight
	keyCount
)

var keyToGlfw = map[int]glfw.Key{
	KeyN:      glfw.KeyN,
	KeyR:      glfw.KeyR,
	KeySpace:  glfw.KeySpace,
	KeyEscape: glfw.KeyEscape,
	KeyF2:     glfw.KeyF2,
}

var buttonToGlfw = map[int]glfw.MouseButton{
	MouseButtonLeft:  glfw.MouseButtonLeft,
	MouseButtonRight: glfw.MouseButtonRight,
}

type InputModule struct{}

// Input is per-frame keyboard and mouse state. Scroll arrives through a
// GLFW callback and is accumulated until the input system folds it into
// the next frame.
type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	ScrollY                  float64

	pendingScrollY float64
	initialized    bool
}

func (mod InputModule) Install(app *App) {
	app.AddResources(&Input{})
	app.UseSystem(
		System(inputSystem).InStage(PreUpdate),
	)
}

func inputSystem(s *WindowState, input *Input) {
	if !input.initialized {
		input.initialized = true
		s.windowGlfw.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
			input.pendingScrollY += yoff
		})
		input.MouseX, input.MouseY = s.windowGlfw.GetCursorPos()
	}

	// Keyboard and mouse buttons
	for key, glfwKey := range keyToGlfw {
		updateKeyState(input, key, s.windowGlfw.GetKey(glfwKey))
	}
	for button, glfwButton := range buttonToGlfw {
		updateKeyState(input, button, s.windowGlfw.GetMouseButton(glfwButton))
	}

	// Cursor
	mx, my := s.windowGlfw.GetCursorPos()
	input.MouseDeltaX = mx - input.MouseX
	input.MouseDeltaY = my - input.MouseY
	input.MouseX = mx
	input.MouseY = my

	// Scroll
	input.ScrollY = input.pendingScrollY
	input.pendingScrollY = 0
}

func updateKeyState(input *Input, key int, action glfw.Action) {
	input.JustPressed[key] = false
	input.JustReleased[key] = false

	if glfw.Press == action {
		if !input.Pressed[key] {
			input.JustPressed[key] = true
		}
		input.Pressed[key] = true
	} else if glfw.Release == action {
		if input.Pressed[key] {
			input.JustReleased[key] = true
		}
		input.Pressed[key] = false
	}
}
