package neurotoy

import (
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanZoomCameraModule_Defaults(t *testing.T) {
	app := NewApp()
	PanZoomCameraModule{}.Install(app)

	cam := app.Resource(reflect.TypeOf(CameraState{})).(*CameraState)
	require.NotNil(t, cam)
	assert.Equal(t, float32(20), cam.Camera.Zoom)
	assert.Equal(t, float32(0.5), cam.minZoom)
	assert.Equal(t, float32(400), cam.maxZoom)
	assert.Equal(t, float32(1.1), cam.zoomStep)
}

func TestCameraState_Pan(t *testing.T) {
	cam := &CameraState{Camera: Camera{Zoom: 20}}
	cam.pan(40, -20)

	// Pixels divided by zoom, camera moves against the drag.
	assert.Equal(t, mgl32.Vec2{-2, 1}, cam.Camera.Position)
}

func TestCameraState_ZoomAboutKeepsAnchorFixed(t *testing.T) {
	win := Window{Width: 800, Height: 600}
	cam := &CameraState{
		Camera:   Camera{Position: mgl32.Vec2{3, -4}, Zoom: 20},
		minZoom:  0.5,
		maxZoom:  400,
		zoomStep: 1.1,
	}

	mouseX, mouseY := 100.0, 200.0
	before := ScreenToWorld(mouseX, mouseY, win, cam.Camera)
	cam.zoomAbout(mouseX, mouseY, 2, win)
	after := ScreenToWorld(mouseX, mouseY, win, cam.Camera)

	assert.Greater(t, cam.Camera.Zoom, float32(20))
	assert.InDelta(t, before.X(), after.X(), 1e-4)
	assert.InDelta(t, before.Y(), after.Y(), 1e-4)
}

func TestCameraState_ZoomClamped(t *testing.T) {
	win := Window{Width: 800, Height: 600}
	cam := &CameraState{
		Camera:   Camera{Zoom: 20},
		minZoom:  0.5,
		maxZoom:  400,
		zoomStep: 1.1,
	}

	cam.zoomAbout(400, 300, 1000, win)
	assert.Equal(t, float32(400), cam.Camera.Zoom)

	cam.zoomAbout(400, 300, -1000, win)
	assert.Equal(t, float32(0.5), cam.Camera.Zoom)
}

func TestPanZoomSystem_DragPans(t *testing.T) {
	cam := &CameraState{Camera: Camera{Zoom: 10}, minZoom: 0.5, maxZoom: 400, zoomStep: 1.1}
	input := &Input{MouseDeltaX: 10, MouseDeltaY: -5}
	input.Pressed[MouseButtonLeft] = true
	windowState := &WindowState{WindowWidth: 800, WindowHeight: 600}

	panZoomSystem(cam, input, windowState)
	assert.Equal(t, mgl32.Vec2{-1, 0.5}, cam.Camera.Position)
}

func TestPanZoomSystem_NoInputNoMotion(t *testing.T) {
	cam := &CameraState{Camera: Camera{Position: mgl32.Vec2{7, 7}, Zoom: 10}}
	windowState := &WindowState{WindowWidth: 800, WindowHeight: 600}

	panZoomSystem(cam, &Input{}, windowState)
	assert.Equal(t, mgl32.Vec2{7, 7}, cam.Camera.Position)
	assert.Equal(t, float32(10), cam.Camera.Zoom)
}
