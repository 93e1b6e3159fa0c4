package neurotoy

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraState is the live 2D view. Position and Zoom feed the camera
// uniform every frame.
type CameraState struct {
	Camera Camera

	minZoom  float32
	maxZoom  float32
	zoomStep float32
}

// cameraUniform matches the WGSL CameraUniform layout: vec2 center, zoom,
// and explicit padding up to 16 bytes.
type cameraUniform struct {
	CenterX float32
	CenterY float32
	Zoom    float32
	Pad     float32
}

func (s *CameraState) uniform() cameraUniform {
	return cameraUniform{
		CenterX: s.Camera.Position.X(),
		CenterY: s.Camera.Position.Y(),
		Zoom:    s.Camera.Zoom,
	}
}

// PanZoomCameraModule installs a pannable/zoomable 2D camera. Left-drag
// pans, scrolling zooms about the cursor so the world point under it stays
// put. Zoom is clamped to a positive range; the transform contract requires
// zoom > 0.
type PanZoomCameraModule struct {
	InitialZoom float32
	MinZoom     float32
	MaxZoom     float32
	ZoomStep    float32
}

func (mod PanZoomCameraModule) Install(app *App) {
	initialZoom := mod.InitialZoom
	if initialZoom <= 0 {
		initialZoom = 20.0
	}
	minZoom := mod.MinZoom
	if minZoom <= 0 {
		minZoom = 0.5
	}
	maxZoom := mod.MaxZoom
	if maxZoom <= 0 {
		maxZoom = 400.0
	}
	zoomStep := mod.ZoomStep
	if zoomStep <= 1 {
		zoomStep = 1.1
	}

	app.AddResources(&CameraState{
		Camera:   Camera{Zoom: initialZoom},
		minZoom:  minZoom,
		maxZoom:  maxZoom,
		zoomStep: zoomStep,
	})
	app.UseSystem(
		System(panZoomSystem).InStage(Update),
	)
}

func panZoomSystem(cam *CameraState, input *Input, windowState *WindowState) {
	win := windowState.Window()

	if input.Pressed[MouseButtonLeft] {
		cam.pan(float32(input.MouseDeltaX), float32(input.MouseDeltaY))
	}
	if input.ScrollY != 0 {
		cam.zoomAbout(input.MouseX, input.MouseY, input.ScrollY, win)
	}
}

// pan moves the camera so the world follows the cursor. World axes align
// with screen axes after the transform's y flip, so no sign change here.
func (s *CameraState) pan(dxPx, dyPx float32) {
	s.Camera.Position = s.Camera.Position.Sub(
		mgl32.Vec2{dxPx, dyPx}.Mul(1 / s.Camera.Zoom),
	)
}

// zoomAbout rescales the view about the world point under the cursor.
func (s *CameraState) zoomAbout(mouseX, mouseY, scrollY float64, win Window) {
	anchor := ScreenToWorld(mouseX, mouseY, win, s.Camera)

	oldZoom := s.Camera.Zoom
	newZoom := oldZoom * float32(math.Pow(float64(s.zoomStep), scrollY))
	if newZoom < s.minZoom {
		newZoom = s.minZoom
	}
	if newZoom > s.maxZoom {
		newZoom = s.maxZoom
	}

	// Keep the anchor fixed on screen: (anchor - pos') * zoom' == (anchor - pos) * zoom.
	s.Camera.Position = anchor.Sub(anchor.Sub(s.Camera.Position).Mul(oldZoom / newZoom))
	s.Camera.Zoom = newZoom
}
