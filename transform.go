package neurotoy

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Window is the pixel size of the drawable area. Both dimensions must be
// positive; that is guaranteed by the window module and not re-checked here.
type Window struct {
	Width  float32
	Height float32
}

// Camera is the 2D view state: a world-space center and a uniform zoom.
// Zoom must stay positive, the camera module clamps it.
type Camera struct {
	Position mgl32.Vec2
	Zoom     float32
}

// WorldToNDC maps a world-space point to normalized device coordinates.
// The order is fixed: translate by the camera center, scale by zoom, divide
// by the half window, then flip y to reconcile the top-left pixel origin
// with math-up world coordinates. Reordering changes pan/zoom behavior.
// Results outside [-1,1] are valid and clip downstream.
//
// This is the CPU mirror of world_to_clip in shaders/neuron.wgsl and
// shaders/synapse.wgsl; keep all three in lockstep.
func WorldToNDC(p mgl32.Vec2, win Window, cam Camera) mgl32.Vec2 {
	view := p.Sub(cam.Position).Mul(cam.Zoom)
	ndc := mgl32.Vec2{view.X() / (win.Width / 2), view.Y() / (win.Height / 2)}
	ndc[1] = -ndc[1]
	return ndc
}

// NDCToWorld is the exact inverse of WorldToNDC.
func NDCToWorld(ndc mgl32.Vec2, win Window, cam Camera) mgl32.Vec2 {
	ndc[1] = -ndc[1]
	view := mgl32.Vec2{ndc.X() * (win.Width / 2), ndc.Y() * (win.Height / 2)}
	return view.Mul(1 / cam.Zoom).Add(cam.Position)
}

// ScreenToWorld maps a top-left-origin pixel position to world space.
// NDC y = +1 is the top row of the framebuffer.
func ScreenToWorld(px, py float64, win Window, cam Camera) mgl32.Vec2 {
	ndc := mgl32.Vec2{
		float32(px)/win.Width*2 - 1,
		1 - float32(py)/win.Height*2,
	}
	return NDCToWorld(ndc, win, cam)
}

// WorldToScreen maps a world point to top-left-origin pixel coordinates.
func WorldToScreen(p mgl32.Vec2, win Window, cam Camera) (float32, float32) {
	ndc := WorldToNDC(p, win, cam)
	return (ndc.X() + 1) / 2 * win.Width, (1 - ndc.Y()) / 2 * win.Height
}

// InsideUnitDisk is the fragment containment rule of the neuron pipeline:
// the boundary is inclusive, so a local distance of exactly 1 is kept.
func InsideUnitDisk(local mgl32.Vec2) bool {
	return local.Len() <= 1.0
}
