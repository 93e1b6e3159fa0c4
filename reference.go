package neurotoy

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/vector"
)

// CPU reference renderer. Shares the transform, color map and geometry rules
// with the WGSL pipelines and produces an image without a GPU: synapse quads
// are filled through x/image/vector with over-blending, neuron disks use the
// exact inclusive containment test the fragment shader applies. Synapse
// edges come out antialiased here where the GPU's are hard; everything else
// matches.

// Synapse colors and the degenerate-segment guard mirror shaders/synapse.wgsl.
var (
	synapseInactiveColor = [4]float32{0.25, 0.25, 0.25, 0.35}
	synapseActiveColor   = [4]float32{1.0, 0.15, 0.1, 0.5}
)

const degenerateEpsilon float32 = 1e-6

// SynapseColor maps a state code to the line color: zero is quiet gray,
// every nonzero code collapses to the same active red.
func SynapseColor(state uint32) [4]float32 {
	if state == 0 {
		return synapseInactiveColor
	}
	return synapseActiveColor
}

// SynapseQuad expands a segment into the four world-space corners of its
// oriented rectangle, in quad-vertex order. A degenerate segment keeps the
// +x direction instead of producing NaNs.
func SynapseQuad(endA, endB mgl32.Vec2, halfThickness float32) [4]mgl32.Vec2 {
	seg := endB.Sub(endA)
	length := seg.Len()
	dir := mgl32.Vec2{1, 0}
	if length > degenerateEpsilon {
		dir = seg.Mul(1 / length)
	}
	normal := mgl32.Vec2{-dir.Y(), dir.X()}

	var corners [4]mgl32.Vec2
	for i, c := range quadVertices {
		t := 0.5 * (c.Corner[0] + 1)
		corners[i] = endA.
			Add(dir.Mul(length * t)).
			Add(normal.Mul(c.Corner[1] * halfThickness))
	}
	return corners
}

// RenderScene rasterizes the model geometry to an RGBA image, synapses
// below, neurons on top, over a near-black background.
func RenderScene(neurons []NeuronLayout, potentials []float32, synapses []SynapseLayout, states []uint32, win Window, cam Camera, halfThickness float32) *image.RGBA {
	width := int(win.Width)
	height := int(win.Height)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{R: 5, G: 5, B: 8, A: 255}), image.Point{}, draw.Src)

	ras := vector.NewRasterizer(width, height)
	for i, s := range synapses {
		quad := SynapseQuad(s.EndA, s.EndB, halfThickness)

		ras.Reset(width, height)
		ras.DrawOp = draw.Over
		for j, corner := range quad {
			x, y := WorldToScreen(corner, win, cam)
			if j == 0 {
				ras.MoveTo(x, y)
			} else {
				ras.LineTo(x, y)
			}
		}
		ras.ClosePath()

		var state uint32
		if i < len(states) {
			state = states[i]
		}
		ras.Draw(img, img.Bounds(), image.NewUniform(toNRGBA(SynapseColor(state))), image.Point{})
	}

	for i, n := range neurons {
		var v float32
		if i < len(potentials) {
			v = potentials[i]
		}
		drawDisk(img, n, toNRGBA(ActivationColor(v)), win, cam)
	}
	return img
}

// drawDisk fills a neuron disk pixel by pixel with the fragment shader's
// containment rule: the local distance 1.0 boundary is kept, anything
// strictly outside is discarded.
func drawDisk(img *image.RGBA, n NeuronLayout, c color.NRGBA, win Window, cam Camera) {
	cx, cy := WorldToScreen(n.Center, win, cam)
	radiusPx := n.Radius * cam.Zoom
	if radiusPx <= 0 {
		return
	}

	bounds := img.Bounds()
	minX := max(int(cx-radiusPx)-1, bounds.Min.X)
	maxX := min(int(cx+radiusPx)+1, bounds.Max.X-1)
	minY := max(int(cy-radiusPx)-1, bounds.Min.Y)
	maxY := min(int(cy+radiusPx)+1, bounds.Max.Y-1)

	rgba := color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			local := mgl32.Vec2{
				(float32(x) + 0.5 - cx) / radiusPx,
				(float32(y) + 0.5 - cy) / radiusPx,
			}
			if InsideUnitDisk(local) {
				img.SetRGBA(x, y, rgba)
			}
		}
	}
}

// SavePNG writes an image to disk.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func toNRGBA(c [4]float32) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c[0])*255 + 0.5),
		G: uint8(clamp01(c[1])*255 + 0.5),
		B: uint8(clamp01(c[2])*255 + 0.5),
		A: uint8(clamp01(c[3])*255 + 0.5),
	}
}
