package neurotoy

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynapseColor_NonzeroCollapsesToActive(t *testing.T) {
	assert.Equal(t, synapseInactiveColor, SynapseColor(0))
	assert.Equal(t, synapseActiveColor, SynapseColor(1))
	assert.Equal(t, synapseActiveColor, SynapseColor(255))
	assert.Equal(t, synapseActiveColor, SynapseColor(math.MaxUint32))
}

func TestSynapseQuad_HorizontalSegment(t *testing.T) {
	quad := SynapseQuad(mgl32.Vec2{0, 0}, mgl32.Vec2{2, 0}, 0.5)

	assert.Equal(t, mgl32.Vec2{0, -0.5}, quad[0])
	assert.Equal(t, mgl32.Vec2{2, -0.5}, quad[1])
	assert.Equal(t, mgl32.Vec2{2, 0.5}, quad[2])
	assert.Equal(t, mgl32.Vec2{0, 0.5}, quad[3])
}

func TestSynapseQuad_DegenerateSegmentStaysFinite(t *testing.T) {
	p := mgl32.Vec2{3, -1}
	quad := SynapseQuad(p, p, 0.25)

	for i, c := range quad {
		assert.False(t, math.IsNaN(float64(c.X())) || math.IsNaN(float64(c.Y())), "corner %d", i)
	}
	// Direction falls back to +x, so the quad collapses to a vertical sliver.
	assert.Equal(t, mgl32.Vec2{3, -1.25}, quad[0])
	assert.Equal(t, mgl32.Vec2{3, -0.75}, quad[3])
}

func TestRenderScene_NeuronCoversCenterPixel(t *testing.T) {
	win := Window{Width: 64, Height: 64}
	cam := Camera{Zoom: 20}
	neurons := []NeuronLayout{{Center: mgl32.Vec2{0, 0}, Radius: 1}}

	img := RenderScene(neurons, []float32{0}, nil, nil, win, cam, DefaultLineHalfThickness)
	require.Equal(t, 64, img.Bounds().Dx())

	// Resting potential renders the mid-stop gray.
	center := img.RGBAAt(32, 32)
	assert.Equal(t, uint8(51), center.R)
	assert.Equal(t, uint8(51), center.G)
	assert.Equal(t, uint8(51), center.B)

	// Corner stays background.
	corner := img.RGBAAt(0, 0)
	assert.Equal(t, uint8(5), corner.R)
	assert.Equal(t, uint8(8), corner.B)
}

func TestRenderScene_ActiveSynapseTintsMidpoint(t *testing.T) {
	win := Window{Width: 64, Height: 64}
	cam := Camera{Zoom: 10}
	synapses := []SynapseLayout{{EndA: mgl32.Vec2{-2, 0}, EndB: mgl32.Vec2{2, 0}}}

	quiet := RenderScene(nil, nil, synapses, []uint32{0}, win, cam, 0.2)
	active := RenderScene(nil, nil, synapses, []uint32{1}, win, cam, 0.2)

	q := quiet.RGBAAt(32, 32)
	a := active.RGBAAt(32, 32)
	assert.Greater(t, a.R, q.R, "active synapse is redder than quiet")
	assert.Greater(t, q.R, uint8(5), "quiet synapse still differs from background")
}

func TestRenderScene_PanningInvariance(t *testing.T) {
	win := Window{Width: 96, Height: 64}
	cam := Camera{Position: mgl32.Vec2{1.5, -2.25}, Zoom: 20}
	d := mgl32.Vec2{4, -2}
	moved := Camera{Position: cam.Position.Add(d), Zoom: cam.Zoom}

	neurons := []NeuronLayout{
		{Center: mgl32.Vec2{1.25, -2}, Radius: 0.5},
		{Center: mgl32.Vec2{2, -2.75}, Radius: 0.5},
	}
	synapses := []SynapseLayout{{EndA: neurons[0].Center, EndB: neurons[1].Center}}
	potentials := []float32{0.6, -0.4}
	states := []uint32{1}

	shift := func(ns []NeuronLayout, ss []SynapseLayout) ([]NeuronLayout, []SynapseLayout) {
		outN := make([]NeuronLayout, len(ns))
		for i, n := range ns {
			outN[i] = NeuronLayout{Center: n.Center.Add(d), Radius: n.Radius}
		}
		outS := make([]SynapseLayout, len(ss))
		for i, s := range ss {
			outS[i] = SynapseLayout{EndA: s.EndA.Add(d), EndB: s.EndB.Add(d)}
		}
		return outN, outS
	}

	a := RenderScene(neurons, potentials, synapses, states, win, cam, 0.1)
	shiftedN, shiftedS := shift(neurons, synapses)
	b := RenderScene(shiftedN, potentials, shiftedS, states, win, moved, 0.1)

	// All coordinates are exact in float32, so the two rasters match byte
	// for byte.
	assert.Equal(t, a.Pix, b.Pix)
}

func TestToNRGBA_RoundsAndClamps(t *testing.T) {
	c := toNRGBA([4]float32{0, 0.5, 1, 2})
	assert.Equal(t, uint8(0), c.R)
	assert.Equal(t, uint8(128), c.G)
	assert.Equal(t, uint8(255), c.B)
	assert.Equal(t, uint8(255), c.A)

	neg := toNRGBA([4]float32{-1, -0.5, 0, 1})
	assert.Equal(t, uint8(0), neg.R)
	assert.Equal(t, uint8(0), neg.G)
}
