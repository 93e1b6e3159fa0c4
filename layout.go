package neurotoy

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// Graph layout: turns model topology into world-space geometry for the
// renderer. The positions only need to be stable and readable, so a small
// deterministic force-directed relaxation is enough: springs along synapses,
// pairwise repulsion everywhere, fixed iteration count, seeded placement.

const (
	// NeuronRadius is the world-space radius every neuron is drawn with.
	NeuronRadius float32 = 0.4

	layoutSpringLength  float32 = 2.0
	layoutSpringK       float32 = 0.08
	layoutRepulsion     float32 = 1.5
	layoutIterations            = 300
	layoutStep          float32 = 0.5
	layoutMaxDispl      float32 = 0.5
)

// NeuronLayout is one neuron's drawable geometry.
type NeuronLayout struct {
	Center mgl32.Vec2
	Radius float32
}

// SynapseLayout is one synapse's drawable geometry, the centers of the two
// neurons it joins. Self-loops produce coincident endpoints; the renderer
// guards that case.
type SynapseLayout struct {
	EndA mgl32.Vec2
	EndB mgl32.Vec2
}

// LayoutGraph computes per-neuron centers and per-synapse endpoints for a
// model. Deterministic for a given model shape.
func LayoutGraph(m *Model) ([]NeuronLayout, []SynapseLayout) {
	n := m.NeuronCount()
	pos := seedPositions(n)
	relax(m, pos)

	neurons := make([]NeuronLayout, n)
	for i := range neurons {
		neurons[i] = NeuronLayout{Center: pos[i], Radius: NeuronRadius}
	}
	synapses := make([]SynapseLayout, m.SynapseCount())
	m.Synapses(func(syn int, from, to uint32) {
		synapses[syn] = SynapseLayout{EndA: pos[from], EndB: pos[to]}
	})
	return neurons, synapses
}

// seedPositions spreads neurons on a golden-angle spiral so the relaxation
// never starts from coincident points.
func seedPositions(n int) []mgl32.Vec2 {
	rng := rand.New(rand.NewSource(1))
	pos := make([]mgl32.Vec2, n)
	golden := math.Pi * (3 - math.Sqrt(5))
	for i := range pos {
		r := layoutSpringLength * float32(math.Sqrt(float64(i)+0.5))
		a := golden * float64(i)
		jx := (rng.Float32() - 0.5) * 0.01
		jy := (rng.Float32() - 0.5) * 0.01
		pos[i] = mgl32.Vec2{
			r*float32(math.Cos(a)) + jx,
			r*float32(math.Sin(a)) + jy,
		}
	}
	return pos
}

func relax(m *Model, pos []mgl32.Vec2) {
	n := len(pos)
	if n < 2 {
		return
	}
	disp := make([]mgl32.Vec2, n)
	for iter := 0; iter < layoutIterations; iter++ {
		for i := range disp {
			disp[i] = mgl32.Vec2{}
		}

		// Repulsion between all pairs, 1/d falloff.
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				d := pos[i].Sub(pos[j])
				distSq := d.LenSqr()
				if distSq < 1e-6 {
					// Nudge coincident nodes apart along x.
					d = mgl32.Vec2{1e-3, 0}
					distSq = 1e-6
				}
				f := d.Mul(layoutRepulsion / distSq)
				disp[i] = disp[i].Add(f)
				disp[j] = disp[j].Sub(f)
			}
		}

		// Springs along synapses pulling toward the rest length.
		m.Synapses(func(_ int, from, to uint32) {
			if from == to {
				return
			}
			d := pos[to].Sub(pos[from])
			dist := d.Len()
			if dist < 1e-6 {
				return
			}
			f := d.Mul(layoutSpringK * (dist - layoutSpringLength) / dist)
			disp[from] = disp[from].Add(f)
			disp[to] = disp[to].Sub(f)
		})

		for i := range pos {
			d := disp[i].Mul(layoutStep)
			if l := d.Len(); l > layoutMaxDispl {
				d = d.Mul(layoutMaxDispl / l)
			}
			pos[i] = pos[i].Add(d)
		}
	}

	center(pos)
}

func center(pos []mgl32.Vec2) {
	var sum mgl32.Vec2
	for _, p := range pos {
		sum = sum.Add(p)
	}
	mean := sum.Mul(1 / float32(len(pos)))
	for i := range pos {
		pos[i] = pos[i].Sub(mean)
	}
}
