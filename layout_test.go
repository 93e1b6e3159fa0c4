package neurotoy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutGraph_GeometryShape(t *testing.T) {
	m := NewGridModel(3, 3)
	neurons, synapses := LayoutGraph(m)

	require.Len(t, neurons, m.NeuronCount())
	require.Len(t, synapses, m.SynapseCount())
	for i, n := range neurons {
		assert.Equal(t, NeuronRadius, n.Radius, "neuron %d", i)
		assert.False(t, math.IsNaN(float64(n.Center.X())) || math.IsNaN(float64(n.Center.Y())), "neuron %d", i)
	}
}

func TestLayoutGraph_NeuronsDoNotCollapse(t *testing.T) {
	m := NewGridModel(4, 4)
	neurons, _ := LayoutGraph(m)

	for i := 0; i < len(neurons); i++ {
		for j := i + 1; j < len(neurons); j++ {
			d := neurons[i].Center.Sub(neurons[j].Center).Len()
			assert.Greater(t, d, float32(0.1), "neurons %d and %d", i, j)
		}
	}
}

func TestLayoutGraph_CenteredOnOrigin(t *testing.T) {
	m := NewGridModel(3, 4)
	neurons, _ := LayoutGraph(m)

	var sumX, sumY float32
	for _, n := range neurons {
		sumX += n.Center.X()
		sumY += n.Center.Y()
	}
	n := float32(len(neurons))
	assert.InDelta(t, 0, float64(sumX/n), 1e-3)
	assert.InDelta(t, 0, float64(sumY/n), 1e-3)
}

func TestLayoutGraph_SynapseEndpointsMatchNeuronCenters(t *testing.T) {
	m := NewLineModel(4)
	neurons, synapses := LayoutGraph(m)

	m.Synapses(func(syn int, from, to uint32) {
		assert.Equal(t, neurons[from].Center, synapses[syn].EndA)
		assert.Equal(t, neurons[to].Center, synapses[syn].EndB)
	})
}

func TestLayoutGraph_Deterministic(t *testing.T) {
	a, as := LayoutGraph(NewGridModel(3, 3))
	b, bs := LayoutGraph(NewGridModel(3, 3))
	assert.Equal(t, a, b)
	assert.Equal(t, as, bs)
}

func TestLayoutGraph_SingleNeuron(t *testing.T) {
	neurons, synapses := LayoutGraph(NewLineModel(1))
	require.Len(t, neurons, 1)
	assert.Empty(t, synapses)
	assert.Equal(t, NeuronRadius, neurons[0].Radius)
}
