package neurotoy

import (
	_ "embed"
)

//go:embed shaders/neuron.wgsl
var neuronShaderCode string

//go:embed shaders/synapse.wgsl
var synapseShaderCode string
