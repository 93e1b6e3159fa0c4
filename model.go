package neurotoy

// Model is a leaky integrate-and-fire network in SoA layout. Synapses are
// stored in CSR form: the outgoing synapses of neuron i occupy the index
// range outOffset[i]..outOffset[i+1] of receiver/weight/state.
type Model struct {
	// Neurons
	v         []float32 // membrane potential
	vTh       []float32 // firing threshold
	vReset    []float32 // potential after a spike
	refrac    []uint16  // remaining refractory steps, 0 means active
	alpha     float32   // leak factor per step, 0 < alpha <= 1
	refracLen uint16

	// Synapses (CSR)
	outOffset []uint32
	receiver  []uint32
	weight    []float32
	state     []float32 // exponential postsynaptic current
	beta      float32   // synaptic decay factor per step

	states []uint32 // scratch for SynapseStates
}

// activeSynapseThreshold separates a decayed-out postsynaptic current from
// one that still carries a spike. Currents at or above it report state 1.
const activeSynapseThreshold = 0.01

func newModel(neurons, synapseCap int) *Model {
	return &Model{
		v:         make([]float32, neurons),
		vTh:       make([]float32, neurons),
		vReset:    make([]float32, neurons),
		refrac:    make([]uint16, neurons),
		alpha:     0.1,
		refracLen: 2,
		outOffset: make([]uint32, 0, neurons+1),
		receiver:  make([]uint32, 0, synapseCap),
		weight:    make([]float32, 0, synapseCap),
		state:     make([]float32, 0, synapseCap),
		beta:      0.9,
	}
}

// NewLineModel builds a chain 0 -> 1 -> ... -> n-1 with unit weights.
func NewLineModel(neurons int) *Model {
	m := newModel(neurons, max(neurons-1, 0))
	m.outOffset = append(m.outOffset, 0)
	for i := 0; i < neurons; i++ {
		m.vTh[i] = 1.0
		if i+1 < neurons {
			m.receiver = append(m.receiver, uint32(i+1))
			m.weight = append(m.weight, 1.0)
			m.state = append(m.state, 0.0)
		}
		m.outOffset = append(m.outOffset, uint32(len(m.receiver)))
	}
	return m
}

// NewGridModel builds a rows x cols lattice where every neuron connects to
// its existing orthogonal neighbours. Neuron index is r*cols + c.
func NewGridModel(rows, cols int) *Model {
	n := rows * cols
	m := newModel(n, n*4)
	m.outOffset = append(m.outOffset, 0)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			m.vTh[r*cols+c] = 1.0
			if r > 0 {
				m.addSynapse(uint32((r-1)*cols + c))
			}
			if r+1 < rows {
				m.addSynapse(uint32((r+1)*cols + c))
			}
			if c > 0 {
				m.addSynapse(uint32(r*cols + c - 1))
			}
			if c+1 < cols {
				m.addSynapse(uint32(r*cols + c + 1))
			}
			m.outOffset = append(m.outOffset, uint32(len(m.receiver)))
		}
	}
	return m
}

func (m *Model) addSynapse(to uint32) {
	m.receiver = append(m.receiver, to)
	m.weight = append(m.weight, 1.0)
	m.state = append(m.state, 0.0)
}

func (m *Model) NeuronCount() int  { return len(m.v) }
func (m *Model) SynapseCount() int { return len(m.receiver) }

// InjectCharge adds charge to one neuron's membrane potential.
func (m *Model) InjectCharge(neuron int, charge float32) {
	m.v[neuron] += charge
}

// ResetPotentials zeroes all membrane potentials and synaptic currents.
func (m *Model) ResetPotentials() {
	for i := range m.v {
		m.v[i] = 0
		m.refrac[i] = 0
	}
	for i := range m.state {
		m.state[i] = 0
	}
}

// Tick advances the simulation one step: leak membranes, decay synaptic
// currents, count down refractory periods, deliver currents, then fire any
// neuron at or above threshold.
func (m *Model) Tick() {
	for i := range m.v {
		m.v[i] *= 1 - m.alpha
	}
	for i := range m.state {
		m.state[i] *= m.beta
	}
	for i := range m.refrac {
		if m.refrac[i] > 0 {
			m.refrac[i]--
		}
	}
	for i, recv := range m.receiver {
		m.v[recv] += m.state[i]
	}
	for i := range m.v {
		if m.v[i] < m.vTh[i] || m.refrac[i] > 0 {
			continue
		}
		m.v[i] = m.vReset[i]
		m.refrac[i] = m.refracLen

		for j := m.outOffset[i]; j < m.outOffset[i+1]; j++ {
			m.state[j] += m.weight[j]
		}
	}
}

// Potentials returns the per-neuron membrane potentials, indexed by neuron.
// The slice aliases model state and is valid until the next Tick.
func (m *Model) Potentials() []float32 {
	return m.v
}

// SynapseStates returns one state code per synapse: 0 for a quiet synapse,
// 1 for one whose postsynaptic current is still meaningfully above zero.
// The renderer only distinguishes zero from nonzero.
func (m *Model) SynapseStates() []uint32 {
	if cap(m.states) < len(m.state) {
		m.states = make([]uint32, len(m.state))
	}
	m.states = m.states[:len(m.state)]
	for i, s := range m.state {
		if s >= activeSynapseThreshold || s <= -activeSynapseThreshold {
			m.states[i] = 1
		} else {
			m.states[i] = 0
		}
	}
	return m.states
}

// Synapses calls fn for every synapse with its source and target neuron.
func (m *Model) Synapses(fn func(syn int, from, to uint32)) {
	for i := 0; i+1 < len(m.outOffset); i++ {
		for j := m.outOffset[i]; j < m.outOffset[i+1]; j++ {
			fn(int(j), uint32(i), m.receiver[j])
		}
	}
}
