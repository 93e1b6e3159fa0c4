package neurotoy

import (
	"math"
	"time"
)

// SimulationState owns the model and its drawable geometry. GeometryVersion
// bumps whenever Neurons/Synapses change so the renderer knows to reupload
// instance buffers; potentials and synapse states are re-read every frame.
type SimulationState struct {
	Model    *Model
	Neurons  []NeuronLayout
	Synapses []SynapseLayout

	GeometryVersion int
	Paused          bool

	tickInterval time.Duration
	accumulator  time.Duration

	pressX, pressY float64
	dragDistance   float64
}

// Relayout recomputes world geometry from the current model topology.
func (s *SimulationState) Relayout() {
	s.Neurons, s.Synapses = LayoutGraph(s.Model)
	s.GeometryVersion++
}

// SimulationModule runs the spiking network at a fixed tick rate and maps
// interaction onto it: space pauses, N single-steps while paused, R resets
// potentials, a click injects charge into the neuron under the cursor.
type SimulationModule struct {
	Model    *Model  // nil means an 8x8 grid
	TickRate float64 // ticks per second, zero means 30
}

// clickCharge is enough to push a resting neuron over the default threshold.
const clickCharge float32 = 2.0

// clickSlopPx separates a click from a pan drag.
const clickSlopPx = 4.0

func (mod SimulationModule) Install(app *App) {
	model := mod.Model
	if model == nil {
		model = NewGridModel(8, 8)
	}
	tickRate := mod.TickRate
	if tickRate <= 0 {
		tickRate = 30
	}

	state := &SimulationState{
		Model:        model,
		tickInterval: time.Duration(float64(time.Second) / tickRate),
	}
	state.Relayout()
	app.AddResources(state)
	app.Logger().Infof("Simulation ready: %d neurons, %d synapses, %.0f ticks/s",
		model.NeuronCount(), model.SynapseCount(), tickRate)

	app.UseSystem(
		System(simulationControlSystem).InStage(Update),
	)
	app.UseSystem(
		System(simulationTickSystem).InStage(PostUpdate),
	)
}

func simulationControlSystem(sim *SimulationState, input *Input, cam *CameraState, windowState *WindowState) {
	if input.JustPressed[KeySpace] {
		sim.Paused = !sim.Paused
	}
	if sim.Paused && input.JustPressed[KeyN] {
		sim.Model.Tick()
	}
	if input.JustPressed[KeyR] {
		sim.Model.ResetPotentials()
	}

	// Click picking shares the left button with panning; only a press that
	// barely moved counts as a click.
	if input.JustPressed[MouseButtonLeft] {
		sim.pressX, sim.pressY = input.MouseX, input.MouseY
		sim.dragDistance = 0
	}
	if input.Pressed[MouseButtonLeft] {
		sim.dragDistance += math.Abs(input.MouseDeltaX) + math.Abs(input.MouseDeltaY)
	}
	if input.JustReleased[MouseButtonLeft] && sim.dragDistance < clickSlopPx {
		world := ScreenToWorld(input.MouseX, input.MouseY, windowState.Window(), cam.Camera)
		for i, n := range sim.Neurons {
			local := world.Sub(n.Center).Mul(1 / n.Radius)
			if InsideUnitDisk(local) {
				sim.Model.InjectCharge(i, clickCharge)
				break
			}
		}
	}
}

func simulationTickSystem(sim *SimulationState, timeResource *Time) {
	if sim.Paused {
		sim.accumulator = 0
		return
	}
	sim.accumulator += timeResource.Dt
	// Cap catch-up work so a long stall doesn't freeze the frame loop.
	for steps := 0; sim.accumulator >= sim.tickInterval && steps < 10; steps++ {
		sim.Model.Tick()
		sim.accumulator -= sim.tickInterval
	}
	if sim.accumulator > sim.tickInterval {
		sim.accumulator = 0
	}
}
