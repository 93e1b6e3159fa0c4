package neurotoy

import (
	"path/filepath"

	"github.com/google/uuid"
)

// SnapshotModule saves a PNG of the current view through the CPU reference
// renderer when F2 is pressed. Useful for sharing a state or for comparing
// against what the GPU shows.
type SnapshotModule struct {
	Dir string // destination directory, empty means current directory

	// LineHalfThickness should match RenderModule's value so snapshots look
	// like the live view. Zero means DefaultLineHalfThickness.
	LineHalfThickness float32
}

func (mod SnapshotModule) Install(app *App) {
	halfThickness := mod.LineHalfThickness
	if halfThickness <= 0 {
		halfThickness = DefaultLineHalfThickness
	}
	dir := mod.Dir
	if dir == "" {
		dir = "."
	}

	snapshot := func(input *Input, sim *SimulationState, cam *CameraState, windowState *WindowState) {
		if !input.JustPressed[KeyF2] {
			return
		}
		img := RenderScene(
			sim.Neurons, sim.Model.Potentials(),
			sim.Synapses, sim.Model.SynapseStates(),
			windowState.Window(), cam.Camera, halfThickness,
		)
		path := filepath.Join(dir, "neurotoy-"+uuid.NewString()+".png")
		if err := SavePNG(path, img); err != nil {
			app.Logger().Errorf("Failed to save snapshot: %v", err)
			return
		}
		app.Logger().Infof("Saved snapshot %s", path)
	}

	app.UseSystem(
		System(snapshot).InStage(PostUpdate),
	)
}
