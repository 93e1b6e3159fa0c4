package main

import (
	"flag"

	neurotoy "github.com/alexdesander/neurotoy"
)

func main() {
	rows := flag.Int("rows", 12, "grid rows")
	cols := flag.Int("cols", 12, "grid columns")
	line := flag.Int("line", 0, "use a chain of N neurons instead of a grid")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	var model *neurotoy.Model
	if *line > 0 {
		model = neurotoy.NewLineModel(*line)
	} else {
		model = neurotoy.NewGridModel(*rows, *cols)
	}

	app := neurotoy.NewApp()
	app.UseModules(
		neurotoy.LoggingModule{Prefix: "neurotoy", Debug: *debug},
		neurotoy.TimeModule{},
		neurotoy.WindowModule{Width: 1280, Height: 720, Title: "Neurotoy"},
		neurotoy.InputModule{},
		neurotoy.PanZoomCameraModule{},
		neurotoy.SimulationModule{Model: model},
		neurotoy.RenderModule{},
		neurotoy.SnapshotModule{},
	)
	app.Run()
}
