package neurotoy

// Stage names a slot in the per-frame execution order. Systems registered
// in the same stage run in registration order.
type Stage struct {
	Name string
}

var (
	Prelude    = Stage{Name: "Prelude"}
	PreUpdate  = Stage{Name: "PreUpdate"}
	Update     = Stage{Name: "Update"}
	PostUpdate = Stage{Name: "PostUpdate"}
	PreRender  = Stage{Name: "PreRender"}
	Render     = Stage{Name: "Render"}
	Finale     = Stage{Name: "Finale"}
)

var defaultStages = []Stage{Prelude, PreUpdate, Update, PostUpdate, PreRender, Render, Finale}

type systemScheduleBuilder struct {
	inStage Stage
	system  systemFn
}

// System starts a schedule builder for fn. Default stage is Update.
func System(system systemFn) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  system,
		inStage: Update,
	}
}

func (sched systemScheduleBuilder) InStage(s Stage) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  sched.system,
		inStage: s,
	}
}

// UseSystem registers a scheduled system on the app.
func (app *App) UseSystem(system systemScheduleBuilder) *App {
	systems, ok := app.systems[system.inStage.Name]
	if !ok {
		panic("Stage " + system.inStage.Name + " doesn't exist")
	}
	app.systems[system.inStage.Name] = append(systems, system.system)
	return app
}
