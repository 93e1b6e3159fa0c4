package neurotoy

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// Module is an installable unit of functionality. Install registers the
// module's resources and systems on the app.
type Module interface {
	Install(app *App)
}

// App wires modules, shared resources and per-frame systems together.
// Systems are plain functions; their pointer parameters are resolved from
// the resource map by type when the system runs.
type App struct {
	modules   []Module
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any

	built   bool
	exiting bool
}

func NewApp() *App {
	app := &App{
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
	}
	for _, stage := range defaultStages {
		app.stages = append(app.stages, stage)
		app.systems[stage.Name] = make([]systemFn, 0)
	}
	return app
}

// UseModules queues modules for installation. Install runs on build, in the
// order the modules were added.
func (app *App) UseModules(modules ...Module) *App {
	app.modules = append(app.modules, modules...)
	return app
}

// AddResources registers shared resources, one per concrete type.
func (app *App) AddResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Ptr {
			panic(fmt.Sprintf("resource %s must be a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}
		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the resource of the given concrete type, or nil.
func (app *App) Resource(t reflect.Type) any {
	return app.resources[t]
}

// Exit makes Run return after the current frame completes.
func (app *App) Exit() {
	app.exiting = true
}

func (app *App) build() {
	if app.built {
		return
	}
	app.built = true
	for _, module := range app.modules {
		module.Install(app)
	}
}

// Run installs all modules and executes frames until a system calls Exit.
func (app *App) Run() {
	app.build()
	for !app.exiting {
		app.runStages()
	}
}

// RunFrame executes a single frame. Intended for tests and headless use.
func (app *App) RunFrame() {
	app.build()
	app.runStages()
}

func (app *App) runStages() {
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
	}
}

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())
	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType == reflect.TypeOf((*App)(nil)) {
			args[i] = reflect.ValueOf(app)
			continue
		}
		underlyingType := argType.Elem()
		if resource, ok := app.resources[underlyingType]; ok {
			resourceVal := reflect.ValueOf(resource)
			args[i] = reflect.NewAt(underlyingType, resourceVal.UnsafePointer())
		} else {
			panic(fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(),
				fmt.Sprint(systemType),
				fmt.Sprint(argType),
			))
		}
	}
	systemValue.Call(args)
}
