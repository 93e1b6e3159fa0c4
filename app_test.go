package neurotoy

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterResource struct {
	frames int
	order  []string
}

type markerModule struct {
	installed *bool
}

func (m markerModule) Install(app *App) {
	*m.installed = true
}

func TestApp_AddResources(t *testing.T) {
	app := NewApp()
	counter := &counterResource{}
	app.AddResources(counter)

	got := app.Resource(reflect.TypeOf(counterResource{}))
	require.NotNil(t, got)
	assert.Same(t, counter, got)
}

func TestApp_AddResources_DuplicatePanics(t *testing.T) {
	app := NewApp()
	app.AddResources(&counterResource{})
	assert.Panics(t, func() {
		app.AddResources(&counterResource{})
	})
}

func TestApp_AddResources_NonPointerPanics(t *testing.T) {
	app := NewApp()
	assert.Panics(t, func() {
		app.AddResources(counterResource{})
	})
}

func TestApp_SystemInjection(t *testing.T) {
	app := NewApp()
	counter := &counterResource{}
	app.AddResources(counter)
	app.UseSystem(
		System(func(c *counterResource) {
			c.frames++
		}),
	)

	app.RunFrame()
	app.RunFrame()
	assert.Equal(t, 2, counter.frames)
}

func TestApp_SystemMissingDependencyPanics(t *testing.T) {
	app := NewApp()
	app.UseSystem(
		System(func(c *counterResource) {}),
	)
	assert.Panics(t, func() {
		app.RunFrame()
	})
}

func TestApp_StageOrder(t *testing.T) {
	app := NewApp()
	counter := &counterResource{}
	app.AddResources(counter)

	// Registered out of order on purpose; stages decide execution order.
	app.UseSystem(
		System(func(c *counterResource) { c.order = append(c.order, "render") }).InStage(Render),
	)
	app.UseSystem(
		System(func(c *counterResource) { c.order = append(c.order, "input") }).InStage(PreUpdate),
	)
	app.UseSystem(
		System(func(c *counterResource) { c.order = append(c.order, "update") }).InStage(Update),
	)

	app.RunFrame()
	assert.Equal(t, []string{"input", "update", "render"}, counter.order)
}

func TestApp_ModulesInstallOnBuild(t *testing.T) {
	installed := false
	app := NewApp()
	app.UseModules(markerModule{installed: &installed})

	assert.False(t, installed)
	app.RunFrame()
	assert.True(t, installed)
}

func TestApp_ExitStopsRun(t *testing.T) {
	app := NewApp()
	counter := &counterResource{}
	app.AddResources(counter)
	app.UseSystem(
		System(func(a *App, c *counterResource) {
			c.frames++
			if c.frames == 3 {
				a.Exit()
			}
		}),
	)

	app.Run()
	assert.Equal(t, 3, counter.frames)
}

func TestApp_LoggerFallsBackToNop(t *testing.T) {
	app := NewApp()
	require.NotNil(t, app.Logger())

	app.UseModules(LoggingModule{Prefix: "test"})
	app.RunFrame()
	_, ok := app.Logger().(*DefaultLogger)
	assert.True(t, ok)
}
