package neurotoy

import (
	"time"
)

type Time struct {
	Time time.Time
	Dt   time.Duration
}

type TimeModule struct{}

func (mod TimeModule) Install(app *App) {
	app.AddResources(&Time{
		Time: time.Now(),
	})
	app.UseSystem(
		System(timeSystem).InStage(Prelude),
	)
}

func timeSystem(timeResource *Time) {
	now := time.Now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
}
