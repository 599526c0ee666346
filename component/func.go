package component

import (
	"context"

	"github.com/kbukum/speechkit/observability"
)

// Func adapts plain functions to a Component. Nil functions are no-ops and
// a nil HealthFunc reports up.
type Func struct {
	ComponentName string
	Desc          Description
	StartFunc     func(ctx context.Context) error
	StopFunc      func(ctx context.Context) error
	HealthFunc    func(ctx context.Context) observability.Health
}

func (f *Func) Name() string { return f.ComponentName }

func (f *Func) Start(ctx context.Context) error {
	if f.StartFunc == nil {
		return nil
	}
	return f.StartFunc(ctx)
}

func (f *Func) Stop(ctx context.Context) error {
	if f.StopFunc == nil {
		return nil
	}
	return f.StopFunc(ctx)
}

func (f *Func) Health(ctx context.Context) observability.Health {
	if f.HealthFunc == nil {
		return observability.Health{Name: f.ComponentName, Status: observability.HealthStatusUp}
	}
	return f.HealthFunc(ctx)
}

func (f *Func) Describe() Description {
	d := f.Desc
	if d.Name == "" {
		d.Name = f.ComponentName
	}
	return d
}
