package observability

import (
	"context"
	"errors"
)

// ShutdownFunc flushes and stops the installed providers.
type ShutdownFunc func(ctx context.Context) error

// Setup installs the exporters enabled in cfg. With nothing enabled it
// returns a no-op shutdown and leaves the global providers untouched.
func Setup(ctx context.Context, cfg Config, svc ServiceInfo) (ShutdownFunc, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var shutdowns []ShutdownFunc
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	if cfg.Tracing.Enabled {
		tp, err := InitTracer(ctx, cfg.Tracing, svc)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, tp.Shutdown)
	}
	if cfg.Metrics.Enabled {
		mp, err := InitMeter(ctx, cfg.Metrics, svc)
		if err != nil {
			_ = shutdown(ctx)
			return nil, err
		}
		shutdowns = append(shutdowns, mp.Shutdown)
	}
	return shutdown, nil
}
