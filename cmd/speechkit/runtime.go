package main

import (
	"context"
	"fmt"
	"io"

	"github.com/kbukum/speechkit/bootstrap"
	"github.com/kbukum/speechkit/component"
	"github.com/kbukum/speechkit/di"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/plugin"
	pluginassemblyai "github.com/kbukum/speechkit/plugin/assemblyai"
	"github.com/kbukum/speechkit/plugin/findfile"
	"github.com/kbukum/speechkit/provider"
	"github.com/kbukum/speechkit/server"
	"github.com/kbukum/speechkit/transcription"
	"github.com/kbukum/speechkit/util"
	"github.com/kbukum/speechkit/version"
)

// runtime is a bootstrapped application with its plugin collection.
type runtime struct {
	cfg     *AppConfig
	app     *bootstrap.App[*AppConfig]
	plugins *plugin.Collection
}

func newRuntime(cfg *AppConfig) (*runtime, error) {
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return nil, err
	}

	providers := transcription.NewRegistry()
	logger.Register(plugin.LoggerName, app.Logger.WithComponent(plugin.LoggerName))
	plugins := plugin.NewCollection(nil)

	c := app.Container
	if err := c.RegisterSingleton(di.App.Providers, providers); err != nil {
		return nil, err
	}
	if err := c.RegisterSingleton(di.App.Plugins, plugins); err != nil {
		return nil, err
	}
	if err := c.RegisterLazy(di.App.Metrics, observability.MustMetrics); err != nil {
		return nil, err
	}
	if err := app.RegisterComponent(telemetry(cfg)); err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, app: app, plugins: plugins}, nil
}

// telemetry installs the OTLP exporters while the application runs.
// Instruments created earlier through the global providers are forwarded.
func telemetry(cfg *AppConfig) component.Component {
	var shutdown observability.ShutdownFunc
	return &component.Func{
		ComponentName: "telemetry",
		Desc: component.Description{
			Name:    "OpenTelemetry",
			Type:    "telemetry",
			Details: fmt.Sprintf("tracing=%t metrics=%t", cfg.Observability.Tracing.Enabled, cfg.Observability.Metrics.Enabled),
		},
		StartFunc: func(ctx context.Context) error {
			var err error
			shutdown, err = observability.Setup(ctx, cfg.Observability, observability.ServiceInfo{
				Name:        cfg.Name,
				Version:     util.Coalesce(cfg.Version, version.GetVersionInfo().Version),
				Environment: cfg.Environment,
			})
			return err
		},
		StopFunc: func(ctx context.Context) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(ctx)
		},
	}
}

// addAssemblyAI registers the transcription plugin, failing fast on a
// missing API key.
func (rt *runtime) addAssemblyAI() error {
	metrics := di.MustResolve[*observability.Metrics](rt.app.Container, di.App.Metrics)
	_, err := pluginassemblyai.Register(rt.app.Container, rt.plugins, rt.cfg.AssemblyAI,
		provider.WithTracing[transcription.Request, *transcription.Response](observability.SpanTranscribe),
		provider.WithLogging[transcription.Request, *transcription.Response](rt.app.Logger),
		provider.WithMetrics[transcription.Request, *transcription.Response](metrics, "transcribe"),
	)
	return err
}

func (rt *runtime) addFindFile() error {
	return rt.plugins.Add(findfile.NewPlugin(nil))
}

// invoke runs one plugin function as the application task and prints its
// result. SIGINT cancels the task context and with it any polling.
func (rt *runtime) invoke(ctx context.Context, out io.Writer, pluginName, function string, args plugin.Arguments) error {
	return rt.app.RunTask(ctx, func(ctx context.Context) error {
		result, err := rt.plugins.Invoke(ctx, pluginName, function, args)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, result)
		return err
	})
}

// serve exposes the plugins over HTTP until a shutdown signal.
func (rt *runtime) serve(ctx context.Context) error {
	c := rt.app.Container
	providers := di.MustResolve[*provider.Registry[transcription.Provider]](c, di.App.Providers)

	srv := server.New(rt.cfg.Server, rt.app.Logger)
	srv.ApplyDefaults(rt.cfg.Name, func() []observability.HealthChecker {
		instances := providers.Instances()
		checkers := make([]observability.HealthChecker, 0, len(instances))
		for _, p := range instances {
			checkers = append(checkers, provider.HealthChecker(p))
		}
		return checkers
	})
	srv.MountPlugins(rt.plugins)

	if err := c.RegisterSingleton(di.App.HTTPServer, srv); err != nil {
		return err
	}
	if err := rt.app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return err
	}
	return rt.app.Run(ctx)
}
