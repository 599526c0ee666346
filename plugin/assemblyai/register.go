package assemblyai

import (
	"context"
	"fmt"

	"github.com/kbukum/speechkit/di"
	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/plugin"
	"github.com/kbukum/speechkit/provider"
	"github.com/kbukum/speechkit/transcription"
	"github.com/kbukum/speechkit/transcription/assemblyai"
)

// Register validates opts, builds an AssemblyAI provider wrapped in
// middlewares and adds the plugin to plugins.
//
// The provider is created through the provider registry held by c (a
// private one when c has none) from opts.Settings. The instrumented
// provider is cached in that registry and, with the options, registered in
// c under keys scoped by the plugin name.
//
// An empty API key fails here, before anything is registered.
func Register(c di.Container, plugins *plugin.Collection, opts Options, middlewares ...transcription.Middleware) (*plugin.Plugin, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	log, ok := di.TryResolve[*logger.Logger](c, di.App.Logger)
	if !ok {
		log = logger.GetGlobalLogger()
	}
	popts := []assemblyai.Option{assemblyai.WithLogger(log)}
	if m, ok := di.TryResolve[*observability.Metrics](c, di.App.Metrics); ok {
		popts = append(popts, assemblyai.WithMetrics(m))
	}

	reg, ok := di.TryResolve[*provider.Registry[transcription.Provider]](c, di.App.Providers)
	if !ok {
		reg = transcription.NewRegistry()
	}
	reg.RegisterFactory(assemblyai.ProviderName, assemblyai.Factory(popts...))

	settings, err := opts.Settings()
	if err != nil {
		return nil, err
	}
	raw, err := reg.Create(assemblyai.ProviderName, settings)
	if err != nil {
		return nil, err
	}
	up, ok := raw.(Uploader)
	if !ok {
		closeProvider(raw)
		return nil, errors.Internal(fmt.Errorf("%s provider cannot upload files", raw.Name()))
	}
	tp := transcription.Instrument(raw, middlewares...)

	p := New(opts.Plugin.Name, tp, up)
	if err := plugins.Add(p); err != nil {
		closeProvider(raw)
		return nil, err
	}

	if err := c.RegisterSingleton(di.Scoped(di.App.Transcriber, p.Name), tp); err != nil {
		return nil, err
	}
	if err := c.RegisterSingleton(di.Scoped(di.App.Options, p.Name), opts); err != nil {
		return nil, err
	}
	reg.Set(p.Name, tp)

	log.Info("plugin registered", logger.Fields(
		logger.FieldPlugin, p.Name,
		logger.FieldProvider, raw.Name(),
		"allow_file_system_access", opts.Plugin.AllowFileSystemAccess,
	))
	return p, nil
}

func closeProvider(p transcription.Provider) {
	if c, ok := p.(provider.Closeable); ok {
		_ = c.Close(context.Background())
	}
}
