// Package bootstrap runs a speechkit application: it validates the typed
// config, initializes the logger, starts registered components, runs the
// configure callbacks and hooks, and shuts everything down in reverse.
//
// Long-running services use Run, which blocks until SIGINT or SIGTERM.
// Command-line work uses RunTask; a signal cancels the task context so an
// in-flight transcription stops polling and returns CANCELED.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	return app.RunTask(ctx, func(ctx context.Context) error {
//	    return transcribe(ctx, app)
//	})
package bootstrap
