// Package di provides a small dependency injection container.
//
// It supports eager, lazy, and singleton registration with type-safe
// resolution using generics. Keys for the components a speechkit
// application shares are listed in App.
//
// # Registration
//
//	_ = c.Register(di.App.Transcriber, func() (transcription.Provider, error) {
//	    return assemblyai.NewProvider(cfg)
//	})
//
// # Resolution
//
//	p := di.MustResolve[transcription.Provider](c, di.App.Transcriber)
package di
