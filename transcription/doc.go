// Package transcription defines the provider interface and common types
// for speech-to-text backends.
//
// # Backends
//
//   - transcription/assemblyai: AssemblyAI hosted transcription
//
// # Usage
//
//	reg := transcription.NewRegistry()
//	reg.RegisterFactory(assemblyai.ProviderName, assemblyai.Factory())
//	p, err := reg.Resolve(assemblyai.ProviderName, settings)
//
//	p = transcription.Instrument(p,
//	    provider.WithLogging[transcription.Request, *transcription.Response](log),
//	)
//	resp, err := p.Transcribe(ctx, transcription.Request{Input: "https://example.com/a.mp3"})
package transcription
