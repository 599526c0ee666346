// Package assemblyai exposes AssemblyAI transcription as a host plugin.
//
// The plugin offers two functions:
//
//   - Transcribe(input, params) transcribes a public URL or, when filesystem
//     access is allowed, a local file, and returns the transcript text.
//   - Upload(path) uploads a local file and returns the URL the service
//     can read it from.
//
// Register wires the provider, the plugin and the options into an
// application in one call:
//
//	opts := assemblyai.Options{}
//	opts.APIKey = os.Getenv("ASSEMBLYAI_API_KEY")
//	p, err := assemblyai.Register(container, plugins, opts)
package assemblyai
