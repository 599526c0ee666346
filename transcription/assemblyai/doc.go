// Package assemblyai is the AssemblyAI transcription backend.
//
// A transcription resolves its input to a URL the service can fetch:
// remote URLs are used as-is, local paths and file:// URIs are uploaded
// (only when filesystem access is allowed) and in-memory audio is always
// uploaded. It then submits a job and polls its status at a fixed
// interval until the job completes or fails.
//
//	p, err := assemblyai.NewProvider(assemblyai.Config{APIKey: key},
//	    assemblyai.WithFileSystemAccess(true))
//	resp, err := p.Transcribe(ctx, transcription.Request{Input: "/tmp/call.wav"})
//
// Failures are *errors.AppError values: INVALID_INPUT, FORBIDDEN,
// NOT_FOUND, UPSTREAM_ERROR (with the HTTP status), MALFORMED_RESPONSE,
// TRANSCRIPTION_FAILED, PROTOCOL_VIOLATION, TIMEOUT and CANCELED.
package assemblyai
