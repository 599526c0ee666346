// Package plugin describes host-callable functions and dispatches
// invocations to them.
//
// A Plugin is a named group of Functions. Each Function declares its
// Parameters so a host can render them for a model or a UI, and a Handler
// that receives the decoded Arguments.
//
//	plugins := plugin.NewCollection(nil)
//	_ = plugins.Add(p)
//	text, err := plugins.Invoke(ctx, "AssemblyAIPlugin", "Transcribe", plugin.Arguments{
//	    "input": "https://example.com/talk.mp3",
//	})
//
// Names are matched case-insensitively. An unknown plugin or function fails
// with NOT_FOUND and a missing required argument with MISSING_FIELD.
package plugin
