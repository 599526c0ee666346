// Package component defines lifecycle-managed parts of an application and
// a registry that starts them in order and stops them in reverse.
//
// The HTTP server and the telemetry exporters are components; anything
// else can be adapted with Func.
package component
