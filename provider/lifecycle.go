package provider

import "context"

// Closeable is optionally implemented by providers that hold resources
// (idle HTTP connections, open files) requiring explicit cleanup.
// Registry.Close calls it for every cached instance.
type Closeable interface {
	Close(ctx context.Context) error
}
