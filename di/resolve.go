package di

import "fmt"

// MustResolve resolves a component with type safety and panics on error.
//
//	plugins := di.MustResolve[*plugin.Collection](c, di.App.Plugins)
func MustResolve[T any](c Container, key string) T {
	result, err := Resolve[T](c, key)
	if err != nil {
		panic(err.Error())
	}
	return result
}

// Resolve resolves a component with type safety.
func Resolve[T any](c Container, key string) (T, error) {
	var zero T
	instance, err := c.Resolve(key)
	if err != nil {
		return zero, fmt.Errorf("di: failed to resolve %s: %w", key, err)
	}
	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("di: component %s is %T, expected %T", key, instance, zero)
	}
	return result, nil
}

// TryResolve resolves an optional component. It reports false when the key
// is missing or holds another type.
//
//	if m, ok := di.TryResolve[*observability.Metrics](c, di.App.Metrics); ok {
//	    m.RecordError(ctx, "assemblyai", "TIMEOUT")
//	}
func TryResolve[T any](c Container, key string) (T, bool) {
	result, err := Resolve[T](c, key)
	return result, err == nil
}
