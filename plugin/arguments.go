package plugin

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"

	"github.com/kbukum/speechkit/errors"
)

// Arguments holds the named values a function is invoked with.
type Arguments map[string]any

// Has reports whether name is present with a non-nil value.
func (a Arguments) Has(name string) bool {
	v, ok := a[name]
	return ok && v != nil
}

// String returns the string argument name, or "" when it is absent.
func (a Arguments) String(name string) (string, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.InvalidInput(name, fmt.Sprintf("%s must be a string, got %T", name, v))
	}
	return s, nil
}

// Object returns the object argument name, or nil when it is absent.
// Hosts that only pass strings may send the object as JSON text.
func (a Arguments) Object(name string) (map[string]any, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return nil, nil
	}
	switch val := v.(type) {
	case map[string]any:
		return maps.Clone(val), nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(val), &obj); err != nil {
			return nil, errors.InvalidInput(name, name+" must be a JSON object").WithCause(err)
		}
		return obj, nil
	default:
		return nil, errors.InvalidInput(name, fmt.Sprintf("%s must be an object, got %T", name, v))
	}
}
