package main

import (
	"encoding/json"
	"strings"

	"github.com/kbukum/speechkit/errors"
)

// parseParams merges a JSON object given with --params and key=value pairs
// given with --param; pairs win. A pair's value is decoded as JSON when it
// parses ("true", "2", "[\"a\"]") and kept as a string otherwise.
func parseParams(pairs []string, raw string) (map[string]any, error) {
	params := make(map[string]any)
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &params); err != nil {
			return nil, errors.InvalidInput("params", "--params must be a JSON object").WithCause(err)
		}
		if params == nil {
			params = make(map[string]any)
		}
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.InvalidInput("param", "expected key=value, got "+pair)
		}
		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err != nil {
			decoded = value
		}
		params[key] = decoded
	}
	if len(params) == 0 {
		return nil, nil
	}
	return params, nil
}
