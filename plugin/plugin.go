package plugin

import (
	"context"
	"strings"
)

// ParameterType is the JSON type a parameter value is expected to have.
type ParameterType string

const (
	TypeString ParameterType = "string"
	TypeObject ParameterType = "object"
)

// Parameter describes one function argument.
type Parameter struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Type        ParameterType `json:"type"`
	Required    bool          `json:"required"`
}

// Handler runs a function with its arguments and returns its textual result.
type Handler func(ctx context.Context, args Arguments) (string, error)

// Function is a single callable operation of a plugin.
type Function struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Handler     Handler     `json:"-"`
}

// Plugin is a named group of functions.
type Plugin struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Functions   []Function `json:"functions"`
}

// Function returns the function called name.
func (p *Plugin) Function(name string) (*Function, bool) {
	for i := range p.Functions {
		if strings.EqualFold(p.Functions[i].Name, name) {
			return &p.Functions[i], true
		}
	}
	return nil, false
}
