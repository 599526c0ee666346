package plugin

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
)

// Collection holds the plugins a host can call. It is safe for concurrent use.
type Collection struct {
	mu      sync.RWMutex
	plugins map[string]*Plugin
	log     *logger.Logger
}

// LoggerName is the component name plugin invocations are logged under.
const LoggerName = "plugins"

// NewCollection creates an empty collection. A nil log uses the logger
// registered as LoggerName.
func NewCollection(log *logger.Logger) *Collection {
	if log == nil {
		log = logger.Get(LoggerName)
	} else {
		log = log.WithComponent(LoggerName)
	}
	return &Collection{
		plugins: make(map[string]*Plugin),
		log:     log,
	}
}

// Add registers p. Plugin names and function names within a plugin must be
// unique, and every function needs a handler.
func (c *Collection) Add(p *Plugin) error {
	if p == nil || p.Name == "" {
		return errors.InvalidInput("name", "plugin name is required")
	}
	seen := make(map[string]bool, len(p.Functions))
	for _, fn := range p.Functions {
		key := strings.ToLower(fn.Name)
		switch {
		case fn.Name == "":
			return errors.InvalidInput("function", "function name is required")
		case fn.Handler == nil:
			return errors.InvalidInput("function", "function "+fn.Name+" has no handler")
		case seen[key]:
			return errors.AlreadyExists("function").WithDetail("function", fn.Name)
		}
		seen[key] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	key := strings.ToLower(p.Name)
	if _, ok := c.plugins[key]; ok {
		return errors.AlreadyExists("plugin").WithDetail("plugin", p.Name)
	}
	c.plugins[key] = p
	return nil
}

// Get returns the plugin called name.
func (c *Collection) Get(name string) (*Plugin, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.plugins[strings.ToLower(name)]
	return p, ok
}

// List returns all plugins sorted by name.
func (c *Collection) List() []*Plugin {
	c.mu.RLock()
	out := make([]*Plugin, 0, len(c.plugins))
	for _, p := range c.plugins {
		out = append(out, p)
	}
	c.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Plugin) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Invoke calls function of plugin with args after checking that every
// required parameter is present.
func (c *Collection) Invoke(ctx context.Context, pluginName, function string, args Arguments) (string, error) {
	p, ok := c.Get(pluginName)
	if !ok {
		return "", errors.NotFound("plugin", pluginName)
	}
	fn, ok := p.Function(function)
	if !ok {
		return "", errors.NotFound("function", function).WithDetail("plugin", p.Name)
	}
	for _, param := range fn.Parameters {
		if param.Required && !args.Has(param.Name) {
			return "", errors.MissingField(param.Name)
		}
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanInvoke)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrOperation, p.Name+"."+fn.Name)

	log := c.log.WithContext(ctx).WithFields(logger.Fields(
		logger.FieldPlugin, p.Name,
		logger.FieldFunction, fn.Name,
	))
	start := time.Now()
	result, err := fn.Handler(ctx, args)
	if err != nil {
		observability.SetSpanError(ctx, err)
		log.Warn("plugin function failed", logger.Fields(
			logger.FieldDuration, time.Since(start).Milliseconds(),
			logger.FieldError, err.Error(),
			"code", string(errors.CodeOf(err)),
		))
		return "", err
	}
	log.Debug("plugin function completed", logger.Fields(logger.FieldDuration, time.Since(start).Milliseconds()))
	return result, nil
}
