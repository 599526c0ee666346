package di

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/resilience"
)

// RegistrationMode determines how a component is resolved.
type RegistrationMode int

const (
	Eager     RegistrationMode = iota // constructed on registration
	Lazy                              // constructed on first resolve
	Singleton                         // pre-created instance
)

func (m RegistrationMode) String() string {
	switch m {
	case Eager:
		return "eager"
	case Lazy:
		return "lazy"
	case Singleton:
		return "singleton"
	}
	return "unknown"
}

// Container defines the interface for a dependency injection container.
//
// Constructors are functions with no argument, a context.Context or a
// Container, returning either (instance) or (instance, error).
type Container interface {
	Register(key string, constructor any) error
	RegisterLazy(key string, constructor any, options ...LazyOption) error
	RegisterEager(key string, constructor any) error
	RegisterSingleton(key string, instance any) error
	Resolve(key string) (any, error)
	MustResolve(key string) any
	Registrations() []RegistrationInfo
	// Close closes every constructed instance that implements
	// Close(context.Context) error or io.Closer.
	Close(ctx context.Context) error
}

// RegistrationInfo describes a registered component for introspection.
type RegistrationInfo struct {
	Key         string
	Mode        RegistrationMode
	Initialized bool
}

// LazyOption customizes a lazy registration.
type LazyOption func(*registration)

// WithRetry retries a failing lazy constructor. Without it a constructor
// runs once per Resolve until it succeeds.
func WithRetry(cfg resilience.RetryConfig) LazyOption {
	return func(r *registration) { r.retry = &cfg }
}

type registration struct {
	key         string
	constructor any
	mode        RegistrationMode
	retry       *resilience.RetryConfig

	mu          sync.Mutex
	instance    any
	initialized bool
}

type container struct {
	mu         sync.RWMutex
	components map[string]*registration
	singletons map[string]any
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{
		components: make(map[string]*registration),
		singletons: make(map[string]any),
	}
}

// Register registers a lazy component.
func (c *container) Register(key string, constructor any) error {
	return c.RegisterLazy(key, constructor)
}

// RegisterLazy registers a component constructed on first resolve.
func (c *container) RegisterLazy(key string, constructor any, options ...LazyOption) error {
	if err := checkConstructor(constructor); err != nil {
		return err
	}
	reg := &registration{key: key, constructor: constructor, mode: Lazy}
	for _, opt := range options {
		opt(reg)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.components[key] = reg
	return nil
}

// RegisterEager constructs a component immediately.
func (c *container) RegisterEager(key string, constructor any) error {
	if err := checkConstructor(constructor); err != nil {
		return err
	}
	instance, err := c.call(context.Background(), constructor)
	if err != nil {
		return fmt.Errorf("di: failed to initialize eager component %q: %w", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.components[key] = &registration{
		key: key, constructor: constructor, mode: Eager,
		instance: instance, initialized: true,
	}
	return nil
}

// RegisterSingleton registers a pre-created instance. Singletons take
// priority over constructors registered under the same key.
func (c *container) RegisterSingleton(key string, instance any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.singletons[key] = instance
	return nil
}

// Resolve returns the instance registered under key.
func (c *container) Resolve(key string) (any, error) {
	c.mu.RLock()
	if s, ok := c.singletons[key]; ok {
		c.mu.RUnlock()
		return s, nil
	}
	reg, ok := c.components[key]
	c.mu.RUnlock()

	if !ok {
		return nil, errors.NotFound("component", key).WithDetail("reason", "not registered")
	}
	return c.resolve(reg)
}

// MustResolve is Resolve that panics on error.
func (c *container) MustResolve(key string) any {
	instance, err := c.Resolve(key)
	if err != nil {
		panic(err)
	}
	return instance
}

func (c *container) resolve(reg *registration) (any, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.initialized {
		return reg.instance, nil
	}

	build := func() (any, error) { return c.call(context.Background(), reg.constructor) }
	var (
		instance any
		err      error
	)
	if reg.retry != nil {
		cfg := *reg.retry
		cfg.OnRetry = func(attempt int, err error, _ time.Duration) {
			logger.Debug("lazy component initialization failed", logger.Fields(
				logger.FieldComponent, reg.key,
				logger.FieldAttempt, attempt,
				logger.FieldError, err.Error(),
			))
		}
		instance, err = resilience.Retry(context.Background(), cfg, build)
	} else {
		instance, err = build()
	}
	if err != nil {
		return nil, fmt.Errorf("di: failed to initialize lazy component %q: %w", reg.key, err)
	}

	reg.instance = instance
	reg.initialized = true
	logger.Debug("lazy component initialized", logger.Fields(logger.FieldComponent, reg.key))
	return instance, nil
}

func checkConstructor(constructor any) error {
	if reflect.ValueOf(constructor).Kind() != reflect.Func {
		return errors.InvalidInput("constructor", "constructor must be a function")
	}
	return nil
}

var (
	contextType   = reflect.TypeFor[context.Context]()
	containerType = reflect.TypeFor[Container]()
	errorType     = reflect.TypeFor[error]()
)

func (c *container) call(ctx context.Context, constructor any) (any, error) {
	fn := reflect.ValueOf(constructor)
	ft := fn.Type()

	var in []reflect.Value
	switch {
	case ft.NumIn() == 0:
	case ft.NumIn() == 1 && ft.In(0) == contextType:
		in = []reflect.Value{reflect.ValueOf(ctx)}
	case ft.NumIn() == 1 && ft.In(0) == containerType:
		in = []reflect.Value{reflect.ValueOf(Container(c))}
	default:
		return nil, fmt.Errorf("unsupported constructor signature %s", ft)
	}

	out := fn.Call(in)
	switch {
	case len(out) == 1:
		return out[0].Interface(), nil
	case len(out) == 2 && ft.Out(1).Implements(errorType):
		if err, _ := out[1].Interface().(error); err != nil {
			return nil, err
		}
		return out[0].Interface(), nil
	}
	return nil, fmt.Errorf("constructor must return (instance) or (instance, error), got %s", ft)
}

// Registrations returns all registrations sorted by key.
func (c *container) Registrations() []RegistrationInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]RegistrationInfo, 0, len(c.components)+len(c.singletons))
	for key, reg := range c.components {
		reg.mu.Lock()
		out = append(out, RegistrationInfo{Key: key, Mode: reg.mode, Initialized: reg.initialized})
		reg.mu.Unlock()
	}
	for key := range c.singletons {
		out = append(out, RegistrationInfo{Key: key, Mode: Singleton, Initialized: true})
	}
	slices.SortFunc(out, func(a, b RegistrationInfo) int { return strings.Compare(a.Key, b.Key) })
	return out
}

// Close closes constructed instances and singletons in key order and joins
// their errors.
func (c *container) Close(ctx context.Context) error {
	var errs []error
	for _, info := range c.Registrations() {
		if !info.Initialized {
			continue
		}
		instance, err := c.Resolve(info.Key)
		if err != nil {
			continue
		}
		if err := closeInstance(ctx, instance); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", info.Key, err))
		}
	}
	return stderrors.Join(errs...)
}

func closeInstance(ctx context.Context, instance any) error {
	switch v := instance.(type) {
	case interface{ Close(context.Context) error }:
		return v.Close(ctx)
	case io.Closer:
		return v.Close()
	}
	return nil
}
