package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrPollBudgetExhausted is returned when MaxAttempts polls all observed a
// non-terminal state.
var ErrPollBudgetExhausted = errors.New("poll budget exhausted")

// DefaultPollInterval is the delay between two status checks.
const DefaultPollInterval = 3 * time.Second

// PollConfig configures a fixed-interval polling loop.
type PollConfig struct {
	// Interval is the wait before each check. Zero means DefaultPollInterval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval" validate:"gte=0"`
	// MaxAttempts bounds the number of checks. Zero means unbounded.
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts" validate:"gte=0"`
	// Timeout bounds the whole loop. Zero means no bound beyond ctx.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	// Sleep replaces the interval wait; nil uses Sleep.
	Sleep SleepFunc `yaml:"-" mapstructure:"-"`
	// OnPoll is called with the attempt number before each check.
	OnPoll func(attempt int) `yaml:"-" mapstructure:"-"`
}

// DefaultPollConfig returns a 3s interval with no attempt or time bound.
func DefaultPollConfig() PollConfig {
	return PollConfig{Interval: DefaultPollInterval}
}

// PollFunc performs one check. done reports that a terminal state was
// reached; a non-nil error stops polling immediately.
type PollFunc[T any] func(ctx context.Context, attempt int) (result T, done bool, err error)

// Poll waits Interval, calls fn, and repeats until fn reports done, returns
// an error, the attempt budget runs out, or ctx (bounded by Timeout) ends.
// The caller is expected to have observed a non-terminal state already, so
// every check, the first included, is preceded by a wait.
func Poll[T any](ctx context.Context, cfg PollConfig, fn PollFunc[T]) (T, error) {
	var last T

	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.Sleep == nil {
		cfg.Sleep = Sleep
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	for attempt := 1; cfg.MaxAttempts <= 0 || attempt <= cfg.MaxAttempts; attempt++ {
		if err := cfg.Sleep(ctx, cfg.Interval); err != nil {
			return last, err
		}
		if err := ctx.Err(); err != nil {
			return last, err
		}
		if cfg.OnPoll != nil {
			cfg.OnPoll(attempt)
		}

		result, done, err := fn(ctx, attempt)
		if err != nil {
			return result, err
		}
		last = result
		if done {
			return result, nil
		}
	}

	return last, fmt.Errorf("%w after %d attempts", ErrPollBudgetExhausted, cfg.MaxAttempts)
}
