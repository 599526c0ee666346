package httpclient

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kbukum/speechkit/resilience"
)

const (
	defaultTimeout = 60 * time.Second
)

// Config configures the HTTP client.
type Config struct {
	// Name identifies the remote service in errors and logs.
	Name string `yaml:"-" mapstructure:"-"`

	// BaseURL is the base URL prepended to all request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds a single request, upload included. Defaults to 60s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is sent with every request when set.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Auth configures default authentication applied to all requests.
	// Individual requests can override this.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Retry configures retry of idempotent requests. Nil disables retry.
	Retry *resilience.RetryConfig `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Name == "" {
		c.Name = "http"
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("httpclient: base_url %q is not an absolute URL", c.BaseURL)
		}
	}
	return nil
}

// DefaultRetryConfig returns a retry config that only retries errors
// classified as retryable (connection failures, 429, 5xx).
func DefaultRetryConfig(maxAttempts int) *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	if maxAttempts > 0 {
		cfg.MaxAttempts = maxAttempts
	}
	cfg.RetryIf = IsRetryable
	return &cfg
}
