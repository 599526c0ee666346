package assemblyai

import (
	"time"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/resilience"
	"github.com/kbukum/speechkit/validation"
)

const (
	// ProviderName is the registered name for the AssemblyAI provider.
	ProviderName = "assemblyai"

	// DefaultBaseURL is the public AssemblyAI API.
	DefaultBaseURL = "https://api.assemblyai.com"

	serviceName    = "AssemblyAI"
	defaultTimeout = 5 * time.Minute
)

// Config holds configuration for the AssemblyAI transcription provider.
type Config struct {
	// APIKey is sent verbatim in the Authorization header. Required.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	// BaseURL is the API root. Defaults to DefaultBaseURL.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	// Timeout bounds a single HTTP request, uploads included.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	// Retries is the number of extra attempts for status checks failing
	// with a connection error, 429 or 5xx. Uploads and job creation are
	// never retried. Zero disables retry.
	Retries int `yaml:"retries" mapstructure:"retries" validate:"gte=0,lte=10"`
	// Poll is the status polling policy. Zero values mean every 3s,
	// without an attempt or time bound.
	Poll resilience.PollConfig `yaml:"poll" mapstructure:"poll"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Poll.Interval <= 0 {
		c.Poll.Interval = resilience.DefaultPollInterval
	}
}

// Validate fails fast on a missing API key, then checks field bounds.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.Validation("assemblyai.api_key must be configured.").
			WithDetail("field", "assemblyai.api_key")
	}
	return validation.Validate(c)
}
