package observability

import (
	"fmt"
	"time"
)

const (
	defaultEndpoint       = "localhost:4318"
	defaultMetricInterval = 15 * time.Second
)

// Config groups the tracing and metrics exporters. Both are disabled by
// default, in which case the global no-op providers stay in place.
type Config struct {
	Tracing TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
}

// TracerConfig configures the OTLP trace exporter.
type TracerConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure allows plain HTTP (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// SampleRate is the sampling rate (0.0 to 1.0).
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// MeterConfig configures the OTLP metric exporter.
type MeterConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure bool          `yaml:"insecure" mapstructure:"insecure"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ServiceInfo is stamped on every exported span and metric.
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
}

// ApplyDefaults fills endpoints, sample rate and export interval.
func (c *Config) ApplyDefaults() {
	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = defaultEndpoint
	}
	if c.Tracing.Enabled && c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = 1.0
	}
	if c.Metrics.Endpoint == "" {
		c.Metrics.Endpoint = defaultEndpoint
	}
	if c.Metrics.Interval <= 0 {
		c.Metrics.Interval = defaultMetricInterval
	}
}

// Validate checks sample rate bounds.
func (c *Config) Validate() error {
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("observability: tracing.sample_rate must be between 0 and 1, got %v", c.Tracing.SampleRate)
	}
	return nil
}
