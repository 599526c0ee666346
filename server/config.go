package server

import (
	"time"

	"github.com/kbukum/speechkit/resilience"
	"github.com/kbukum/speechkit/validation"
)

// Config holds HTTP server configuration.
type Config struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port" validate:"gte=0,lte=65535"`
	// Timeouts in seconds. WriteTimeout must outlast a whole transcription.
	ReadTimeout     int `yaml:"read_timeout" mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    int `yaml:"write_timeout" mapstructure:"write_timeout" validate:"gte=0"`
	IdleTimeout     int `yaml:"idle_timeout" mapstructure:"idle_timeout" validate:"gte=0"`
	ShutdownTimeout int `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout" validate:"gte=0"`
	// MaxBodySize limits invocation bodies, e.g. "1MB".
	MaxBodySize string `yaml:"max_body_size" mapstructure:"max_body_size"`
	// Bulkhead caps concurrent plugin invocations.
	Bulkhead resilience.BulkheadConfig `yaml:"bulkhead" mapstructure:"bulkhead"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 900
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
	if c.Bulkhead.MaxConcurrent == 0 {
		c.Bulkhead.MaxConcurrent = 4
	}
	c.Bulkhead.Name = "plugin-invoke"
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }
