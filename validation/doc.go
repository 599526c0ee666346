// Package validation provides config and input validation for speechkit.
//
// It supports struct tag validation (using the validator library) and
// programmatic validation with error collection. Both produce an
// errors.AppError with per-field details.
//
// # Struct Tag Validation
//
//	type Config struct {
//	    APIKey  string `mapstructure:"api_key" validate:"required"`
//	    BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Range("port", cfg.Port, 1, 65535)
//	err := v.Validate()
package validation
