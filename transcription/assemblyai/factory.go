package assemblyai

import (
	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/provider"
	"github.com/kbukum/speechkit/transcription"
)

// Settings is the generic settings map layout understood by Factory.
type Settings struct {
	Config                `mapstructure:",squash"`
	AllowFileSystemAccess bool `mapstructure:"allow_file_system_access"`
}

// DecodeSettings decodes a settings map. Durations may be given as strings
// ("3s") and numbers may arrive as strings.
func DecodeSettings(cfg map[string]any) (Settings, error) {
	var s Settings
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
		WeaklyTypedInput: true,
		Result:           &s,
	})
	if err != nil {
		return s, errors.Internal(err)
	}
	if err := dec.Decode(cfg); err != nil {
		return s, errors.Validation("invalid assemblyai settings: " + err.Error()).WithCause(err)
	}
	return s, nil
}

// Factory returns a provider.Factory that creates AssemblyAI providers
// from a generic settings map, with the given options applied first.
func Factory(opts ...Option) provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		s, err := DecodeSettings(cfg)
		if err != nil {
			return nil, err
		}
		all := append(append([]Option{}, opts...), WithFileSystemAccess(s.AllowFileSystemAccess))
		return NewProvider(s.Config, all...)
	}
}
