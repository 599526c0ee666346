package assemblyai

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/transcription/assemblyai"
	"github.com/kbukum/speechkit/validation"
)

// DefaultName is the plugin name used when none is configured.
const DefaultName = "AssemblyAIPlugin"

// PluginOptions configures the plugin itself.
type PluginOptions struct {
	// Name the plugin is registered under.
	Name string `yaml:"name" mapstructure:"name"`
	// AllowFileSystemAccess permits reading and uploading local files.
	AllowFileSystemAccess bool `yaml:"allow_file_system_access" mapstructure:"allow_file_system_access"`
}

// Options is the "assemblyai" configuration section: the provider settings
// plus a "plugin" subsection.
type Options struct {
	assemblyai.Config `yaml:",inline" mapstructure:",squash"`
	Plugin            PluginOptions `yaml:"plugin" mapstructure:"plugin"`
}

// ApplyDefaults fills in zero-value fields.
func (o *Options) ApplyDefaults() {
	o.Config.ApplyDefaults()
	if strings.TrimSpace(o.Plugin.Name) == "" {
		o.Plugin.Name = DefaultName
	}
}

// Validate checks the provider settings, the API key first.
func (o *Options) Validate() error {
	if err := o.Config.Validate(); err != nil {
		return err
	}
	v := validation.New()
	v.Required("assemblyai.plugin.name", o.Plugin.Name)
	v.Custom(!strings.ContainsAny(o.Plugin.Name, " /"), "assemblyai.plugin.name", "must not contain spaces or slashes")
	return v.Validate()
}

// Settings flattens the provider section and the filesystem flag into the
// settings map read by assemblyai.Factory.
func (o Options) Settings() (map[string]any, error) {
	settings := make(map[string]any)
	if err := mapstructure.Decode(o.Config, &settings); err != nil {
		return nil, errors.Internal(err)
	}
	settings["allow_file_system_access"] = o.Plugin.AllowFileSystemAccess
	return settings, nil
}
