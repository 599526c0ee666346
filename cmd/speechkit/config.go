package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/kbukum/speechkit/config"
	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/observability"
	pluginassemblyai "github.com/kbukum/speechkit/plugin/assemblyai"
	"github.com/kbukum/speechkit/server"
)

const serviceName = "speechkit"

// AppConfig is the full speechkit configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	AssemblyAI           pluginassemblyai.Options `yaml:"assemblyai" mapstructure:"assemblyai"`
	Server               server.Config            `yaml:"server" mapstructure:"server"`
	Observability        observability.Config     `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every section. The AssemblyAI section is validated
// only by the commands that talk to the service.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.AssemblyAI.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	return nil
}

// flagKeys maps global flags to the config keys they override.
var flagKeys = map[string]string{
	"allow-fs":  "assemblyai.plugin.allow_file_system_access",
	"log-level": "logging.level",
}

// globalFlags are accepted by every command.
type globalFlags struct {
	fs         *pflag.FlagSet
	configFile string
	envFile    string
}

func newFlagSet(name string, cl *cli) *globalFlags {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(cl.stderr)
	g := &globalFlags{fs: fs}
	fs.StringVarP(&g.configFile, "config", "c", "", "config file path")
	fs.StringVar(&g.envFile, "env-file", "", ".env file path")
	fs.Bool("allow-fs", false, "allow reading and uploading local files")
	fs.String("log-level", "", "log level: debug, info, warn or error")
	return g
}

// load resolves the configuration from defaults, files, environment and
// the flags set on the command line, in increasing precedence.
func (g *globalFlags) load() (*AppConfig, error) {
	opts := []config.LoaderOption{config.WithFlags(g.fs, flagKeys)}
	if g.configFile != "" {
		if _, err := os.Stat(g.configFile); err != nil {
			return nil, errors.NotFound("config file", g.configFile).WithCause(err)
		}
		opts = append(opts, config.WithConfigFile(g.configFile))
	}
	if g.envFile != "" {
		opts = append(opts, config.WithEnvFile(g.envFile))
	}

	var cfg AppConfig
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
