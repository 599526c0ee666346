// Package config loads speechkit configuration from config.yml, .env files,
// the process environment and command-line flags using Viper.
//
// # Usage
//
//	var cfg app.Config
//	err := config.LoadConfig("speechkit", &cfg, config.WithConfigFile(path))
//
// Environment variables map onto nested keys by splitting on underscores,
// so ASSEMBLYAI_API_KEY populates assemblyai.api_key.
package config
