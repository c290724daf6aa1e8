// Package config provides configuration loading for diarkit services.
//
// LoadConfig searches for config.yml and .env files in standard locations,
// binds environment variables through viper, and unmarshals the result into a
// caller-supplied struct. Services embed ServiceConfig and add the pipeline
// sections they need:
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Acoustic diarize.AcousticConfig `yaml:"acoustic" mapstructure:"acoustic"`
//	}
//	err := config.LoadConfig("diarkit", &cfg)
package config
