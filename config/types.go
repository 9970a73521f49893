package config

import (
	"sync"

	"github.com/spf13/viper"
)

type ConfigInterface interface {
	Bind(instance any) error
	BindWithDefaults(instance any) error
	Validate(instance any) error
	Files() []string
}

type Config struct {
	instance *viper.Viper
	opts     ConfigOptions
	files    []string
	mu       sync.RWMutex
}

type ConfigOptions struct {
	// BasePath is the directory searched for config files.
	BasePath string
	// FileName is the base name, without extension or env suffix.
	FileName string
	FileType string
	// EnvPrefix namespaces environment overrides, e.g. PHOTOCONV_BATCH_QUALITY.
	EnvPrefix string
	// Required turns "no config file found" into an error.
	Required bool
}

var _ ConfigInterface = (*Config)(nil)
