package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/leeforge/photoconv/env_mode"
	apperrors "github.com/leeforge/photoconv/errors"
	"github.com/leeforge/photoconv/utils"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var validate = validator.New()

func DefaultConfigOptions() ConfigOptions {
	basePath := os.Getenv("CONFIG_PATH")
	if basePath == "" {
		basePath = "."
	}

	return ConfigOptions{
		BasePath:  basePath,
		FileName:  "photoconv",
		FileType:  "yaml",
		EnvPrefix: "PHOTOCONV",
	}
}

func NewConfig(optsArr ...ConfigOptions) (*Config, error) {
	opts := DefaultConfigOptions()
	if len(optsArr) > 0 {
		opts = optsArr[0]
	}

	instance, files, err := CreateConfig(opts)
	if err != nil {
		return nil, err
	}

	return &Config{
		instance: instance,
		opts:     opts,
		files:    files,
	}, nil
}

// CreateConfig merges every layered config file that exists, in order, and
// enables environment overrides. It returns the files that were read.
func CreateConfig(opts ConfigOptions) (*viper.Viper, []string, error) {
	configPaths := getConfigFilePaths(opts)
	if len(configPaths) == 0 && opts.Required {
		return nil, nil, apperrors.NewConfig(fmt.Sprintf("no configuration files found in path: %s", opts.BasePath))
	}

	v := viper.New()
	v.SetConfigType(opts.FileType)

	for _, configPath := range configPaths {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, nil, apperrors.WrapWithType(err, apperrors.ErrorTypeConfig,
				fmt.Sprintf("error reading config file %s", configPath))
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if opts.EnvPrefix != "" {
		v.SetEnvPrefix(opts.EnvPrefix)
	}
	v.AutomaticEnv()

	return v, configPaths, nil
}

// BindFlags binds command-line flags to config keys. keys maps flag name to
// config key; flags set on the command line win over env and files.
func (c *Config) BindFlags(fs *pflag.FlagSet, keys map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for name, key := range keys {
		flag := fs.Lookup(name)
		if flag == nil {
			return apperrors.NewConfig(fmt.Sprintf("unknown flag %q", name))
		}
		if err := c.instance.BindPFlag(key, flag); err != nil {
			return apperrors.WrapWithType(err, apperrors.ErrorTypeConfig, fmt.Sprintf("bind flag %q", name))
		}
	}
	return nil
}

func (c *Config) Bind(instance any) error {
	if c == nil || c.instance == nil {
		return apperrors.NewConfig("config instance is nil")
	}
	if instance == nil {
		return apperrors.NewConfig("target instance is nil")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// AutomaticEnv only covers keys viper already knows, so every field of
	// instance is registered before decoding.
	for _, key := range Keys(instance) {
		if err := c.instance.BindEnv(key); err != nil {
			return apperrors.WrapWithType(err, apperrors.ErrorTypeConfig, fmt.Sprintf("bind env %q", key))
		}
	}

	if err := c.instance.Unmarshal(instance); err != nil {
		return apperrors.WrapWithType(err, apperrors.ErrorTypeConfig,
			fmt.Sprintf("failed to unmarshal config (path: %s, file: %s.%s)", c.opts.BasePath, c.opts.FileName, c.opts.FileType))
	}
	return nil
}

// BindWithDefaults fills `default` tags first, then overlays files, env and
// flags. Defaults are not re-applied afterwards, so an explicit zero survives.
func (c *Config) BindWithDefaults(instance any) error {
	if err := defaults.Set(instance); err != nil {
		return apperrors.WrapWithType(err, apperrors.ErrorTypeConfig, "failed to set defaults")
	}
	return c.Bind(instance)
}

// Keys lists the dotted config key of every leaf field in instance, following
// mapstructure tags. Squashed structs contribute their fields to the parent.
func Keys(instance any) []string {
	t := reflect.TypeOf(instance)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var keys []string
	collectKeys(t, "", &keys)
	return keys
}

var timeType = reflect.TypeOf(time.Time{})

func collectKeys(t reflect.Type, prefix string, keys *[]string) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("mapstructure")
		name, opts, _ := strings.Cut(tag, ",")
		if name == "-" {
			continue
		}

		ft := field.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		isStruct := ft.Kind() == reflect.Struct && ft != timeType

		if isStruct && opts == "squash" {
			collectKeys(ft, prefix, keys)
			continue
		}

		if name == "" {
			name = strings.ToLower(field.Name)
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}

		if isStruct {
			collectKeys(ft, key, keys)
			continue
		}
		*keys = append(*keys, key)
	}
}

// Validate checks `validate` tags on instance.
func (c *Config) Validate(instance any) error {
	return ValidateStruct(instance)
}

// Files returns the config files that were merged, in load order.
func (c *Config) Files() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.files...)
}

func (c *Config) Get(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.instance.Get(key)
}

func (c *Config) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instance.Set(key, value)
}

// ValidateStruct runs the validator on instance and folds every field error
// into one config error.
func ValidateStruct(instance any) error {
	err := validate.Struct(instance)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.WrapWithType(err, apperrors.ErrorTypeConfig, "invalid config")
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s %s", fe.Namespace(), getValidationMessage(fe)))
	}
	return apperrors.NewConfig("invalid config: "+strings.Join(messages, "; ")).
		WithDetail("fields", len(messages))
}

func getValidationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation for tag '%s'", fe.Tag())
	}
}

func getConfigFilePaths(opts ConfigOptions) (configFiles []string) {
	fileNames := []string{
		opts.FileName,
		opts.FileName + ".local",
	}
	for _, suffix := range env_mode.Current().Suffixes() {
		fileNames = append(fileNames,
			fmt.Sprintf("%s.%s", opts.FileName, suffix),
			fmt.Sprintf("%s.%s.local", opts.FileName, suffix),
		)
	}

	for _, fileName := range fileNames {
		file := filepath.Join(opts.BasePath, fmt.Sprintf("%s.%s", fileName, opts.FileType))
		if isDir, exists, _ := utils.Exists(file); exists && !isDir {
			configFiles = append(configFiles, file)
		}
	}

	return configFiles
}
