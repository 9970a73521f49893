package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// Config represents the logger configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error, fatal).
	Level string `mapstructure:"level" json:"level" yaml:"level"`

	// Format is the line format, console or json.
	Format string `mapstructure:"format" json:"format" yaml:"format"`

	// EncodeLevel is the level encoder type (LowercaseLevelEncoder, LowercaseColorLevelEncoder, CapitalLevelEncoder, CapitalColorLevelEncoder).
	EncodeLevel string `mapstructure:"encode_level" json:"encodeLevel" yaml:"encode_level"`

	// Color paints console levels with DefaultLevelColors. It takes
	// precedence over EncodeLevel and never applies to log files.
	Color bool `mapstructure:"color" json:"color" yaml:"color"`

	// TimeFormat is the time layout used for the time field.
	TimeFormat string `mapstructure:"time_format" json:"timeFormat" yaml:"time_format"`

	// LogInTerminal enables logging to stdout.
	LogInTerminal bool `mapstructure:"log_in_terminal" json:"logInTerminal" yaml:"log_in_terminal"`

	// LogInFile enables rotating per-level log files under Director.
	LogInFile bool `mapstructure:"log_in_file" json:"logInFile" yaml:"log_in_file"`

	// Director is the directory where log files are stored, one sub directory per day.
	Director string `mapstructure:"director" json:"director" yaml:"director"`

	// MaxAge is the maximum number of days to retain old log files.
	MaxAge int `mapstructure:"max_age" json:"maxAge" yaml:"max_age"`

	// MaxSize is the maximum size in megabytes of a log file before rotation.
	MaxSize int `mapstructure:"max_size" json:"maxSize" yaml:"max_size"`

	// MaxBackups is the maximum number of rotated files to retain.
	MaxBackups int `mapstructure:"max_backups" json:"maxBackups" yaml:"max_backups"`

	// Compress gzips rotated files.
	Compress bool `mapstructure:"compress" json:"compress" yaml:"compress"`

	// ShowLineNumber adds caller information to log entries.
	ShowLineNumber bool `mapstructure:"show_line_number" json:"showLineNumber" yaml:"show_line_number"`
}

// DefaultConfig returns the command-line defaults: console lines on stdout,
// no log files.
func DefaultConfig() Config {
	return Config{
		Level:         "info",
		Format:        "console",
		EncodeLevel:   "CapitalLevelEncoder",
		TimeFormat:    "2006/01/02 - 15:04:05",
		LogInTerminal: true,
		LogInFile:     false,
		Director:      "logs",
		MaxAge:        7,
		MaxSize:       100,
		MaxBackups:    10,
		Compress:      true,
	}
}

// TransportLevel converts the string level to zapcore.Level.
func (c Config) TransportLevel() zapcore.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// ZapEncodeLevel returns the zapcore.LevelEncoder based on EncodeLevel.
func (c Config) ZapEncodeLevel() zapcore.LevelEncoder {
	if c.Color && c.Format != "json" {
		return ColorLevelEncoder(DefaultLevelColors())
	}
	switch c.EncodeLevel {
	case "LowercaseLevelEncoder":
		return zapcore.LowercaseLevelEncoder
	case "LowercaseColorLevelEncoder":
		return zapcore.LowercaseColorLevelEncoder
	case "CapitalColorLevelEncoder":
		return zapcore.CapitalColorLevelEncoder
	default:
		return zapcore.CapitalLevelEncoder
	}
}

// plain returns c without escape codes, for file output.
func (c Config) plain() Config {
	c.Color = false
	switch c.EncodeLevel {
	case "LowercaseColorLevelEncoder":
		c.EncodeLevel = "LowercaseLevelEncoder"
	case "CapitalColorLevelEncoder":
		c.EncodeLevel = "CapitalLevelEncoder"
	}
	return c
}

// applyDefaults fills empty fields from DefaultConfig. Booleans are left alone.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Level == "" {
		c.Level = defaults.Level
	}
	if c.Format == "" {
		c.Format = defaults.Format
	}
	if c.EncodeLevel == "" {
		c.EncodeLevel = defaults.EncodeLevel
	}
	if c.TimeFormat == "" {
		c.TimeFormat = defaults.TimeFormat
	}
	if c.Director == "" {
		c.Director = defaults.Director
	}
	if c.MaxAge == 0 {
		c.MaxAge = defaults.MaxAge
	}
	if c.MaxSize == 0 {
		c.MaxSize = defaults.MaxSize
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = defaults.MaxBackups
	}
}
