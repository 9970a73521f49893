package logging

import "go.uber.org/zap/zapcore"

// Color is a terminal ANSI escape code.
type Color = string

const Reset Color = "\033[0m"

const (
	Red     Color = "\033[31m"
	Green   Color = "\033[32m"
	Yellow  Color = "\033[33m"
	Blue    Color = "\033[34m"
	Gray    Color = "\033[90m"
	BoldRed Color = "\033[1;31m"

	BoldWhite Color = "\033[1;37m"
	BgRed     Color = "\033[41m"
)

// Colorize wraps text with color and a reset code.
func Colorize(color Color, text string) string {
	return color + text + Reset
}

// Combine joins colors and styles into one escape sequence.
// Example: Combine(BoldWhite, BgRed) for bold white text on red.
func Combine(colors ...Color) Color {
	var result Color
	for _, c := range colors {
		result += c
	}
	return result
}

// LevelColors maps log levels to colors. Zero fields fall back to
// DefaultLevelColors.
type LevelColors struct {
	Debug Color
	Info  Color
	Warn  Color
	Error Color
	Fatal Color
}

// DefaultLevelColors keeps Converted lines green and Failed lines red.
func DefaultLevelColors() LevelColors {
	return LevelColors{
		Debug: Gray,
		Info:  Green,
		Warn:  Yellow,
		Error: Red,
		Fatal: Combine(BoldWhite, BgRed),
	}
}

// LevelColor returns the color for level.
func (s LevelColors) LevelColor(level zapcore.Level) Color {
	defaults := DefaultLevelColors()
	switch level {
	case zapcore.DebugLevel:
		return withDefault(s.Debug, defaults.Debug)
	case zapcore.InfoLevel:
		return withDefault(s.Info, defaults.Info)
	case zapcore.WarnLevel:
		return withDefault(s.Warn, defaults.Warn)
	case zapcore.ErrorLevel:
		return withDefault(s.Error, defaults.Error)
	default:
		return withDefault(s.Fatal, defaults.Fatal)
	}
}

func withDefault(value, defaultValue Color) Color {
	if value == "" {
		return defaultValue
	}
	return value
}

// ColorLevelEncoder writes the capitalized level in its scheme color.
func ColorLevelEncoder(scheme LevelColors) zapcore.LevelEncoder {
	return func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(Colorize(scheme.LevelColor(level), level.CapitalString()))
	}
}
