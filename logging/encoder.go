package logging

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// terminalOutput is where the terminal core writes. Tests swap it out.
var terminalOutput io.Writer = os.Stdout

// timeEncoder formats entry times with config.TimeFormat.
func timeEncoder(config Config) zapcore.TimeEncoder {
	return func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format(config.TimeFormat))
	}
}

// GetEncoder returns a zapcore.Encoder based on the config format.
func GetEncoder(config Config) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "message",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "logger",
		CallerKey:      "caller",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    config.ZapEncodeLevel(),
		EncodeTime:     timeEncoder(config),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	if config.Format == "json" {
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

// exactLevel enables only the given level, so every file holds one level.
func exactLevel(level zapcore.Level) zap.LevelEnablerFunc {
	return func(l zapcore.Level) bool {
		return l == level
	}
}

// getZapCores builds one terminal core for every level >= config.Level and,
// with LogInFile, one file core per level.
func getZapCores(config Config) []zapcore.Core {
	minLevel := config.TransportLevel()
	encoder := GetEncoder(config)
	cores := make([]zapcore.Core, 0, 8)

	if config.LogInTerminal {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(terminalOutput), minLevel))
	}

	if config.LogInFile {
		fileEncoder := GetEncoder(config.plain())
		for level := minLevel; level <= zapcore.FatalLevel; level++ {
			writer := newLevelWriter(config, level.String())
			registerWriter(writer)
			cores = append(cores, zapcore.NewCore(fileEncoder.Clone(), zapcore.AddSync(writer), exactLevel(level)))
		}
	}

	if len(cores) == 0 {
		cores = append(cores, zapcore.NewNopCore())
	}
	return cores
}
