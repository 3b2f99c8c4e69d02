package log

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger is the default implementation of the Logger interface.
type zapLogger struct {
	*zap.SugaredLogger
}

// NewLogger creates a logger writing human-readable output to the given writer.
// With verbose=true the debug level is enabled.
func NewLogger(out io.Writer, verbose bool) Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(zapcore.AddSync(out)),
		level,
	)

	return loggerFromZap(zap.New(core))
}

// NewNopLogger creates a logger that discards all messages.
func NewNopLogger() Logger {
	return loggerFromZap(zap.NewNop())
}

func loggerFromZap(l *zap.Logger) *zapLogger {
	return &zapLogger{SugaredLogger: l.Sugar()}
}

func (l *zapLogger) With(args ...any) Logger {
	return &zapLogger{SugaredLogger: l.SugaredLogger.With(args...)}
}
