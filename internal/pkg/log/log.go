// Package log provides the project logger backed by go.uber.org/zap.
package log

// Logger is the common logging interface, implementations wrap a zap.SugaredLogger.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)

	Debugf(template string, args ...any)
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
	Errorf(template string, args ...any)

	// With returns a logger with the given structured context attached.
	With(args ...any) Logger

	Sync() error
}

// DebugLogger collects log messages in memory, for assertions in tests.
type DebugLogger interface {
	Logger
	AllMessages() string
	Truncate()
}
