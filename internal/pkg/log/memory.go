package log

import (
	"bytes"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type memoryLogger struct {
	*zapLogger
	buffer *lockedBuffer
}

// lockedBuffer makes the underlying bytes.Buffer safe for concurrent writes
// from the logger and reads from test assertions.
type lockedBuffer struct {
	lock   sync.Mutex
	buffer bytes.Buffer
}

// NewDebugLogger creates a logger that records all messages in memory.
func NewDebugLogger() DebugLogger {
	buffer := &lockedBuffer{}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		ConsoleSeparator: "  ",
		LineEnding:       zapcore.DefaultLineEnding,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(buffer), zapcore.DebugLevel)

	return &memoryLogger{zapLogger: loggerFromZap(zap.New(core)), buffer: buffer}
}

func (l *memoryLogger) AllMessages() string {
	l.buffer.lock.Lock()
	defer l.buffer.lock.Unlock()
	return l.buffer.buffer.String()
}

func (l *memoryLogger) Truncate() {
	l.buffer.lock.Lock()
	defer l.buffer.lock.Unlock()
	l.buffer.buffer.Reset()
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buffer.Write(p)
}
