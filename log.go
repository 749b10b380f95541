package grove

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the interface grove uses to report
// progress, like the candidate splits evaluated while
// growing a tree.
type Logger interface {
	Logf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Logf(string, ...interface{}) {}

// NopLogger returns a Logger that discards everything
func NopLogger() Logger {
	return nopLogger{}
}

type zapLogger struct {
	*zap.SugaredLogger
}

func (zl zapLogger) Logf(format string, args ...interface{}) {
	zl.Debugf(format, args...)
}

// ZapLogger returns a Logger that writes to the given
// zap logger with debug level.
func ZapLogger(l *zap.SugaredLogger) Logger {
	return zapLogger{l}
}

var (
	defaultLoggerOnce sync.Once
	defaultLogger     Logger
)

// DefaultLogger returns the Logger writing human readable
// lines to stderr, used by verbose classifiers that were
// given no logger. It is built on first use and shared.
func DefaultLogger() Logger {
	defaultLoggerOnce.Do(func() {
		config := zap.NewDevelopmentEncoderConfig()
		config.EncodeTime = zapcore.RFC3339TimeEncoder
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(config),
			zapcore.Lock(os.Stderr),
			zapcore.DebugLevel,
		)
		defaultLogger = ZapLogger(zap.New(core).Sugar())
	})
	return defaultLogger
}
