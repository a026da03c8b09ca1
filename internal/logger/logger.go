package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps the zap logger with additional functionality.
type Logger struct {
	*zap.Logger
}

// Options controls where and at which level a logger writes.
type Options struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string
	// OutputPaths defaults to stdout when empty.
	OutputPaths []string
}

// NewLogger creates a new logger instance with production configuration.
func NewLogger() (*Logger, error) {
	return NewLoggerWithOptions(Options{Level: "info", OutputPaths: nil})
}

// NewLoggerWithOptions creates a production logger with the given level and outputs.
func NewLoggerWithOptions(opts Options) (*Logger, error) {
	config := zap.NewProductionConfig()

	config.OutputPaths = []string{"stdout"}
	if len(opts.OutputPaths) > 0 {
		config.OutputPaths = opts.OutputPaths
	}

	config.ErrorOutputPaths = []string{"stderr"}

	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, err
		}

		level = parsed
	}

	config.Level = zap.NewAtomicLevelAt(level)

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		Logger: zapLogger,
	}, nil
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	if l.Logger != nil {
		return l.Logger.Sync()
	}

	return nil
}
