// Package logger provides the named, colored console logger used across the service.
// It is a thin layer over zap: one console core per logger, plus an optional JSON
// file core rotated by lumberjack.
package logger

import (
	"errors"
	"io"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const colorReset = "\033[0m"

var ErrNilWriter = errors.New("logger output writer is nil")

// Logger writes leveled messages under a fixed name.
type Logger struct {
	zap  *zap.Logger
	file *lumberjack.Logger
}

type options struct {
	level    zapcore.Level
	filePath string
}

// Option customizes a Logger.
type Option func(*options)

// WithLevel sets the minimum level by name (debug, info, warn, error).
// Unknown names keep the default info level.
func WithLevel(level string) Option {
	return func(o *options) {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err == nil {
			o.level = lvl
		}
	}
}

// WithFile additionally writes JSON records to path, rotating the file by size.
// An empty path disables the file output.
func WithFile(path string) Option {
	return func(o *options) {
		o.filePath = path
	}
}

// New creates a logger that prefixes every console line with name in the given
// ANSI color.
func New(name, color string, w io.Writer, opts ...Option) (*Logger, error) {
	if w == nil {
		return nil, ErrNilWriter
	}

	o := &options{level: zapcore.InfoLevel}
	for _, opt := range opts {
		opt(o)
	}
	level := zap.NewAtomicLevelAt(o.level)

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}

	consoleCfg := encoderCfg
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleCfg.EncodeName = func(n string, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(color + "[" + n + "]" + colorReset)
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(w), level)

	l := &Logger{}
	if o.filePath != "" {
		l.file = &lumberjack.Logger{
			Filename:   o.filePath,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		fileCfg := encoderCfg
		fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		core = zapcore.NewTee(core, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(l.file), level))
	}

	l.zap = zap.New(core).Named(name)
	return l, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// Debug logs a message at debug level.
func (l *Logger) Debug(msg string) {
	l.zap.Debug(msg)
}

// Info logs a message at info level.
func (l *Logger) Info(msg string) {
	l.zap.Info(msg)
}

// Warning logs a message at warn level.
func (l *Logger) Warning(msg string) {
	l.zap.Warn(msg)
}

// Error logs a message at error level.
func (l *Logger) Error(msg string) {
	l.zap.Error(msg)
}

// Close flushes buffered records and releases the log file, if any.
func (l *Logger) Close() error {
	_ = l.zap.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
