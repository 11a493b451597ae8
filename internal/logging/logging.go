package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// LevelDebug is the debug log level
	LevelDebug LogLevel = iota
	// LevelInfo is the info log level
	LevelInfo
	// LevelWarn is the warning log level
	LevelWarn
	// LevelError is the error log level
	LevelError
)

var (
	atomicLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	sugar       *zap.SugaredLogger
	plain       *zap.SugaredLogger
	initOnce    sync.Once
)

func initLogger() {
	initOnce.Do(func() {
		atomicLevel.SetLevel(levelFromEnv().zapLevel())
		build(zapcore.Lock(os.Stderr))
	})
}

func build(out zapcore.WriteSyncer) {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.CallerKey = ""

	sugar = zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), out, atomicLevel)).Sugar()

	// Access log lines and banners are printed regardless of level.
	plainCfg := encCfg
	plainCfg.LevelKey = ""
	plain = zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(plainCfg), out, zapcore.DebugLevel)).Sugar()
}

// SetOutput sends all further output to w. It is not safe to call while
// other goroutines are logging; tests use it to capture lines.
func SetOutput(w io.Writer) {
	initLogger()
	build(zapcore.AddSync(w))
}

func levelFromEnv() LogLevel {
	if debug := os.Getenv("DEBUG"); debug != "" {
		switch strings.ToLower(debug) {
		case "1", "true", "yes", "on":
			return LevelDebug
		}
	}
	lvl, err := ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return LevelInfo
	}
	return lvl
}

// ParseLevel converts a level name into a LogLevel. An empty string maps to
// LevelInfo.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("invalid log level %q", s)
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// SetLevel changes the active log level. It is safe to call concurrently
// with logging, which is what config hot reload relies on.
func SetLevel(l LogLevel) {
	initLogger()
	atomicLevel.SetLevel(l.zapLevel())
}

// GetLevel returns the current log level
func GetLevel() LogLevel {
	initLogger()
	switch atomicLevel.Level() {
	case zapcore.DebugLevel:
		return LevelDebug
	case zapcore.WarnLevel:
		return LevelWarn
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return LevelError
	default:
		return LevelInfo
	}
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	return GetLevel() <= LevelDebug
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	initLogger()
	sugar.Debugf(format, args...)
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	initLogger()
	sugar.Infof(format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	initLogger()
	sugar.Warnf(format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	initLogger()
	sugar.Errorf(format, args...)
}

// Fatal logs an error message and exits
func Fatal(format string, args ...interface{}) {
	initLogger()
	sugar.Fatalf(format, args...)
}

// Printf writes a message that should always print, whatever the level
func Printf(format string, args ...interface{}) {
	initLogger()
	plain.Infof(format, args...)
}

// Sync flushes buffered log output. Call it once before exit.
func Sync() {
	initLogger()
	_ = sugar.Sync()
	_ = plain.Sync()
}

// String returns the string representation of a log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}
