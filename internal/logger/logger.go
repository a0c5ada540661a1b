// Package logger provides the structured logging interface used across dqache.
package logger

import "io"

// Level represents a logging severity.
type Level uint

// Logging levels, ordered from most to least verbose.
const (
	LevelTrace Level = iota + 1
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelPanic
)

const (
	levelTraceStr = "trace"
	levelDebugStr = "debug"
	levelInfoStr  = "info"
	levelWarnStr  = "warn"
	levelErrorStr = "error"
	levelPanicStr = "panic"
)

// ILogger is the logging interface every sink implements.
type ILogger interface {
	Trace(args ...any)
	Tracef(format string, args ...any)
	Debug(args ...any)
	Debugf(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Warning(args ...any)
	Warningf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
	Panic(args ...any)
	Panicf(format string, args ...any)

	SetLevel(level Level)
	GetLevel() Level

	SetOutput(out ...io.Writer)

	// Sub returns a child logger sharing the same sink but prefixed with
	// the given, already-formatted tag (e.g. "conn:127.0.0.1:5151").
	Sub(prefix string) ILogger
}

// ParseLevel maps a lowercase level name (as read from configuration) to a
// Level, defaulting to LevelInfo on an unrecognized value.
func ParseLevel(name string) Level {
	switch name {
	case levelTraceStr:
		return LevelTrace
	case levelDebugStr:
		return LevelDebug
	case levelWarnStr, "warning":
		return LevelWarning
	case levelErrorStr:
		return LevelError
	case levelPanicStr:
		return LevelPanic
	default:
		return LevelInfo
	}
}
