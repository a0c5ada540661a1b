package admin

import (
	"fmt"
	"io"
	"os"

	"github.com/labstack/gommon/log"

	"github.com/H2Owater425/dqache/internal/logger"
)

// echoLogger adapts logger.ILogger to echo's Logger interface so the admin
// server's access/recovery logging flows through the same sink as the rest
// of the process.
type echoLogger struct {
	logger.ILogger
	out    io.Writer
	prefix string
}

func (e *echoLogger) Output() io.Writer {
	if e.out == nil {
		return os.Stderr
	}
	return e.out
}

func (e *echoLogger) SetOutput(w io.Writer) {
	e.out = w
	e.ILogger.SetOutput(w)
}

func (e *echoLogger) Prefix() string     { return e.prefix }
func (e *echoLogger) SetPrefix(p string) { e.prefix = p }

func (e *echoLogger) Level() log.Lvl {
	switch e.GetLevel() {
	case logger.LevelTrace, logger.LevelDebug:
		return log.DEBUG
	case logger.LevelInfo:
		return log.INFO
	case logger.LevelWarning:
		return log.WARN
	default:
		return log.ERROR
	}
}

func (e *echoLogger) SetLevel(l log.Lvl) {
	switch l {
	case log.DEBUG:
		e.ILogger.SetLevel(logger.LevelDebug)
	case log.INFO:
		e.ILogger.SetLevel(logger.LevelInfo)
	case log.WARN:
		e.ILogger.SetLevel(logger.LevelWarning)
	case log.ERROR, log.OFF:
		e.ILogger.SetLevel(logger.LevelError)
	default:
		e.ILogger.SetLevel(logger.LevelInfo)
	}
}

func (e *echoLogger) SetHeader(string) {}

func (e *echoLogger) Print(i ...any)                 { e.Info(fmt.Sprint(i...)) }
func (e *echoLogger) Printf(format string, i ...any) { e.Infof(format, i...) }
func (e *echoLogger) Printj(j log.JSON)              { e.Info(fmt.Sprintf("%v", j)) }

func (e *echoLogger) Debug(i ...any)                 { e.ILogger.Debug(fmt.Sprint(i...)) }
func (e *echoLogger) Debugf(format string, i ...any) { e.ILogger.Debugf(format, i...) }
func (e *echoLogger) Debugj(j log.JSON)              { e.ILogger.Debug(fmt.Sprintf("%v", j)) }

func (e *echoLogger) Info(i ...any)                 { e.ILogger.Info(fmt.Sprint(i...)) }
func (e *echoLogger) Infof(format string, i ...any) { e.ILogger.Infof(format, i...) }
func (e *echoLogger) Infoj(j log.JSON)              { e.ILogger.Info(fmt.Sprintf("%v", j)) }

func (e *echoLogger) Warn(i ...any)                 { e.Warning(fmt.Sprint(i...)) }
func (e *echoLogger) Warnf(format string, i ...any) { e.Warning(fmt.Sprintf(format, i...)) }
func (e *echoLogger) Warnj(j log.JSON)              { e.Warning(fmt.Sprintf("%v", j)) }

func (e *echoLogger) Error(i ...any)                 { e.ILogger.Error(fmt.Sprint(i...)) }
func (e *echoLogger) Errorf(format string, i ...any) { e.ILogger.Errorf(format, i...) }
func (e *echoLogger) Errorj(j log.JSON)              { e.ILogger.Error(fmt.Sprintf("%v", j)) }

func (e *echoLogger) Fatal(i ...any) {
	e.ILogger.Error(fmt.Sprint(i...))
	os.Exit(1)
}

func (e *echoLogger) Fatalf(format string, i ...any) {
	e.ILogger.Errorf(format, i...)
	os.Exit(1)
}

func (e *echoLogger) Fatalj(j log.JSON) {
	e.ILogger.Error(fmt.Sprintf("%v", j))
	os.Exit(1)
}

func (e *echoLogger) Panic(i ...any)                 { e.ILogger.Panic(fmt.Sprint(i...)) }
func (e *echoLogger) Panicf(format string, i ...any) { e.ILogger.Panicf(format, i...) }
func (e *echoLogger) Panicj(j log.JSON)              { e.ILogger.Panic(fmt.Sprintf("%v", j)) }
