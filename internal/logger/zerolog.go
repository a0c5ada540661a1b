package logger

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

type zlogger struct {
	logger zerolog.Logger
	prefix string
}

// NewConsole returns an ILogger that writes human-readable, colorized lines
// to out. Intended for local/interactive runs.
func NewConsole(out io.Writer) ILogger {
	writer := zerolog.ConsoleWriter{
		Out:          out,
		TimeFormat:   time.RFC3339,
		TimeLocation: time.UTC,
		FormatLevel:  formatLevel,
	}

	zl := zerolog.New(writer).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	return &zlogger{logger: zl}
}

// NewJSON returns an ILogger that writes structured JSON lines to out.
// Intended for production/aggregated log collection.
func NewJSON(out io.Writer) ILogger {
	zl := zerolog.New(out).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	return &zlogger{logger: zl}
}

func formatLevel(input any) string {
	s, ok := input.(string)
	if !ok {
		return "[???]"
	}

	switch s {
	case levelTraceStr:
		return "[TRC]"
	case levelDebugStr:
		return "[DBG]"
	case levelInfoStr:
		return "[INF]"
	case levelWarnStr:
		return "[WRN]"
	case levelErrorStr:
		return "[ERR]"
	case levelPanicStr:
		return "[PNC]"
	default:
		return "[???]"
	}
}

func (l *zlogger) Trace(args ...any) { l.logger.Trace().Msg(l.prefix + fmt.Sprint(args...)) }
func (l *zlogger) Tracef(format string, args ...any) {
	l.logger.Trace().Msgf(l.prefix+format, args...)
}

func (l *zlogger) Debug(args ...any) { l.logger.Debug().Msg(l.prefix + fmt.Sprint(args...)) }
func (l *zlogger) Debugf(format string, args ...any) {
	l.logger.Debug().Msgf(l.prefix+format, args...)
}

func (l *zlogger) Info(args ...any) { l.logger.Info().Msg(l.prefix + fmt.Sprint(args...)) }
func (l *zlogger) Infof(format string, args ...any) {
	l.logger.Info().Msgf(l.prefix+format, args...)
}

func (l *zlogger) Warning(args ...any) { l.logger.Warn().Msg(l.prefix + fmt.Sprint(args...)) }
func (l *zlogger) Warningf(format string, args ...any) {
	l.logger.Warn().Msgf(l.prefix+format, args...)
}

func (l *zlogger) Error(args ...any) { l.logger.Error().Msg(l.prefix + fmt.Sprint(args...)) }
func (l *zlogger) Errorf(format string, args ...any) {
	l.logger.Error().Msgf(l.prefix+format, args...)
}

func (l *zlogger) Panic(args ...any) { l.logger.Panic().Msg(l.prefix + fmt.Sprint(args...)) }
func (l *zlogger) Panicf(format string, args ...any) {
	l.logger.Panic().Msgf(l.prefix+format, args...)
}

func (l *zlogger) SetLevel(level Level) {
	zl := zerolog.InfoLevel
	switch level {
	case LevelTrace:
		zl = zerolog.TraceLevel
	case LevelDebug:
		zl = zerolog.DebugLevel
	case LevelInfo:
		zl = zerolog.InfoLevel
	case LevelWarning:
		zl = zerolog.WarnLevel
	case LevelError:
		zl = zerolog.ErrorLevel
	case LevelPanic:
		zl = zerolog.PanicLevel
	}
	l.logger = l.logger.Level(zl)
}

func (l *zlogger) GetLevel() Level {
	switch l.logger.GetLevel().String() {
	case levelTraceStr:
		return LevelTrace
	case levelDebugStr:
		return LevelDebug
	case levelWarnStr:
		return LevelWarning
	case levelErrorStr:
		return LevelError
	case levelPanicStr:
		return LevelPanic
	default:
		return LevelInfo
	}
}

func (l *zlogger) SetOutput(out ...io.Writer) {
	if len(out) == 1 {
		l.logger = l.logger.Output(out[0])
		return
	}
	l.logger = l.logger.Output(zerolog.MultiLevelWriter(out...))
}

func (l *zlogger) Sub(prefix string) ILogger {
	child := *l
	child.prefix = l.prefix + "[" + prefix + "] "
	return &child
}
