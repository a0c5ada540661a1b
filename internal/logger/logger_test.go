package logger_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/H2Owater425/dqache/internal/logger"
)

func TestConsoleLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewConsole(&buf)

	if l.GetLevel() != logger.LevelInfo {
		t.Fatalf("expected default level info, got %v", l.GetLevel())
	}

	l.SetLevel(logger.LevelError)
	if l.GetLevel() != logger.LevelError {
		t.Fatalf("expected level error, got %v", l.GetLevel())
	}

	l.Info("should be suppressed")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below configured level, got %q", buf.String())
	}

	l.Error("boom")
	if !strings.Contains(buf.String(), "boom") {
		t.Fatalf("expected output to contain message, got %q", buf.String())
	}
}

func TestJSONLogger_Sub(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewJSON(&buf)

	sub := l.Sub("conn:1")
	sub.Info("hello")

	if !strings.Contains(buf.String(), "[conn:1] hello") {
		t.Fatalf("expected sub-logger prefix in output, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]logger.Level{
		"trace":   logger.LevelTrace,
		"debug":   logger.LevelDebug,
		"info":    logger.LevelInfo,
		"warn":    logger.LevelWarning,
		"warning": logger.LevelWarning,
		"error":   logger.LevelError,
		"panic":   logger.LevelPanic,
		"bogus":   logger.LevelInfo,
	}

	for name, want := range cases {
		if got := logger.ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestContext_FromContextDefault(t *testing.T) {
	if logger.FromContext(context.Background()) == nil {
		t.Fatal("expected non-nil fallback logger")
	}
}

func TestContext_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewConsole(&buf)
	ctx := logger.WithLogger(context.Background(), l)

	if logger.FromContext(ctx) != l {
		t.Fatal("expected FromContext to return the attached logger")
	}
}
