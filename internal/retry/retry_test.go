package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/H2Owater425/dqache/internal/retry"
)

func TestDo_SucceedsEventually(t *testing.T) {
	attempts := 0

	err := retry.Do(context.Background(), func(_ context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, retry.WithMaxAttempts(5), retry.WithDelay(time.Millisecond), retry.WithJitter(false))

	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDo_GivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	want := errors.New("permanent")

	err := retry.Do(context.Background(), func(_ context.Context) error {
		attempts++
		return want
	}, retry.WithMaxAttempts(3), retry.WithDelay(time.Millisecond), retry.WithJitter(false))

	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDo_RespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := retry.Do(ctx, func(_ context.Context) error {
		attempts++
		return errors.New("boom")
	}, retry.WithMaxAttempts(5), retry.WithDelay(10*time.Millisecond))

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
