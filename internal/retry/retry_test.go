package retry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestWithRetryEventualSuccess(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), Config{MaxAttempts: 3, Delay: time.Millisecond}, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithRetry: %v", err)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestWithRetryExhaustion(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), Config{MaxAttempts: 2, Delay: time.Millisecond}, func() error {
		calls++
		return errors.New("still broken")
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 2 {
		t.Errorf("fn called %d times, want 2", calls)
	}
	if !strings.Contains(err.Error(), "after 2 attempts") {
		t.Errorf("error should report attempt count: %v", err)
	}
	if !strings.Contains(err.Error(), "still broken") {
		t.Errorf("error should wrap the last failure: %v", err)
	}
}

func TestWithRetryLinearBackoff(t *testing.T) {
	// Three failures with a 10ms base mean waits of 10ms then 20ms
	// (attempt * Delay), so the run takes at least 30ms total.
	start := time.Now()
	WithRetry(context.Background(), Config{MaxAttempts: 3, Delay: 10 * time.Millisecond, Backoff: true}, func() error {
		return errors.New("always")
	})
	elapsed := time.Since(start)
	if elapsed < 30*time.Millisecond {
		t.Errorf("elapsed %v, want at least 30ms of backoff", elapsed)
	}
}

func TestWithRetryContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, Config{MaxAttempts: 3, Delay: time.Hour}, func() error {
		return errors.New("fails, then waits")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
