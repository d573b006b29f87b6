package db

import (
	"context"
	"errors"
	"testing"
	"time"

	commonerrors "github.com/weblogin/weblogin/internal/common/errors"
	"github.com/weblogin/weblogin/internal/common/logger"
)

func newBreakerLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("", "test", "CRITICAL")
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return log
}

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Second, time.Minute, newBreakerLogger(t))
	failing := func(ctx context.Context) error { return errors.New("boom") }

	for i := 0; i < 3; i++ {
		if err := cb.Call(context.Background(), failing); err == nil {
			t.Fatal("expected the wrapped error")
		}
	}

	err := cb.Call(context.Background(), failing)
	if !errors.Is(err, commonerrors.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen after threshold, got %v", err)
	}
}

func TestCircuitBreakerResetsOnSuccess(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Second, time.Minute, newBreakerLogger(t))
	failing := func(ctx context.Context) error { return errors.New("boom") }
	healthy := func(ctx context.Context) error { return nil }

	for i := 0; i < 2; i++ {
		_ = cb.Call(context.Background(), failing)
	}
	if err := cb.Call(context.Background(), healthy); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The success cleared the failure count; two more failures stay below
	// the threshold.
	for i := 0; i < 2; i++ {
		_ = cb.Call(context.Background(), failing)
	}
	if err := cb.Call(context.Background(), healthy); err != nil {
		t.Fatalf("circuit should still be closed, got %v", err)
	}
}

func TestCircuitBreakerRecoversAfterResetWindow(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Second, 10*time.Millisecond, newBreakerLogger(t))
	failing := func(ctx context.Context) error { return errors.New("boom") }
	healthy := func(ctx context.Context) error { return nil }

	_ = cb.Call(context.Background(), failing)
	if err := cb.Call(context.Background(), healthy); !errors.Is(err, commonerrors.ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if err := cb.Call(context.Background(), healthy); err != nil {
		t.Fatalf("expected the circuit to close after the reset window, got %v", err)
	}
}
