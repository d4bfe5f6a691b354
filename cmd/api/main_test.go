package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"propscout_backend/platform/logger"
)

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), logger.Discard(), "flaky", 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetryReturnsLastError(t *testing.T) {
	err := withRetry(context.Background(), logger.Discard(), "db", 2, time.Millisecond, func() error {
		return errors.New("connection refused")
	})
	if err == nil || err.Error() != "db: connection refused" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := withRetry(ctx, logger.Discard(), "db", 5, time.Millisecond, func() error {
		calls++
		return errors.New("unreachable")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no calls, got %d", calls)
	}
}

func TestWithRetryRejectsZeroAttempts(t *testing.T) {
	if err := withRetry(context.Background(), logger.Discard(), "db", 0, time.Millisecond, func() error { return nil }); err == nil {
		t.Fatal("expected an error for zero attempts")
	}
}
