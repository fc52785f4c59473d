package providers

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterConsume(t *testing.T) {
	limiter := NewRateLimiter(60)

	for i := 0; i < 10; i++ {
		if !limiter.TryConsume() {
			t.Fatalf("token %d unavailable with a full bucket", i)
		}
	}

	status := limiter.Status()
	if status.TokensLimit != 60 {
		t.Errorf("TokensLimit = %d, want 60", status.TokensLimit)
	}
	if status.TotalConsumed != 10 {
		t.Errorf("TotalConsumed = %d, want 10", status.TotalConsumed)
	}
}

func TestRateLimiterExhaustion(t *testing.T) {
	limiter := NewRateLimiter(2)

	if !limiter.TryConsume() || !limiter.TryConsume() {
		t.Fatal("first two tokens should be available")
	}
	if limiter.TryConsume() {
		t.Error("third token should not be available immediately")
	}
}

func TestRateLimiterWaitCancellation(t *testing.T) {
	limiter := NewRateLimiter(1)
	if !limiter.TryConsume() {
		t.Fatal("first token should be available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx)
	if err == nil {
		t.Fatal("expected context error while waiting on an empty bucket")
	}
}

func TestRateLimiterDefaults(t *testing.T) {
	limiter := NewRateLimiter(0)
	if limiter.Status().TokensLimit != 60 {
		t.Errorf("default limit = %d, want 60", limiter.Status().TokensLimit)
	}
}
