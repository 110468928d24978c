package pacing

import (
	"context"
	"testing"
	"time"
)

func TestFixedDelay(t *testing.T) {
	p := FixedDelay{Delay: 20 * time.Millisecond}

	start := time.Now()
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Expected at least 20ms pause, got %v", elapsed)
	}
}

func TestFixedDelayZero(t *testing.T) {
	if err := (FixedDelay{}).Wait(context.Background()); err != nil {
		t.Errorf("Expected no error for zero delay, got %v", err)
	}
}

func TestFixedDelayCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := FixedDelay{Delay: time.Hour}.Wait(ctx)
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestTokenBucketBurst(t *testing.T) {
	p := NewTokenBucket(1, 3)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Expected burst of 3 to pass without waiting, took %v", elapsed)
	}
}

func TestTokenBucketRecordRateLimit(t *testing.T) {
	p := NewTokenBucket(1000, 10)
	p.RecordRateLimit(30 * time.Millisecond)

	start := time.Now()
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("Expected backoff of at least 30ms, got %v", elapsed)
	}
}

func TestTokenBucketBackoffCanceled(t *testing.T) {
	p := NewTokenBucket(1000, 10)
	p.RecordRateLimit(0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := p.Wait(ctx); err == nil {
		t.Error("Expected error while backing off with a short deadline")
	}
}

func TestPacersImplementInterface(t *testing.T) {
	var _ Pacer = FixedDelay{}
	var _ Pacer = NewTokenBucket(1, 1)
	var _ RateLimitRecorder = NewTokenBucket(1, 1)
}
