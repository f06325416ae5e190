package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}

func TestRedisLimiter_BlocksAfterLimit(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	clock := newClock()
	limiter := NewRedisLimiter(client, 5, WithClock(clock.Now), WithLocation(time.UTC))
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		if err := limiter.Allow(ctx, "1.2.3.4"); err != nil {
			t.Fatalf("request #%d: expected allowed, got %v", i, err)
		}
	}
	if err := limiter.Allow(ctx, "1.2.3.4"); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}

	key := "debate:quota:2025-03-10:1.2.3.4"
	if !mr.Exists(key) {
		t.Fatalf("expected key %s to exist", key)
	}
	if ttl := mr.TTL(key); ttl <= 0 {
		t.Errorf("expected positive ttl, got %v", ttl)
	}
}

func TestRedisLimiter_NewDayUsesFreshKey(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	clock := newClock()
	limiter := NewRedisLimiter(client, 2, WithClock(clock.Now), WithLocation(time.UTC))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := limiter.Allow(ctx, "caller"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := limiter.Allow(ctx, "caller"); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected limit reached, got %v", err)
	}

	clock.Advance(24 * time.Hour)

	if err := limiter.Allow(ctx, "caller"); err != nil {
		t.Fatalf("expected allowed on new day, got %v", err)
	}
	used, err := limiter.Used(ctx, "caller")
	if err != nil {
		t.Fatalf("Used failed: %v", err)
	}
	if used != 1 {
		t.Errorf("Expected 1 request used on new day, got %d", used)
	}
}

func TestRedisLimiter_UsedWithoutRequests(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewRedisLimiter(client, 5)

	used, err := limiter.Used(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Used failed: %v", err)
	}
	if used != 0 {
		t.Errorf("Expected 0, got %d", used)
	}
}

func TestRedisLimiter_ConnectionError(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer func() { _ = client.Close() }()
	mr.Close()

	limiter := NewRedisLimiter(client, 5)
	err := limiter.Allow(context.Background(), "caller")
	if err == nil || errors.Is(err, ErrLimitReached) {
		t.Errorf("Expected connection error, got %v", err)
	}
}
