package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "debate:quota"

// RedisLimiter counts requests in Redis under one key per caller and day.
// INCR makes the check-and-increment atomic across instances; a new day
// starts from a fresh key, so no explicit reset is needed.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	ttl    time.Duration
	now    Clock
	loc    *time.Location
}

func NewRedisLimiter(client *redis.Client, limit int, opts ...Option) *RedisLimiter {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	o := newOptions(opts)

	return &RedisLimiter{
		client: client,
		prefix: defaultRedisPrefix,
		limit:  limit,
		ttl:    48 * time.Hour,
		now:    o.now,
		loc:    o.loc,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, id string) error {
	if l.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	key := l.key(id, l.now())

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("increment quota key: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.ttl).Err(); err != nil {
			return fmt.Errorf("set quota key ttl: %w", err)
		}
	}

	if count > int64(l.limit) {
		return ErrLimitReached
	}
	return nil
}

// Used returns how many requests id made on the current day.
func (l *RedisLimiter) Used(ctx context.Context, id string) (int64, error) {
	count, err := l.client.Get(ctx, l.key(id, l.now())).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get quota key: %w", err)
	}
	return count, nil
}

func (l *RedisLimiter) key(id string, now time.Time) string {
	return fmt.Sprintf("%s:%s:%s", l.prefix, DayKey(now, l.loc), id)
}
