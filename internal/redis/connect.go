package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ConnectRedis pings addr until it answers or maxRetries attempts fail,
// doubling the wait between attempts.
func ConnectRedis(ctx context.Context, addr string, password string, maxRetries int) (*redis.Client, error) {
	return connect(ctx, addr, password, maxRetries, time.Second)
}

func connect(ctx context.Context, addr string, password string, maxRetries int, baseBackoff time.Duration) (*redis.Client, error) {
	if maxRetries <= 0 {
		maxRetries = 1
	}

	client := redis.NewClient(&redis.Options{
		Addr:            addr,
		Password:        password,
		DB:              0,
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
	})

	var err error
	for i := range maxRetries {
		if i > 0 {
			backoff := time.Duration(1<<uint(i-1)) * baseBackoff
			log.Info().Dur("backoff", backoff).Msg("Waiting before Redis retry")

			select {
			case <-ctx.Done():
				_ = client.Close()
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		log.Info().Int("attempt", i+1).Int("max_retries", maxRetries).Str("addr", addr).Msg("Connecting to Redis")

		err = client.Ping(ctx).Err()
		if err == nil {
			log.Info().Int("attempts_needed", i+1).Msg("Redis connected")
			return client, nil
		}

		log.Warn().Err(err).Int("attempt", i+1).Msg("Redis ping failed")
	}

	_ = client.Close()
	return nil, fmt.Errorf("failed to connect to Redis after %d attempts: %w", maxRetries, err)
}
