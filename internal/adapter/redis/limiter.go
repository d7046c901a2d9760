// Package redis provides a fixed-window rate limiter for model calls that is
// shared by every process pointing at the same Redis instance.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// counter increments a key that expires after ttl and returns the new value.
type counter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Config controls the limiter.
type Config struct {
	KeyPrefix         string
	RequestsPerMinute int
}

// Limiter blocks callers once the per-minute budget is spent and releases
// them when the next window opens.
type Limiter struct {
	counter counter
	prefix  string
	limit   int64
	window  time.Duration
	now     func() time.Time
	log     *slog.Logger
}

// NewLimiter connects to redisURL and returns a limiter over it. The
// returned close function releases the client.
func NewLimiter(ctx context.Context, redisURL string, cfg Config, logger *slog.Logger) (*Limiter, func() error, error) {
	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("redis: parse url: %w", err)
	}
	client := goredis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis: ping: %w", err)
	}

	return newLimiter(&clientCounter{client: client}, cfg, logger), client.Close, nil
}

func newLimiter(c counter, cfg Config, logger *slog.Logger) *Limiter {
	limit := int64(cfg.RequestsPerMinute)
	if limit < 1 {
		limit = 1
	}
	return &Limiter{
		counter: c,
		prefix:  cfg.KeyPrefix,
		limit:   limit,
		window:  time.Minute,
		now:     time.Now,
		log:     logger.With("adapter", "redis"),
	}
}

// Wait takes one slot of the current window, sleeping until a later window
// when the current one is full.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		now := l.now()
		start := now.Truncate(l.window)
		key := fmt.Sprintf("%s:%d", l.prefix, start.Unix())

		n, err := l.counter.Incr(ctx, key, l.window)
		if err != nil {
			return fmt.Errorf("redis: incr %s: %w", key, err)
		}
		if n <= l.limit {
			return nil
		}

		delay := start.Add(l.window).Sub(now)
		l.log.DebugContext(ctx, "rate limit reached, waiting",
			slog.Int64("count", n),
			slog.Duration("delay", delay),
		)

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

type clientCounter struct {
	client *goredis.Client
}

func (c *clientCounter) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := c.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
