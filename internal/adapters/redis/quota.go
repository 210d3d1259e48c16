package redisad

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"trip_planner/internal/adapters/observability"
)

// Quota counts plan generations inside a fixed window so a burst of form
// submissions cannot burn the provider budget.
type Quota struct{ c *redis.Client }

func New(addr, pass string, db int) *Quota {
	return &Quota{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

// Allow increments the window counter and reports whether the caller is still
// inside the limit. The key expires with the window, so counts reset on their
// own.
func (q *Quota) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := q.c.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		// first hit in this window sets the expiry
		if err := q.c.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	if n > int64(limit) {
		observability.ObserveQuota("deny")
		return false, nil
	}
	observability.ObserveQuota("allow")
	return true, nil
}
