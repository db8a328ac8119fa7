package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultThrottleWindow = 15 * time.Minute

// ResetThrottle caps reset-mail dispatch per username using Redis SET NX.
// Key format: reset:req:<username>
//
// The throttle fails open: if Redis is unreachable the dispatch proceeds, so
// an infrastructure outage degrades the rate cap, never the reset flow.
type ResetThrottle struct {
	client *redis.Client
	window time.Duration
	log    zerolog.Logger
}

// NewResetThrottle creates a ResetThrottle wrapping the given Redis client.
// If window <= 0, defaultThrottleWindow is used.
func NewResetThrottle(client *redis.Client, window time.Duration, log zerolog.Logger) *ResetThrottle {
	if window <= 0 {
		window = defaultThrottleWindow
	}
	return &ResetThrottle{client: client, window: window, log: log}
}

// Allow reports whether a reset mail may be dispatched for this username now.
// The first call in a window claims the key and returns true; subsequent calls
// return false until the key expires.
func (t *ResetThrottle) Allow(ctx context.Context, username string) bool {
	ok, err := t.client.SetNX(ctx, t.key(username), "1", t.window).Result()
	if err != nil {
		t.log.Warn().Err(err).Msg("reset throttle check failed, allowing dispatch")
		return true
	}
	return ok
}

func (t *ResetThrottle) key(username string) string {
	return fmt.Sprintf("reset:req:%s", username)
}
