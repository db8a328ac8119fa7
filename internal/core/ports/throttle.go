package ports

import "context"

// ResetThrottle caps how often reset mail can be dispatched for one username.
// Allow reports whether a dispatch may proceed; implementations fail open so
// an unavailable backing store degrades to "no throttle", never to a blocked
// reset flow.
type ResetThrottle interface {
	Allow(ctx context.Context, username string) bool
}
