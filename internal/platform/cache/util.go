package cache

import (
	"net/url"
	"time"
)

// TTLPolicy returns the expiry to use for an entry written now.
type TTLPolicy func() time.Duration

// FixedTTL always returns d. FixedTTL(0) stores entries without expiry.
func FixedTTL(d time.Duration) TTLPolicy {
	return func() time.Duration { return d }
}

// UntilNextUTCMidnight expires entries when the current daily candle closes.
func UntilNextUTCMidnight() time.Duration {
	return timeUntilNextUTCMidnight(time.Now())
}

func timeUntilNextUTCMidnight(now time.Time) time.Duration {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return next.Sub(now)
}

// safe escapes a key segment so it cannot contain the ":" separator or
// spaces. The mapping is injective: distinct inputs never share a key.
func safe(s string) string {
	return url.QueryEscape(s)
}
