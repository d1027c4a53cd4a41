package cache

import (
	"fmt"
	"time"
)

const RateLimitWindow = time.Minute

// RateLimitKey generates Redis key for the rate limit counter of clientIP in
// the window starting at windowStart
func RateLimitKey(clientIP string, windowStart time.Time) string {
	return fmt.Sprintf("ratelimit:ip:%s:%d", clientIP, windowStart.Unix())
}
