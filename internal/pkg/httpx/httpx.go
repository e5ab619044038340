package httpx

import (
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RetryableStatus reports whether a response status is worth retrying:
// timeouts, rate limits, and server-side failures.
func RetryableStatus(code int) bool {
	if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

// RetryAfter honors a Retry-After header when present, otherwise returns
// the fallback, capped at max.
func RetryAfter(resp *http.Response, fallback, max time.Duration) time.Duration {
	wait := fallback
	if resp != nil {
		if ra := strings.TrimSpace(resp.Header.Get("Retry-After")); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
				wait = time.Duration(secs) * time.Second
			}
		}
	}
	if max > 0 && wait > max {
		wait = max
	}
	return wait
}

// Jitter spreads a backoff interval by +/-20% so retries from concurrent
// requests do not align.
func Jitter(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	delta := base.Seconds() * 0.2
	low := base.Seconds() - delta
	v := low + rand.Float64()*2*delta
	return time.Duration(v * float64(time.Second))
}
