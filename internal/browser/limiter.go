package browser

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter paces navigations per site host. www.linkedin.com and
// linkedin.com share one bucket; links without a host share "_".
type HostLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	every   rate.Limit
	burst   int
}

func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		buckets: make(map[string]*rate.Limiter),
		every:   rate.Limit(reqPerSec),
		burst:   burst,
	}
}

// hostKey lowercases the host, drops the port and a leading "www.".
func hostKey(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "_"
	}
	h := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if h == "" {
		return "_"
	}
	return h
}

func (hl *HostLimiter) bucket(key string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	lim, ok := hl.buckets[key]
	if !ok {
		lim = rate.NewLimiter(hl.every, hl.burst)
		hl.buckets[key] = lim
	}
	return lim
}

// WaitURL blocks until the host of raw may be visited again or ctx is done.
func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	return hl.bucket(hostKey(raw)).Wait(ctx)
}
