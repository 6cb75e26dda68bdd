package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"shopapi/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rateEntry tracks request counts per IP within a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

// RateLimiter counts requests per client IP. Each instance keeps its own
// map so the auth endpoints and the general API are limited independently.
type RateLimiter struct {
	name   string
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*rateEntry
}

func NewRateLimiter(name string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		name:    name,
		limit:   limit,
		window:  window,
		now:     time.Now,
		entries: make(map[string]*rateEntry),
	}
}

// allow records one hit for ip and reports whether it is within the limit,
// plus the time until the current window ends.
func (l *RateLimiter) allow(ip string) (bool, time.Duration) {
	l.mu.Lock()
	entry, exists := l.entries[ip]
	if !exists {
		entry = &rateEntry{}
		l.entries[ip] = entry
	}
	l.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := l.now()
	if now.After(entry.windowEnd) {
		entry.count = 0
		entry.windowEnd = now.Add(l.window)
	}
	entry.count++
	return entry.count <= l.limit, entry.windowEnd.Sub(now)
}

// Middleware rejects requests over the limit with 429 and Retry-After.
// A non-positive limit disables the limiter.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.limit <= 0 {
			c.Next()
			return
		}
		ok, retry := l.allow(c.ClientIP())
		if !ok {
			secs := int(math.Ceil(retry.Seconds()))
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Request was throttled. Expected available in "+strconv.Itoa(secs)+" seconds."))
			return
		}
		c.Next()
	}
}

// Purge removes entries whose window has ended and returns how many were dropped.
func (l *RateLimiter) Purge() int {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	purged := 0
	for ip, entry := range l.entries {
		entry.mu.Lock()
		if now.After(entry.windowEnd) {
			delete(l.entries, ip)
			purged++
		}
		entry.mu.Unlock()
	}
	return purged
}

const purgeInterval = 5 * time.Minute

// StartPurge periodically drops expired entries until ctx is cancelled, so
// IPs that never return do not accumulate.
func (l *RateLimiter) StartPurge(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := l.Purge(); n > 0 {
					log.Debug().Str("limiter", l.name).Int("purged", n).Msg("rate limiter entries purged")
				}
			}
		}
	}()
}
