// Package ratelimit provides per-client request limiting for the API
// surface. Counting is fixed-window, keyed by client IP, backed by Redis
// when available and by process memory otherwise. Limiter failures fail
// open: a broken counter must not take the scoring API down with it.
package ratelimit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"caseline/pkg/platform/httputil"
	"caseline/pkg/requestcontext"
)

// Result is the outcome of one limiter check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds
}

// Limiter counts requests per key within a window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// RedisLimiter is a fixed-window counter on Redis, shared across instances.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisLimiter creates a limiter allowing limit requests per window.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now()
	bucket := "ratelimit:" + key + ":" + strconv.FormatInt(now.Unix()/int64(l.window.Seconds()), 10)

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, bucket)
	pipe.Expire(ctx, bucket, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}

	return l.result(int(count.Val()), now), nil
}

func (l *RedisLimiter) result(count int, now time.Time) Result {
	resetAt := now.Truncate(l.window).Add(l.window)
	r := Result{
		Allowed: count <= l.limit,
		Limit:   l.limit,
		ResetAt: resetAt,
	}
	if remaining := l.limit - count; remaining > 0 {
		r.Remaining = remaining
	}
	if !r.Allowed {
		r.RetryAfter = int(time.Until(resetAt).Seconds()) + 1
	}
	return r
}

// MemoryLimiter is the single-instance fallback used when no Redis is
// configured.
type MemoryLimiter struct {
	mu     sync.Mutex
	counts map[string]int
	start  time.Time
	limit  int
	window time.Duration
}

// NewMemoryLimiter creates an in-process limiter allowing limit requests
// per window.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		counts: make(map[string]int),
		start:  time.Now(),
		limit:  limit,
		window: window,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.start) >= l.window {
		l.counts = make(map[string]int)
		l.start = now
	}
	l.counts[key]++
	count := l.counts[key]

	resetAt := l.start.Add(l.window)
	r := Result{
		Allowed: count <= l.limit,
		Limit:   l.limit,
		ResetAt: resetAt,
	}
	if remaining := l.limit - count; remaining > 0 {
		r.Remaining = remaining
	}
	if !r.Allowed {
		r.RetryAfter = int(time.Until(resetAt).Seconds()) + 1
	}
	return r, nil
}

// Middleware enforces the limiter per client IP. Limiter errors log and let
// the request through.
func Middleware(limiter Limiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			key := requestcontext.ClientIP(ctx)
			if key == "" {
				key = r.RemoteAddr
			}

			result, err := limiter.Allow(ctx, key)
			if err != nil {
				logger.ErrorContext(ctx, "rate limit check failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
				httputil.WriteJSON(w, http.StatusTooManyRequests, map[string]any{
					"error":       "rate_limit_exceeded",
					"message":     "Too many requests from this client. Please try again later.",
					"retry_after": result.RetryAfter,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
