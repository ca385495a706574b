package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const rateLimitDocURL = "https://docs.helpdesk.example.com/errors#rate-limit"

// AttemptStore counts recent attempts per bucket inside a sliding
// window. The redis repository implements it with sorted sets.
type AttemptStore interface {
	TrimWindow(ctx context.Context, key string, window time.Duration, reference time.Time) error
	CountAttempts(ctx context.Context, key string, window time.Duration, reference time.Time) (int, error)
	RecordAttempt(ctx context.Context, key string, at time.Time) error
	OldestAttempt(ctx context.Context, key string, window time.Duration, reference time.Time) (time.Time, bool, error)
}

// KeyFunc derives the bucket key for a request. Requests it cannot
// attribute are not limited.
type KeyFunc func(*gin.Context) (string, bool)

// ByClientIP buckets requests by the caller's IP.
func ByClientIP(c *gin.Context) (string, bool) {
	ip := c.ClientIP()
	return ip, ip != ""
}

// Quota is a sliding-window allowance guarding one route, such as the
// login or registration endpoint.
type Quota struct {
	Name   string
	Limit  int
	Window time.Duration
	Key    KeyFunc
}

func (q Quota) valid() bool {
	return q.Key != nil && q.Limit > 0 && q.Window > 0
}

// ProblemDetails is the RFC 9457 payload returned on exhausted quotas.
type ProblemDetails struct {
	Type       string `json:"type"`
	Title      string `json:"title"`
	Status     int    `json:"status"`
	Detail     string `json:"detail"`
	Instance   string `json:"instance"`
	RetryAfter int    `json:"retry_after"`
	TraceID    string `json:"trace_id,omitempty"`
}

// RateLimiter evaluates quotas against a shared attempt store.
type RateLimiter struct {
	store  AttemptStore
	logger *zap.Logger
	now    func() time.Time
}

// NewRateLimiter constructs a RateLimiter over the given store.
func NewRateLimiter(store AttemptStore, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RateLimiter{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the limiter clock for deterministic tests.
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	if now != nil {
		rl.now = now
	}
	return rl
}

// decision is the outcome of charging one request against a quota.
type decision struct {
	allowed    bool
	remaining  int
	reset      time.Time
	retryAfter int
}

// Guard enforces the quota on the wrapped routes. Store failures admit
// the request: the limiter protects the credential endpoints, it must
// never take them down.
func (rl *RateLimiter) Guard(q Quota) gin.HandlerFunc {
	if rl == nil || rl.store == nil || !q.valid() {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		bucket, ok := q.Key(c)
		if !ok {
			c.Next()
			return
		}

		d, err := rl.charge(c.Request.Context(), q, q.Name+":"+bucket)
		if err != nil {
			rl.logger.Warn("rate limit check failed",
				zap.String("quota", q.Name),
				zap.String("bucket", bucket),
				zap.Error(err))
			c.Next()
			return
		}

		writeQuotaHeaders(c, q, d)
		if !d.allowed {
			rl.reject(c, d)
			return
		}
		c.Next()
	}
}

// charge trims the window, consumes one attempt if the quota allows
// it, and reports when the window reopens. A denied request is not
// recorded, so waiting out the window always clears the bucket.
func (rl *RateLimiter) charge(ctx context.Context, q Quota, key string) (decision, error) {
	now := rl.now()

	if err := rl.store.TrimWindow(ctx, key, q.Window, now); err != nil {
		return decision{}, err
	}
	count, err := rl.store.CountAttempts(ctx, key, q.Window, now)
	if err != nil {
		return decision{}, err
	}

	reset := now.Add(q.Window)
	if oldest, found, err := rl.store.OldestAttempt(ctx, key, q.Window, now); err != nil {
		return decision{}, err
	} else if found {
		reset = oldest.Add(q.Window)
	}

	if count >= q.Limit {
		retry := int(math.Ceil(reset.Sub(now).Seconds()))
		if retry < 0 {
			retry = 0
		}
		return decision{reset: reset, retryAfter: retry}, nil
	}

	if err := rl.store.RecordAttempt(ctx, key, now); err != nil {
		return decision{}, err
	}

	remaining := q.Limit - count - 1
	if remaining < 0 {
		remaining = 0
	}
	return decision{allowed: true, remaining: remaining, reset: reset}, nil
}

func writeQuotaHeaders(c *gin.Context, q Quota, d decision) {
	headers := c.Writer.Header()
	headers.Set("X-RateLimit-Limit", strconv.Itoa(q.Limit))
	headers.Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
	headers.Set("X-RateLimit-Reset", strconv.FormatInt(d.reset.Unix(), 10))
	if !d.allowed {
		headers.Set("Retry-After", strconv.Itoa(d.retryAfter))
	}
}

func (rl *RateLimiter) reject(c *gin.Context, d decision) {
	instance := c.FullPath()
	if instance == "" {
		instance = c.Request.URL.Path
	}

	c.AbortWithStatusJSON(http.StatusTooManyRequests, ProblemDetails{
		Type:       rateLimitDocURL,
		Title:      "Too Many Requests",
		Status:     http.StatusTooManyRequests,
		Detail:     fmt.Sprintf("Request allowance exhausted. Retry in %d seconds.", d.retryAfter),
		Instance:   instance,
		RetryAfter: d.retryAfter,
		TraceID:    GetTraceID(c),
	})
}
