package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/docstore/pkg/metrics"
	"golang.org/x/time/rate"
)

// clientKey identifies the caller for rate limiting: the client IP as gin
// resolves it, or "unknown".
func clientKey(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// limiters is a per-key token-bucket store owned by one middleware instance.
// Buckets idle for a full refill are dropped; a new bucket starts full, so a
// returning client sees the same allowance.
type limiters struct {
	rps       rate.Limit
	burst     int
	idle      time.Duration // 0 keeps buckets forever
	now       func() time.Time
	nextSweep atomic.Int64
	m         sync.Map // map[string]*limiterEntry
}

func newLimiters(rps float64, burst int) *limiters {
	l := &limiters{rps: rate.Limit(rps), burst: burst, now: time.Now}
	// a zero rate never refills, so dropping its bucket would hand out a fresh burst
	if rps > 0 {
		if d := float64(burst) / rps * float64(time.Second); d < math.MaxInt64 {
			l.idle = max(time.Duration(d), time.Second)
		}
	}
	return l
}

func (l *limiters) get(key string) *rate.Limiter {
	now := l.now()
	l.sweep(now)
	v, ok := l.m.Load(key)
	if !ok {
		v, _ = l.m.LoadOrStore(key, &limiterEntry{limiter: rate.NewLimiter(l.rps, l.burst)})
	}
	e := v.(*limiterEntry)
	e.lastSeen.Store(now.UnixNano())
	return e.limiter
}

// sweep runs at most once per idle interval.
func (l *limiters) sweep(now time.Time) {
	if l.idle <= 0 {
		return
	}
	next := l.nextSweep.Load()
	if now.UnixNano() < next || !l.nextSweep.CompareAndSwap(next, now.Add(l.idle).UnixNano()) {
		return
	}
	cutoff := now.Add(-l.idle).UnixNano()
	l.m.Range(func(k, v any) bool {
		if v.(*limiterEntry).lastSeen.Load() < cutoff {
			l.m.Delete(k)
		}
		return true
	})
}

func reject(c *gin.Context, limiter string, retryAfter int) {
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	metrics.RateLimitRejected.WithLabelValues(limiter).Inc()
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
}

// RateLimitMiddleware enforces an in-process token bucket per client IP.
// rps = allowed events per second, burst = maximum tokens in bucket.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	store := newLimiters(rps, burst)
	return func(c *gin.Context) {
		if !store.get(clientKey(c)).Allow() {
			reject(c, "memory", 1)
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}
