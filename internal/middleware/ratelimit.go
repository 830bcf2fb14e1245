package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type rateLimiter struct {
	sync.Mutex
	limiters map[string]*rate.Limiter
	seen     map[string]time.Time
	rps      rate.Limit
	burst    int
}

// NewRateLimiter builds a per-client-IP token bucket limiter. Idle
// buckets are evicted after an hour.
func NewRateLimiter(rps float64, burst int) *rateLimiter {
	rl := &rateLimiter{
		limiters: make(map[string]*rate.Limiter),
		seen:     make(map[string]time.Time),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *rateLimiter) cleanupLoop() {
	for {
		time.Sleep(time.Minute)
		rl.Lock()
		cutoff := time.Now().Add(-time.Hour)
		for ip, last := range rl.seen {
			if last.Before(cutoff) {
				delete(rl.seen, ip)
				delete(rl.limiters, ip)
			}
		}
		rl.Unlock()
	}
}

func (rl *rateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.Lock()
	defer rl.Unlock()

	limiter, ok := rl.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rl.rps, rl.burst)
		rl.limiters[ip] = limiter
	}
	rl.seen[ip] = time.Now()
	return limiter
}

func (rl *rateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, ErrorResponse{
				Code:    http.StatusTooManyRequests,
				Message: "rate limit exceeded",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
