package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/didip/tollbooth"
	"github.com/didip/tollbooth/limiter"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/pageza/dietary-compliance-engine/internal/metrics"
)

// RateLimitConfig mirrors the values read from Config.RateLimit.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	ExpirationTTL     time.Duration
}

type limiterStore struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	config   RateLimitConfig
}

func newLimiterStore(config RateLimitConfig) *limiterStore {
	return &limiterStore{limiters: make(map[string]*rate.Limiter), config: config}
}

func (s *limiterStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.limiters[key]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Limit(s.config.RequestsPerSecond), s.config.Burst)
	s.limiters[key] = l
	return l
}

// RateLimiter limits requests per client IP and path, combining a
// per-key token bucket with a tollbooth.Limiter so both the
// burst-smoothing and total-throughput checks apply.
func RateLimiter(config RateLimitConfig) gin.HandlerFunc {
	store := newLimiterStore(config)
	lmt := tollbooth.NewLimiter(config.RequestsPerSecond, &limiter.ExpirableOptions{
		DefaultExpirationTTL: config.ExpirationTTL,
	})

	return func(c *gin.Context) {
		key := c.ClientIP() + ":" + c.Request.URL.Path

		if !store.get(key).Allow() {
			metrics.ObserveRateLimitHit(c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		if err := tollbooth.LimitByRequest(lmt, c.Writer, c.Request); err != nil {
			metrics.ObserveRateLimitHit(c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}
