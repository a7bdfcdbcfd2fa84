package httpserver

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"storefront/internal/auth"
	"storefront/internal/metrics"
)

const (
	userIDKey   = "userId"
	sellerIDKey = "sellerId"

	msgNotAuthorized = "Not Authorized Login Again"
)

func authUser(tokens tokenValidator) gin.HandlerFunc {
	return cookieAuth(auth.UserCookie, userIDKey, func(raw string) (string, error) {
		if tokens == nil {
			return "", auth.ErrInvalidToken
		}
		return tokens.Validate(raw)
	})
}

func authSeller(seller sellerService) gin.HandlerFunc {
	return cookieAuth(auth.SellerCookie, sellerIDKey, func(raw string) (string, error) {
		if seller == nil {
			return "", auth.ErrInvalidToken
		}
		return seller.Authenticate(raw)
	})
}

// cookieAuth answers with the failure envelope (HTTP 200) when the session cookie is absent or invalid.
func cookieAuth(cookie, key string, validate func(string) (string, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(cookie)
		if err != nil || raw == "" {
			respondFail(c, msgNotAuthorized)
			c.Abort()
			return
		}
		id, err := validate(raw)
		if err != nil || id == "" {
			respondFail(c, msgNotAuthorized)
			c.Abort()
			return
		}
		c.Set(key, id)
		c.Next()
	}
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		handler := c.FullPath()
		if handler == "" {
			handler = "unmatched"
		}
		m.Requests.WithLabelValues(handler, strconv.Itoa(c.Writer.Status())).Inc()
		m.LatencyMS.WithLabelValues(handler).Observe(float64(time.Since(start).Microseconds()) / 1000)
	}
}

type visitor struct {
	limiter *rate.Limiter
	last    time.Time
}

// rateLimiter keeps one token bucket per client IP and forgets IPs idle for visitorTTL.
type rateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rps       rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

const (
	visitorTTL    = 30 * time.Minute
	sweepInterval = 5 * time.Minute
)

func newRateLimiter(rps, burst int) *rateLimiter {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 10
	}
	return &rateLimiter{
		visitors:  map[string]*visitor{},
		rps:       rate.Limit(rps),
		burst:     burst,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *rateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastSweep) > sweepInterval {
		for k, v := range l.visitors {
			if now.Sub(v.last) > visitorTTL {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.last = now
	return v.limiter.AllowN(now, 1)
}

func (l *rateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
