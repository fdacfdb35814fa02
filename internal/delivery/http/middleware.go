package http

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// SessionCookie carries the shopper's session id
	SessionCookie = "mcare_session"

	sessionContextKey = "session_id"
	sessionMaxAge     = 30 * 24 * 60 * 60
)

// CORSMiddleware allows the storefront origins, with trailing-* wildcards
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return isAllowedOrigin(origin, allowedOrigins)
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	})
}

// isAllowedOrigin checks if the origin is in the allowed list
func isAllowedOrigin(origin string, allowedOrigins []string) bool {
	if origin == "" {
		return false
	}
	for _, allowed := range allowedOrigins {
		if strings.HasSuffix(allowed, "*") {
			prefix := strings.TrimSuffix(allowed, "*")
			if strings.HasPrefix(origin, prefix) {
				return true
			}
		} else if origin == allowed {
			return true
		}
	}
	return false
}

// SessionMiddleware reads the session cookie, minting a new id when it is
// missing or malformed, and stores the id on the context.
func SessionMiddleware(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(SessionCookie)
		if err != nil || uuid.Validate(sid) != nil {
			sid = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sid, sessionMaxAge, "/", "", secure, true)
		}

		c.Set(sessionContextKey, sid)
		c.Next()
	}
}

// SessionID returns the session id set by SessionMiddleware
func SessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}

// RateLimiter hands out one token bucket per client IP
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perMinute requests per IP, with bursts of the same size
func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		visitors:  make(map[string]*visitor),
		limit:     rate.Limit(float64(perMinute) / 60),
		burst:     perMinute,
		idle:      3 * time.Minute,
		lastSweep: time.Now(),
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastSweep) > time.Minute {
		for key, v := range rl.visitors {
			if now.Sub(v.lastSeen) > rl.idle {
				delete(rl.visitors, key)
			}
		}
		rl.lastSweep = now
	}

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.Allow()
}

// Middleware rejects requests over the limit with 429
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// LoggerMiddleware logs requests
func LoggerMiddleware() gin.HandlerFunc {
	return gin.Logger()
}

// RecoveryMiddleware recovers from panics
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.Recovery()
}
