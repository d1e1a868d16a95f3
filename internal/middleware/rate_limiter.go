package middleware

import (
	"net/http"
	"sync"
	"time"

	"legofactory/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// clientWindow is one caller's request count for the current window.
type clientWindow struct {
	count   int
	resetAt time.Time
}

// rateLimiter counts requests per client IP in fixed windows.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string]*clientWindow
}

// RateLimiter caps each client IP at limit requests per window. Expired
// entries are swept in the background so one-off callers do not accumulate.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	rl := &rateLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string]*clientWindow),
	}
	go rl.sweep()

	return func(c *gin.Context) {
		ok, resetAt := rl.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", resetAt.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				apierror.New("too many requests, retry shortly"))
			return
		}
		c.Next()
	}
}

func (rl *rateLimiter) allow(ip string) (bool, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cw := rl.clients[ip]
	if cw == nil || now.After(cw.resetAt) {
		cw = &clientWindow{resetAt: now.Add(rl.window)}
		rl.clients[ip] = cw
	}
	cw.count++
	return cw.count <= rl.limit, cw.resetAt
}

func (rl *rateLimiter) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		rl.mu.Lock()
		purged := 0
		for ip, cw := range rl.clients {
			if now.After(cw.resetAt) {
				delete(rl.clients, ip)
				purged++
			}
		}
		remaining := len(rl.clients)
		rl.mu.Unlock()

		if purged > 0 {
			log.Debug().
				Int("purged", purged).
				Int("remaining", remaining).
				Msg("rate limiter: swept expired clients")
		}
	}
}
