package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter enforces a minimum interval between requests per client,
// keyed on the X-Client-ID header.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]time.Time
	limit   time.Duration
}

func NewRateLimiter(limit time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]time.Time),
		limit:   limit,
	}
}

// allow records the request time and reports whether the client is
// inside its allowed rate. Entries older than the limit are pruned
// opportunistically so the map does not grow with one-shot clients.
func (r *RateLimiter) allow(clientID string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if last, ok := r.clients[clientID]; ok && now.Sub(last) < r.limit {
		return false
	}
	if len(r.clients) > 1024 {
		for id, last := range r.clients {
			if now.Sub(last) >= r.limit {
				delete(r.clients, id)
			}
		}
	}
	r.clients[clientID] = now
	return true
}

func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetHeader("X-Client-ID")
		if clientID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "X-Client-ID header required"})
			c.Abort()
			return
		}
		if !r.allow(clientID, time.Now()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
