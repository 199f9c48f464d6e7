// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/idreamhq/idream-backend/internal/utils"
)

// clientState holds one caller's token bucket. Entries are pruned after
// staleAfter of inactivity so the map stays bounded.
type clientState struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

const staleAfter = 3 * time.Minute

// ClientLimiter throttles requests with a token bucket per client IP.
type ClientLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientState
	limit   rate.Limit
	burst   int
}

func NewClientLimiter(limit rate.Limit, burst int) *ClientLimiter {
	cl := &ClientLimiter{
		clients: make(map[string]*clientState),
		limit:   limit,
		burst:   burst,
	}
	go cl.prune()
	return cl
}

func (cl *ClientLimiter) prune() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cl.mu.Lock()
		for key, state := range cl.clients {
			if time.Since(state.lastSeen) > staleAfter {
				delete(cl.clients, key)
			}
		}
		cl.mu.Unlock()
	}
}

func (cl *ClientLimiter) allow(key string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	state, ok := cl.clients[key]
	if !ok {
		state = &clientState{bucket: rate.NewLimiter(cl.limit, cl.burst)}
		cl.clients[key] = state
	}
	state.lastSeen = time.Now()
	return state.bucket.Allow()
}

func (cl *ClientLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cl.allow(c.ClientIP()) {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED",
				"Too many requests, slow down", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Shared tiers. Auth endpoints get a tight budget since they are the
// brute-force target; uploads are capped for cost rather than abuse risk.
var (
	generalTier = NewClientLimiter(rate.Every(time.Second), 10)
	authTier    = NewClientLimiter(rate.Every(time.Minute), 5)
	uploadTier  = NewClientLimiter(rate.Every(time.Minute), 10)
)

func GeneralRateLimit() gin.HandlerFunc { return generalTier.Middleware() }

func AuthRateLimit() gin.HandlerFunc { return authTier.Middleware() }

func UploadRateLimit() gin.HandlerFunc { return uploadTier.Middleware() }
