package api_middleware

import (
	"net"
	"net/http"
	"sync"

	"github.com/Lutefd/currency-converter/internal/commons"
	"github.com/Lutefd/currency-converter/internal/logger"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	rps   rate.Limit
	burst int

	mu      sync.Mutex
	clients map[string]*rate.Limiter
}

func NewRateLimiter(rps float64) *RateLimiter {
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*rate.Limiter),
	}
}

func (rl *RateLimiter) limiterFor(client string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.clients[client]
	if !ok {
		limiter = rate.NewLimiter(rl.rps, rl.burst)
		rl.clients[client] = limiter
	}
	return limiter
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientIP(r)
		if !rl.limiterFor(client).Allow() {
			logger.Errorf("rate limit exceeded for IP: %s", client)
			commons.RespondWithError(w, http.StatusTooManyRequests, commons.ErrorKindRateLimited, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RequireAdminToken guards destructive endpoints. An empty hash leaves the
// route open, as on a local single-user install.
func RequireAdminToken(tokenHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if tokenHash == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(commons.AdminTokenHeader)
			if token == "" {
				logger.Error("no admin token provided")
				commons.RespondWithError(w, http.StatusUnauthorized, commons.ErrorKindUnauthorized, "no admin token provided")
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)); err != nil {
				logger.Errorf("invalid admin token from %s", clientIP(r))
				commons.RespondWithError(w, http.StatusForbidden, commons.ErrorKindUnauthorized, "invalid admin token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
