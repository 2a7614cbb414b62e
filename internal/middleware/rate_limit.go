package middleware

import (
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	loginRateLimitPeriod = 1 * time.Minute
	loginRateLimitCount  = 10
)

// RateLimiter caps requests per client IP in fixed windows using Redis
// INCR/EXPIRE. Without Redis, or when Redis fails, requests pass.
func RateLimiter(rdb *redis.Client, prefix string, limit int64, period time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rdb == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := "inventario:rate_limit:" + prefix + ":" + clientIP(r)
			count, err := rdb.Incr(r.Context(), key).Result()
			if err != nil {
				log.Printf("⚠️ rate limiter: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				rdb.Expire(r.Context(), key, period)
			}

			if count > limit {
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoginRateLimiter is the limiter applied to /auth/login.
func LoginRateLimiter(rdb *redis.Client) func(http.Handler) http.Handler {
	return RateLimiter(rdb, "login", loginRateLimitCount, loginRateLimitPeriod)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
