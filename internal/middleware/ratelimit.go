package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	KeyPrefix         string
}

// hitScript counts a request in the current window and returns the new
// count with the window's remaining time in milliseconds. The expiry is set
// in the same call so a crash can never leave a counter without one.
var hitScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return {count, ttl}
`)

// rateLimitClient is who a request is counted against: the merchant when
// authenticated, the remote address for anonymous checkouts.
func rateLimitClient(r *http.Request) string {
	if sess, ok := GetSession(r.Context()); ok && sess.MerchantID != "" {
		return sess.MerchantID
	}
	return r.RemoteAddr
}

// RateLimitMiddleware implements fixed-window rate limiting using Redis.
// Requests pass through unthrottled when Redis fails.
func RateLimitMiddleware(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	windowMillis := config.Window.Milliseconds()
	limit := strconv.Itoa(config.RequestsPerWindow)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := rateLimitClient(r)
			key := fmt.Sprintf("%s:%s", config.KeyPrefix, clientID)

			res, err := hitScript.Run(r.Context(), redisClient, []string{key}, windowMillis).Int64Slice()
			if err != nil || len(res) != 2 {
				logger.Error("Failed to count request for rate limit",
					zap.Error(err),
					zap.String("key", key),
				)
				next.ServeHTTP(w, r)
				return
			}

			count := res[0]
			ttl := time.Duration(res[1]) * time.Millisecond
			if ttl < 0 {
				ttl = config.Window
			}

			w.Header().Set("X-RateLimit-Limit", limit)

			if count > int64(config.RequestsPerWindow) {
				logger.Warn("Rate limit exceeded",
					zap.String("client_id", clientID),
					zap.String("path", r.URL.Path),
					zap.Int64("count", count),
					zap.Int("limit", config.RequestsPerWindow),
				)

				retryAfter := int((ttl + time.Second - 1) / time.Second)
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				RespondWithError(w, http.StatusTooManyRequests, "too many orders, try again shortly")
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(config.RequestsPerWindow)-count, 10))
			next.ServeHTTP(w, r)
		})
	}
}
