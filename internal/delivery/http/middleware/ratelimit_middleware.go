package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hospital-appointment/pkg/response"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RateLimitMiddleware is a fixed-window limiter keyed by client IP, shared
// across instances through Redis. Redis failures let requests through.
type RateLimitMiddleware struct {
	redisClient *redis.Client
	log         *logrus.Logger
	limit       int
	window      time.Duration
	prefix      string
}

func NewRateLimitMiddleware(redisClient *redis.Client, log *logrus.Logger, limit int, window time.Duration, prefix string) *RateLimitMiddleware {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = time.Minute
	}
	if prefix == "" {
		prefix = "rl"
	}
	return &RateLimitMiddleware{
		redisClient: redisClient,
		log:         log,
		limit:       limit,
		window:      window,
		prefix:      prefix,
	}
}

func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := m.prefix + ":" + clientIP(r)
		count, err := m.incr(r.Context(), key)
		if err != nil {
			m.log.Warnf("Rate limiter unavailable, allowing request: %+v", err)
			next.ServeHTTP(w, r)
			return
		}
		if count > int64(m.limit) {
			w.Header().Set("Retry-After", strconv.Itoa(int(m.window.Seconds())))
			response.TooManyRequests(w, "Too many attempts, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *RateLimitMiddleware) incr(ctx context.Context, key string) (int64, error) {
	return fixedWindowScript.Run(ctx, m.redisClient, []string{key}, m.window.Milliseconds()).Int64()
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
