package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"paystack-donation-api/models"
)

type RateLimiter struct {
	client  *redis.Client
	proxies *TrustedProxies
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Message  string
}

var defaultConfigs = map[string]RateLimitConfig{
	"/pay": {
		Requests: 10,
		Window:   time.Minute * 10,
		Message:  "Too many donation attempts. Please try again in a few minutes.",
	},
	"/verify-payment": {
		Requests: 30,
		Window:   time.Minute,
		Message:  "Too many verification attempts. Please slow down.",
	},
	"default": {
		Requests: 120,
		Window:   time.Minute,
		Message:  "Rate limit exceeded. Please slow down your requests.",
	},
}

// slidingWindowScript trims the window, counts it and records the request atomically.
const slidingWindowScript = `
    local key = KEYS[1]
    local window_start = tonumber(ARGV[1])
    local limit = tonumber(ARGV[2])
    local current_time = ARGV[3]
    local member = ARGV[4]

    redis.call('ZREMRANGEBYSCORE', key, 0, window_start - 1)

    local current_count = redis.call('ZCARD', key)

    if current_count < limit then
        redis.call('ZADD', key, current_time, member)
        redis.call('EXPIRE', key, 3600)
        return {1, limit - current_count - 1}
    else
        return {0, 0}
    end
`

// NewRateLimiter keys requests by client IP. Proxy headers only count when the
// request arrives from one of proxies; a nil proxies uses the socket address.
func NewRateLimiter(client *redis.Client, proxies *TrustedProxies) *RateLimiter {
	return &RateLimiter{client: client, proxies: proxies}
}

func (rl *RateLimiter) RateLimitMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			config := getConfigForEndpoint(r.URL.Path)
			key := rl.getRateLimitKey(r)

			allowed, remaining, resetTime, err := rl.checkRateLimit(r.Context(), key, config)
			if err != nil {
				// fail open
				log.Printf("Rate limit check error: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.Requests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

			if !allowed {
				log.Printf("Rate limit exceeded for key: %s, endpoint: %s", key, r.URL.Path)

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.FormatInt(int64(time.Until(resetTime).Seconds()), 10))
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(models.APIResponse{
					Status:  "error",
					Message: config.Message,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func getConfigForEndpoint(path string) RateLimitConfig {
	if config, exists := defaultConfigs[path]; exists {
		return config
	}

	if strings.HasPrefix(path, "/verify/") {
		return RateLimitConfig{
			Requests: 30,
			Window:   time.Minute,
			Message:  "Too many verification attempts. Please slow down.",
		}
	}

	return defaultConfigs["default"]
}

func (rl *RateLimiter) getRateLimitKey(r *http.Request) string {
	endpoint := r.URL.Path
	if strings.HasPrefix(endpoint, "/verify/") {
		endpoint = "/verify"
	}
	return fmt.Sprintf("rate_limit:%s:%s", rl.proxies.ClientIP(r), endpoint)
}

func (rl *RateLimiter) checkRateLimit(ctx context.Context, key string, config RateLimitConfig) (allowed bool, remaining int, resetTime time.Time, err error) {
	now := time.Now()
	windowStart := now.Add(-config.Window)
	resetTime = now.Add(config.Window)

	result, err := rl.client.Eval(ctx, slidingWindowScript, []string{key},
		windowStart.UnixMilli(), config.Requests, now.UnixMilli(), strconv.FormatInt(now.UnixNano(), 10)).Result()
	if err != nil {
		return false, 0, time.Time{}, err
	}

	resultSlice, ok := result.([]interface{})
	if !ok || len(resultSlice) != 2 {
		return false, 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}

	allowedInt, ok1 := resultSlice[0].(int64)
	remainingInt, ok2 := resultSlice[1].(int64)
	if !ok1 || !ok2 {
		return false, 0, time.Time{}, fmt.Errorf("failed to parse redis result")
	}

	return allowedInt == 1, int(remainingInt), resetTime, nil
}
