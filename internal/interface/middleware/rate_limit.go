package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Gabriel-Moraes12/Kinisi2/pkg/response"
)

const rateKeyPrefix = "rl:"

// KeyFunc names the bucket a request is counted in.
type KeyFunc func(c *gin.Context) string

// AllowFunc returns true when the request skips the limiter.
type AllowFunc func(*gin.Context) bool

// Limit is a fixed-window budget of Max requests per Window.
type Limit struct {
	Max    int
	Window time.Duration
	Key    KeyFunc
	Allow  AllowFunc
}

func PerMinute(max int, key KeyFunc) Limit {
	return Limit{Max: max, Window: time.Minute, Key: key}
}

// Except returns a copy of l that lets allow-ed requests through.
func (l Limit) Except(allow AllowFunc) Limit {
	l.Allow = allow
	return l
}

func routeOf(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string { return rateKeyPrefix + "ip:" + ipFromCtx(c) }
}

// KeyByIPAndPath gives every route its own bucket per client.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return rateKeyPrefix + "route:" + routeOf(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID falls back to the client IP before Auth has run.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(UserIDKey); uid != "" {
			return rateKeyPrefix + "user:" + uid
		}
		return rateKeyPrefix + "user:anon:ip:" + ipFromCtx(c)
	}
}

// returns {count, pttl}; the window starts with the first hit
var hitScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

// RateLimit enforces l against Redis. Without Redis, or when Redis fails,
// requests pass.
func RateLimit(rdb *redis.Client, l Limit) gin.HandlerFunc {
	if rdb == nil || l.Max <= 0 || l.Window <= 0 || l.Key == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, http.MethodOptions) || (l.Allow != nil && l.Allow(c)) {
			c.Next()
			return
		}

		res, err := hitScript.Run(c.Request.Context(), rdb, []string{l.Key(c)}, l.Window.Milliseconds()).Int64Slice()
		if err != nil || len(res) != 2 {
			c.Next()
			return
		}
		count, resetSec := int(res[0]), 0
		if res[1] > 0 {
			resetSec = int((time.Duration(res[1]) * time.Millisecond).Round(time.Second) / time.Second)
		}

		remaining := l.Max - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(l.Max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if count > l.Max {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.Error[any](c, http.StatusTooManyRequests, "rate_limited", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
