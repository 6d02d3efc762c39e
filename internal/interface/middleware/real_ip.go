package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys set by this package.
const (
	RealIPKey = "real_ip"
	UserIDKey = "userID"
)

// proxy headers in trust order; X-Forwarded-For uses its left-most entry
var clientIPHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

func headerIP(c *gin.Context) string {
	for _, h := range clientIPHeaders {
		v := c.GetHeader(h)
		if i := strings.IndexByte(v, ','); i >= 0 {
			v = v[:i]
		}
		if ip := net.ParseIP(strings.TrimSpace(v)); ip != nil {
			return ip.String()
		}
	}
	return ""
}

// RealIP stores the client address under RealIPKey for the limiter and logs.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := headerIP(c)
		if ip == "" {
			ip = c.ClientIP()
		}
		c.Set(RealIPKey, ip)
		c.Next()
	}
}

func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString(RealIPKey); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
