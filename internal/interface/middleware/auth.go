package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Gabriel-Moraes12/Kinisi2/pkg/helpers"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/response"
)

func accessToken(c *gin.Context) string {
	if tok, err := c.Cookie(helpers.AccessCookie); err == nil && tok != "" {
		return tok
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func unauthorized(c *gin.Context, code string) {
	response.Error[any](c, http.StatusUnauthorized, code, nil)
	c.Abort()
}

// Auth requires a valid access token (cookie, or Bearer header) and, when
// rdb is set, that the token's sid is the user's live session.
// On success UserIDKey holds the user id; with Redis, userName and
// userEmail hold the cached profile.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := accessToken(c)
		if tok == "" {
			unauthorized(c, "missing_token")
			return
		}
		claims, err := jwt.ParseAccessToken(tok)
		if err != nil {
			unauthorized(c, "invalid_token")
			return
		}

		if rdb != nil {
			session, err := helpers.GetSession(c.Request.Context(), rdb, claims.UserID)
			if err != nil || session["sid"] != claims.SessionID {
				unauthorized(c, "session_expired")
				return
			}
			c.Set("userName", session["name"])
			c.Set("userEmail", session["email"])
		}
		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}
