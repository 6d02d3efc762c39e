package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabriel-Moraes12/Kinisi2/pkg/helpers"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/response"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"request_id": c.GetString(response.RequestIDKey),
			"real_ip":    c.GetString(RealIPKey),
			"user_id":    c.GetString(UserIDKey),
		})
	})
	return r
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestIDMiddleware())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	keep := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, keep)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, keep, w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Header().Get(RequestIDHeader))
}

func TestRealIP(t *testing.T) {
	r := newEngine(RealIP())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"real_ip":"203.0.113.9"`)

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("CF-Connecting-IP", "198.51.100.7")
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"real_ip":"198.51.100.7"`)

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-For", "not-an-ip")
	req.RemoteAddr = "192.0.2.1:5555"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"real_ip":"192.0.2.1"`)
}

func TestAllowPrivateIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(RealIPKey, "192.168.1.4")
	assert.True(t, AllowPrivateIP()(c))
	c.Set(RealIPKey, "8.8.8.8")
	assert.False(t, AllowPrivateIP()(c))
	assert.True(t, AllowAny(nil, func(*gin.Context) bool { return true })(c))
}

func TestRateLimitWithoutRedisPassesThrough(t *testing.T) {
	r := newEngine(RateLimit(nil, PerMinute(1, KeyByIP())))
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestAuth(t *testing.T) {
	jwt := helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour)
	r := newEngine(Auth(nil, jwt))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: "garbage"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, _, err := jwt.GenerateAccessToken("u1", "sid")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitKeys(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/users/search", nil)
	c.Set(RealIPKey, "203.0.113.9")

	assert.Equal(t, "rl:ip:203.0.113.9", KeyByIP()(c))
	assert.Equal(t, "rl:route:/api/users/search:ip:203.0.113.9", KeyByIPAndPath()(c))
	assert.Equal(t, "rl:user:anon:ip:203.0.113.9", KeyByUserID()(c))
	c.Set(UserIDKey, "u1")
	assert.Equal(t, "rl:user:u1", KeyByUserID()(c))
}

func TestLimitExcept(t *testing.T) {
	base := PerMinute(5, KeyByIP())
	l := base.Except(AllowPrivateIP())
	assert.Nil(t, base.Allow)
	assert.NotNil(t, l.Allow)
	assert.Equal(t, time.Minute, l.Window)
}
