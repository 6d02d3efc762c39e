package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabriel-Moraes12/Kinisi2/config"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/container"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/domain/entity"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/infrastructure/memory"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/interface/middleware"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/helpers"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/mailer"
)

func newTestEngine(t *testing.T, debug bool) (*gin.Engine, *memory.UserRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := helpers.NewDiscardLogger()
	users := memory.NewUserRepository()

	container.SetConfig(&config.Config{AppName: "Kinisi", QuestionMaxAttempts: 2, DebugMetricsEnabled: debug})
	container.SetLogger(logger)
	container.SetJWT(helpers.NewJWTManager("a", "r", time.Minute, time.Hour))
	container.SetUserRepository(users)
	container.SetUsedQuestionRepository(memory.NewUsedQuestionRepository())
	container.SetMailSender(mailer.LogSender{Logger: logger})

	r := gin.New()
	reg := NewRegistry(r)
	reg.Use(middleware.RequestIDMiddleware())
	InitModules(reg)
	reg.RegisterAll()
	return r, users
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newTestEngine(t, false)
	w := get(r, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Kinisi API is running", w.Body.String())
}

func TestModulesAreMounted(t *testing.T) {
	r, users := newTestEngine(t, false)
	u := &entity.User{ID: helpers.NewID(), Name: "Alice", Email: "alice@example.com"}
	users.Put(u)

	w := get(r, "/api/friends/user/"+u.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = get(r, "/api/users/stats/"+u.ID)
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(r, "/api/profile")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "/api/debug/vars")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDebugVarsWhenEnabled(t *testing.T) {
	r, _ := newTestEngine(t, true)
	w := get(r, "/api/debug/vars")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "memstats"))
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	r, _ := newTestEngine(t, false)
	w := get(r, "/api/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"route_not_found"`)
}
