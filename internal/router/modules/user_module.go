package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/container"
	handlers "github.com/Gabriel-Moraes12/Kinisi2/internal/interface/http"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/interface/middleware"
)

// UserModule serves profile edits, statistics and name search under /api/users.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	uploadLimiter := middleware.RateLimit(rdb, middleware.PerMinute(10, middleware.KeyByIP()))
	searchLimiter := middleware.RateLimit(rdb, middleware.PerMinute(60, middleware.KeyByIP()))

	users := rg.Group("/users")
	users.PUT("/upload-profile", uploadLimiter, m.Handler.UploadProfileImage)
	users.GET("/stats/:userId", m.Handler.GetStats)
	users.GET("/search", searchLimiter, m.Handler.Search)
	users.PUT("/:userId", m.Handler.UpdateName)
}
