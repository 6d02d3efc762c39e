package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/container"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/interface/middleware"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// Public metrics endpoint (expvar), rate-limited per IP except for private networks
	rl := middleware.RateLimit(container.GetRedis(), middleware.PerMinute(120, middleware.KeyByIP()).Except(middleware.AllowPrivateIP()))
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
