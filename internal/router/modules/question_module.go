package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/container"
	handlers "github.com/Gabriel-Moraes12/Kinisi2/internal/interface/http"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/interface/middleware"
)

type QuestionModule struct {
	Handler *handlers.QuestionHandler
}

func NewQuestionModule(h *handlers.QuestionHandler) *QuestionModule {
	return &QuestionModule{Handler: h}
}

func (m *QuestionModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	// each generation costs a paid completion call
	generateLimiter := middleware.RateLimit(rdb, middleware.PerMinute(20, middleware.KeyByIP()))

	rg.POST("/questions/generate", generateLimiter, m.Handler.Generate)
	rg.POST("/questions/update-stats", m.Handler.UpdateStats)
}
