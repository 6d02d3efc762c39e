package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/container"
	handlers "github.com/Gabriel-Moraes12/Kinisi2/internal/interface/http"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/interface/middleware"
)

type FriendModule struct {
	Handler *handlers.FriendHandler
}

func NewFriendModule(h *handlers.FriendHandler) *FriendModule {
	return &FriendModule{Handler: h}
}

func (m *FriendModule) Register(rg *gin.RouterGroup) {
	friends := rg.Group("/friends")
	friends.Use(middleware.RateLimit(container.GetRedis(), middleware.PerMinute(120, middleware.KeyByIP())))
	{
		friends.POST("/send-request", m.Handler.SendRequest)
		friends.POST("/accept-request", m.Handler.AcceptRequest)
		friends.POST("/reject-request", m.Handler.RejectRequest)
		friends.GET("/list/:userId", m.Handler.List)
		friends.GET("/search", m.Handler.Search)
		friends.GET("/user/:id", m.Handler.GetUser)
	}
}
