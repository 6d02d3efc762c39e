package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/container"
	handlers "github.com/Gabriel-Moraes12/Kinisi2/internal/interface/http"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/interface/middleware"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/helpers"
)

// AuthModule wires registration, login and account recovery.
// Public: /api/auth/{register,login,refresh,forgot-password,reset-password,verify-email}
// Protected: POST /api/auth/logout, GET /api/profile
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	registerLimiter := middleware.RateLimit(rdb, middleware.PerMinute(10, middleware.KeyByIPAndPath()))
	loginLimiter := middleware.RateLimit(rdb, middleware.PerMinute(10, middleware.KeyByIP()))
	refreshLimiter := middleware.RateLimit(rdb, middleware.PerMinute(60, middleware.KeyByIP()))
	forgotLimiter := middleware.RateLimit(rdb, middleware.PerMinute(5, middleware.KeyByIPAndPath()))
	tokenLimiter := middleware.RateLimit(rdb, middleware.PerMinute(30, middleware.KeyByIPAndPath()))

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/refresh", refreshLimiter, m.Handler.Refresh)
	rg.POST("/auth/forgot-password", forgotLimiter, m.Handler.ForgotPassword)
	rg.POST("/auth/reset-password", tokenLimiter, m.Handler.ResetPassword)
	rg.GET("/auth/verify-email", tokenLimiter, m.Handler.VerifyEmail)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(middleware.RateLimit(rdb, middleware.PerMinute(120, middleware.KeyByUserID())))
	{
		auth.POST("/auth/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.Profile)
	}
}
