package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/application"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/container"
	handlers "github.com/Gabriel-Moraes12/Kinisi2/internal/interface/http"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/router/modules"
)

type Services struct {
	Users     *application.UserService
	Friends   *application.FriendService
	Stats     *application.StatsService
	Questions *application.QuestionService
}

func buildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	users := container.GetUserRepository()
	clock := container.GetClock()

	return Services{
		Users: application.NewUserService(
			cfg,
			users,
			container.GetJWT(),
			container.GetRedis(),
			container.GetImageStore(),
			container.GetMailSender(),
			container.GetES(),
			logger,
			clock,
		),
		Friends:   application.NewFriendService(users, logger, clock),
		Stats:     application.NewStatsService(users, logger, clock),
		Questions: application.NewQuestionService(container.GetCompletion(), container.GetUsedQuestionRepository(), cfg.QuestionMaxAttempts, logger, clock),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	svc := buildServices()

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Users, cfg, logger), container.GetJWT()))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Users, svc.Stats, logger)))
	r.Add(modules.NewFriendModule(handlers.NewFriendHandler(svc.Friends, logger)))
	r.Add(modules.NewQuestionModule(handlers.NewQuestionHandler(svc.Questions, svc.Stats, logger)))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}

	r.Engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, cfg.AppName+" API is running")
	})
	return svc
}
