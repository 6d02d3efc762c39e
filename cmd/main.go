package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Gabriel-Moraes12/Kinisi2/config"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/application"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/container"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/infrastructure/mongodb"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/infrastructure/openrouter"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/interface/middleware"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/router"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/helpers"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/mailer"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	ctx := context.Background()

	// MongoDB
	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoURI, cfg.MongoTimeout)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	if err := mongodb.RunMigrations(mongoClient, cfg.MongoDatabase, cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	// JWT
	jwtManager := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	// Profile images: GCS first, then S3-compatible storage
	images, closeImages := newImageStore(ctx, cfg, logger)
	defer closeImages()

	// Elasticsearch (optional)
	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.WithError(err).Warn("elasticsearch disabled")
		es = nil
	} else if err := helpers.EnsureIndex(ctx, es, cfg.ESUsersIndex, helpers.UsersIndexMapping); err != nil {
		logger.WithError(err).Warn("elasticsearch users index not ready")
	}

	// Mail: queue when RabbitMQ is configured, otherwise send in-process
	mail, closeMail := newMailSender(cfg, logger)
	defer closeMail()

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetMongo(db)
	container.SetRedis(rdb)
	container.SetJWT(jwtManager)
	container.SetUserRepository(mongodb.NewUserRepository(db))
	container.SetUsedQuestionRepository(mongodb.NewUsedQuestionRepository(db))
	container.SetImageStore(images)
	container.SetMailSender(mail)
	container.SetCompletion(openrouter.NewClient(cfg.OpenRouterURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.OpenRouterTimeout))
	container.SetES(es)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	// CORS
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

func newImageStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (application.ImageStore, func()) {
	switch {
	case cfg.GCSBucket != "":
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		return helpers.NewGCSImageStore(client, cfg.GCSBucket), func() { _ = client.Close() }
	case cfg.S3Bucket != "":
		store, err := helpers.NewS3ImageStore(ctx, cfg.S3Region, cfg.S3BaseEndpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			log.Fatalf("failed to init S3 client: %v", err)
		}
		return store, func() {}
	default:
		logger.Warn("no image bucket configured; profile image upload disabled")
		return nil, func() {}
	}
}

func newMailSender(cfg *config.Config, logger *logrus.Logger) (application.MailSender, func()) {
	if !cfg.MailSendEnabled {
		return mailer.LogSender{Logger: logger}, func() {}
	}
	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue, cfg.AppName)
		if err == nil {
			return mailer.QueueSender{Pub: pub}, pub.Close
		}
		logger.WithError(err).Warn("rabbitmq unavailable, sending mail in-process")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" {
		logger.Warn("mailgun not configured; emails are logged only")
		return mailer.LogSender{Logger: logger}, func() {}
	}
	return mailer.DirectSender{Mailgun: mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)}, func() {}
}
