package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Gabriel-Moraes12/Kinisi2/config"
	"github.com/Gabriel-Moraes12/Kinisi2/internal/application"
	repo "github.com/Gabriel-Moraes12/Kinisi2/internal/domain/repository"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	mongoDB     *mongo.Database
	redisClient *redis.Client

	jwtManager *helpers.JWTManager

	userRepo         repo.UserRepository
	usedQuestionRepo repo.UsedQuestionRepository

	imageStore application.ImageStore
	mailSender application.MailSender
	completion application.CompletionProvider
	esClient   *elasticsearch.Client
	clock      application.Clock
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetMongo(db *mongo.Database)  { mongoDB = db }
func GetMongo() *mongo.Database    { return mongoDB }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }

func SetUserRepository(r repo.UserRepository)                 { userRepo = r }
func GetUserRepository() repo.UserRepository                  { return userRepo }
func SetUsedQuestionRepository(r repo.UsedQuestionRepository) { usedQuestionRepo = r }
func GetUsedQuestionRepository() repo.UsedQuestionRepository  { return usedQuestionRepo }

func SetImageStore(s application.ImageStore)          { imageStore = s }
func GetImageStore() application.ImageStore           { return imageStore }
func SetMailSender(s application.MailSender)          { mailSender = s }
func GetMailSender() application.MailSender           { return mailSender }
func SetCompletion(p application.CompletionProvider) { completion = p }
func GetCompletion() application.CompletionProvider  { return completion }
func SetES(c *elasticsearch.Client)                   { esClient = c }
func GetES() *elasticsearch.Client                    { return esClient }

// SetClock pins the time source for services; nil means time.Now.
func SetClock(c application.Clock) { clock = c }
func GetClock() application.Clock  { return clock }
