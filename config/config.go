package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is read once from the environment at startup. Defaults target a
// local development stack.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	// MongoDB
	MongoURI      string
	MongoDatabase string
	MongoTimeout  time.Duration

	// Migrations
	MigrationsDir string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Google Cloud Storage
	GCSBucket              string
	GCSCredentialsJSONPath string // optional; if empty, Application Default Credentials are used
	ProfileImageMaxBytes   int64

	// S3-compatible storage, used for profile images when GCSBucket is empty
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	S3PublicURL    string

	// JWT
	JWTAccessSecret  string
	JWTRefreshSecret string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration

	// Cookies
	CookieDomain string
	CookieSecure bool

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Mailgun
	MailgunDomain string
	MailgunAPIKey string
	MailgunSender string

	// RabbitMQ
	RabbitMQURL        string
	RabbitMQEmailQueue string

	// Elasticsearch
	ElasticsearchAddrs string // comma-separated
	ElasticsearchUser  string
	ElasticsearchPass  string
	ESUsersIndex       string

	// AI completion provider
	OpenRouterAPIKey    string
	OpenRouterURL       string
	OpenRouterModel     string
	OpenRouterTimeout   time.Duration
	QuestionMaxAttempts int

	// Company/Links for emails
	CompanyName      string
	CompanyAddress   string
	SupportURL       string
	ResetPasswordURL string
	VerifyEmailURL   string
	AppRedirectURL   string
	ResetTokenTTL    time.Duration

	// Email sending toggle
	MailSendEnabled bool

	// Debug metrics (/api/debug/vars)
	DebugMetricsEnabled bool

	// HTTP access log toggle (Gin logger)
	HTTPLogEnabled bool
	LogLevel       string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parsed reads key with parse; unset or unparsable values yield def.
func parsed[T any](key string, def T, parse func(string) (T, error)) T {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	out, err := parse(v)
	if err != nil {
		log.Printf("config: %s=%q is invalid (%v), using %v", key, v, err, def)
		return def
	}
	return out
}

func getbool(key string, def bool) bool { return parsed(key, def, strconv.ParseBool) }
func getint(key string, def int) int    { return parsed(key, def, strconv.Atoi) }

func getdur(key string, def time.Duration) time.Duration {
	return parsed(key, def, time.ParseDuration)
}

// Load builds a Config from the environment.
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "kinisi"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "5000"),
		GinMode: getenv("GIN_MODE", "release"),

		MongoURI:      getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getenv("MONGO_DATABASE", "kinisi"),
		MongoTimeout:  getdur("MONGO_TIMEOUT", 10*time.Second),

		MigrationsDir: getenv("MIGRATIONS_DIR", "db/migrations"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		GCSBucket:              getenv("GCS_BUCKET", ""),
		GCSCredentialsJSONPath: getenv("GCS_CREDENTIALS_JSON", ""),
		ProfileImageMaxBytes:   int64(getint("PROFILE_IMAGE_MAX_BYTES", 5<<20)),

		S3Bucket:       getenv("S3_BUCKET", ""),
		S3Region:       getenv("S3_REGION", "us-east-1"),
		S3BaseEndpoint: getenv("S3_BASE_ENDPOINT", ""),
		S3AccessKey:    getenv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getenv("S3_SECRET_KEY", ""),
		S3PublicURL:    getenv("S3_PUBLIC_URL", ""),

		JWTAccessSecret:  getenv("JWT_ACCESS_SECRET", devAccessSecret),
		JWTRefreshSecret: getenv("JWT_REFRESH_SECRET", devRefreshSecret),
		AccessTTL:        getdur("JWT_ACCESS_TTL", time.Hour),
		RefreshTTL:       getdur("JWT_REFRESH_TTL", 168*time.Hour),

		CookieDomain: getenv("COOKIE_DOMAIN", "localhost"),
		CookieSecure: getbool("COOKIE_SECURE", false),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", "http://localhost:8081"),

		MailgunDomain: getenv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey: getenv("MAILGUN_API_KEY", ""),
		MailgunSender: getenv("MAILGUN_SENDER", ""),

		RabbitMQURL:        getenv("RABBITMQ_URL", ""),
		RabbitMQEmailQueue: getenv("RABBITMQ_EMAIL_QUEUE", "emails"),

		ElasticsearchAddrs: getenv("ELASTICSEARCH_ADDRS", ""),
		ElasticsearchUser:  getenv("ELASTICSEARCH_USERNAME", ""),
		ElasticsearchPass:  getenv("ELASTICSEARCH_PASSWORD", ""),
		ESUsersIndex:       getenv("ES_USERS_INDEX", "users"),

		OpenRouterAPIKey:    getenv("OPENROUTER_API_KEY", ""),
		OpenRouterURL:       getenv("OPENROUTER_URL", "https://openrouter.ai/api/v1"),
		OpenRouterModel:     getenv("OPENROUTER_MODEL", "openai/gpt-3.5-turbo"),
		OpenRouterTimeout:   getdur("OPENROUTER_TIMEOUT", 30*time.Second),
		QuestionMaxAttempts: getint("QUESTION_MAX_ATTEMPTS", 7),

		CompanyName:      getenv("COMPANY_NAME", ""),
		CompanyAddress:   getenv("COMPANY_ADDRESS", ""),
		SupportURL:       getenv("SUPPORT_URL", ""),
		ResetPasswordURL: getenv("RESET_PASSWORD_URL", "http://localhost:8081/auth/reset-password"),
		VerifyEmailURL:   getenv("VERIFY_EMAIL_URL", "http://localhost:5000/api/auth/verify-email"),
		AppRedirectURL:   getenv("APP_REDIRECT_URL", "http://localhost:8081/EmailVerifiedScreen"),
		ResetTokenTTL:    getdur("RESET_TOKEN_TTL", time.Hour),

		MailSendEnabled: getbool("MAIL_SEND_ENABLED", true),

		DebugMetricsEnabled: getbool("DEBUG_METRICS_ENABLED", true),

		HTTPLogEnabled: getbool("HTTP_LOG_ENABLED", false),
		LogLevel:       getenv("LOG_LEVEL", ""),
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}

func (c *Config) CORSOrigins() []string { return splitList(c.CORSAllowedOrigins) }

func (c *Config) ESAddrs() []string { return splitList(c.ElasticsearchAddrs) }

const (
	devAccessSecret  = "devaccesssecret"
	devRefreshSecret = "devrefreshsecret"
)

// Warnings lists settings that are unsafe outside development.
func (c *Config) Warnings() []string {
	if c.Env == "development" {
		return nil
	}
	var out []string
	if c.JWTAccessSecret == devAccessSecret || c.JWTRefreshSecret == devRefreshSecret {
		out = append(out, "JWT secrets are the development defaults")
	}
	if !c.CookieSecure {
		out = append(out, "COOKIE_SECURE is off")
	}
	if c.OpenRouterAPIKey == "" {
		out = append(out, "OPENROUTER_API_KEY is empty; question generation will fail")
	}
	return out
}
