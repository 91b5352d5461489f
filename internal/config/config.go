package config

import (
	"strings"
	"time"

	"github.com/heartmarshall/brainq-backend/internal/domain"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	Quiz      QuizConfig      `yaml:"quiz"`
	Redis     RedisConfig     `yaml:"redis"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// TrustProxy takes the client address from X-Forwarded-For.
	TrustProxy bool `yaml:"trust_proxy" env:"SERVER_TRUST_PROXY" env-default:"false"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	ApplicationName string        `yaml:"application_name"   env:"DATABASE_APPLICATION_NAME"   env-default:"brainq"`
}

// AuthConfig holds access token verification settings. Tokens are issued by
// the identity service; this service only verifies them.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"brainq"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// QuizConfig holds quiz engine settings.
type QuizConfig struct {
	Distractors      int    `yaml:"distractors"        env:"QUIZ_DISTRACTORS"         env-default:"3"`
	DefaultMode      string `yaml:"default_mode"       env:"QUIZ_DEFAULT_MODE"        env-default:"random"`
	DefaultAdaptive  bool   `yaml:"default_adaptive"   env:"QUIZ_DEFAULT_ADAPTIVE"    env-default:"false"`
	DefaultSRS       bool   `yaml:"default_srs"        env:"QUIZ_DEFAULT_SRS"         env-default:"false"`
	MaxTimePerCard   int    `yaml:"max_time_per_card"  env:"QUIZ_MAX_TIME_PER_CARD"   env-default:"600"`
	DefaultListLimit int    `yaml:"default_list_limit" env:"QUIZ_DEFAULT_LIST_LIMIT"  env-default:"20"`
	DueReminderMin   int    `yaml:"due_reminder_min"   env:"QUIZ_DUE_REMINDER_MIN"    env-default:"1"`
}

// RedisConfig holds the event channel settings. When disabled, events are
// only logged.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"  env:"REDIS_ENABLED"  env-default:"false"`
	Addr     string `yaml:"addr"     env:"REDIS_ADDR"     env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"REDIS_DB"       env-default:"0"`
	Channel  string `yaml:"channel"  env:"REDIS_CHANNEL"  env-default:"brainq.events"`
}

// RateLimitConfig holds per-client request limits for the REST API.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"             env:"RATE_LIMIT_ENABLED"             env-default:"true"`
	RequestsPerMinute int  `yaml:"requests_per_minute" env:"RATE_LIMIT_REQUESTS_PER_MINUTE" env-default:"120"`
	Burst             int  `yaml:"burst"               env:"RATE_LIMIT_BURST"               env-default:"20"`
}

// Mode returns the default quiz mode as a domain value.
func (c QuizConfig) Mode() domain.QuizMode {
	return domain.QuizMode(strings.ToLower(strings.TrimSpace(c.DefaultMode)))
}
