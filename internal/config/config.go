package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSessionSecret is the development fallback for AUTH_SESSION_SECRET.
// It is rejected outside the development environment.
const DefaultSessionSecret = "dev-secret"

const envDevelopment = "development"

// Supported values for STORE_DRIVER.
const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App         AppConfig
	Store       StoreConfig
	Mongo       MongoConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	Logger      LoggerConfig
	Auth        AuthConfig
	Mail        MailConfig
	Suggestions SuggestionsConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	BaseURL               string
	RequestTimeoutSeconds int
}

// StoreConfig selects the user store backend.
type StoreConfig struct {
	Driver string
}

// MongoConfig holds document database connection values.
type MongoConfig struct {
	URI                   string
	Database              string
	ConnectTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	EventsChannel string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	SessionSecret              string
	SessionTTLMinutes          int
	BcryptCost                 int
	VerificationCodeTTLMinutes int
	CookieName                 string
	CookieSecure               bool
}

// MailConfig configures outbound e-mail. An empty SMTPHost selects the log-only mailer.
type MailConfig struct {
	From         string
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
}

// SuggestionsConfig configures the generative text provider.
type SuggestionsConfig struct {
	APIKey         string
	Model          string
	BaseURL        string
	MaxTokens      int
	Temperature    float64
	TimeoutSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	temperature, err := strconv.ParseFloat(getEnv("SUGGESTIONS_TEMPERATURE", "0.9"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SUGGESTIONS_TEMPERATURE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "speak-free"),
			Env:                   getEnv("APP_ENV", envDevelopment),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			BaseURL:               getEnv("APP_BASE_URL", "http://localhost:8080"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverMongo)),
		},
		Mongo: MongoConfig{
			URI:                   os.Getenv("MONGODB_URI"),
			Database:              getEnv("MONGODB_DATABASE", "speakfree"),
			ConnectTimeoutSeconds: getEnvAsInt("MONGODB_CONNECT_TIMEOUT_SECONDS", 10),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:          os.Getenv("REDIS_ADDR"),
			Password:      os.Getenv("REDIS_PASSWORD"),
			DB:            redisDB,
			EventsChannel: getEnv("REDIS_EVENTS_CHANNEL", "speakfree.events"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			SessionSecret:              getEnv("AUTH_SESSION_SECRET", DefaultSessionSecret),
			SessionTTLMinutes:          getEnvAsInt("AUTH_SESSION_TTL_MINUTES", 30*24*60),
			BcryptCost:                 getEnvAsInt("AUTH_BCRYPT_COST", 10),
			VerificationCodeTTLMinutes: getEnvAsInt("AUTH_VERIFICATION_CODE_TTL_MINUTES", 60),
			CookieName:                 getEnv("AUTH_COOKIE_NAME", "speakfree_session"),
			CookieSecure:               getEnvAsBool("AUTH_COOKIE_SECURE", false),
		},
		Mail: MailConfig{
			From:         getEnv("MAIL_FROM", "onboarding@speakfree.local"),
			SMTPHost:     os.Getenv("SMTP_HOST"),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUsername: os.Getenv("SMTP_USERNAME"),
			SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		},
		Suggestions: SuggestionsConfig{
			APIKey:         os.Getenv("GOOGLE_GENERATIVE_AI_API_KEY"),
			Model:          getEnv("SUGGESTIONS_MODEL", "gemini-2.0-flash"),
			BaseURL:        getEnv("SUGGESTIONS_BASE_URL", "https://generativelanguage.googleapis.com"),
			MaxTokens:      getEnvAsInt("SUGGESTIONS_MAX_TOKENS", 100),
			Temperature:    temperature,
			TimeoutSeconds: getEnvAsInt("SUGGESTIONS_TIMEOUT_SECONDS", 15),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.App.Env != envDevelopment && c.Auth.SessionSecret == DefaultSessionSecret {
		return fmt.Errorf("AUTH_SESSION_SECRET must be set when APP_ENV is %q", c.App.Env)
	}

	switch c.Store.Driver {
	case StoreDriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGODB_URI is required for store driver %q", c.Store.Driver)
		}
	case StoreDriverPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for store driver %q", c.Store.Driver)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ConnectTimeout bounds the initial connect and ping.
func (m MongoConfig) ConnectTimeout() time.Duration {
	if m.ConnectTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(m.ConnectTimeoutSeconds) * time.Second
}

// SessionTTL returns how long issued session tokens stay valid.
func (a AuthConfig) SessionTTL() time.Duration {
	return time.Duration(a.SessionTTLMinutes) * time.Minute
}

// VerificationCodeTTL returns the validity window of e-mailed codes.
func (a AuthConfig) VerificationCodeTTL() time.Duration {
	if a.VerificationCodeTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(a.VerificationCodeTTLMinutes) * time.Minute
}

// Timeout bounds one call to the generative text provider.
func (s SuggestionsConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
