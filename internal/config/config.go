package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Admin        AdminConfig
	Notification NotificationConfig
	Events       EventsConfig
	Tickets      TicketsConfig
	I18n         I18nConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN             string
	ApplicationName string
	MaxConns        int32
	MinConns        int32
	RunMigrations   bool
	ConnMaxIdleSec  int32
	ConnMaxLifeSec  int32
}

// RedisConfig holds Redis connection values. URL takes precedence over Addr when set.
type RedisConfig struct {
	URL      string
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level   string
	Service string
	Env     string
}

// AdminConfig defines the shared-secret gate for back-office endpoints.
type AdminConfig struct {
	APISecret     string
	APISecretHash string
	DisplayName   string
}

// NotificationConfig holds transactional email settings.
type NotificationConfig struct {
	BrevoAPIURL    string
	BrevoAPIKey    string
	EmailFrom      string
	EmailFromName  string
	TimeoutSeconds int
}

// EventsConfig controls the ticket event stream consumed by the notification worker.
type EventsConfig struct {
	Stream       string
	Group        string
	Consumer     string
	StreamMaxLen int64
	BlockSeconds int
}

// TicketsConfig carries lifecycle policy knobs.
type TicketsConfig struct {
	ResolvedAtPolicy string
}

// I18nConfig selects the fallback language.
type I18nConfig struct {
	DefaultLanguage string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	policy := strings.ToLower(getEnv("TICKET_RESOLVED_AT_POLICY", "first"))
	if policy != "first" && policy != "latest" {
		return nil, fmt.Errorf("invalid TICKET_RESOLVED_AT_POLICY %q: want first or latest", policy)
	}

	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "consumer-" + uuid.NewString()[:8]
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "support-desk"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:             os.Getenv("POSTGRES_DSN"),
			ApplicationName: getEnv("APP_NAME", "support-desk"),
			MaxConns:        int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:        int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:   getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec:  int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec:  int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			URL:      os.Getenv("REDIS_URL"),
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Service: getEnv("APP_NAME", "support-desk"),
			Env:     getEnv("APP_ENV", "development"),
		},
		Admin: AdminConfig{
			APISecret:     os.Getenv("ADMIN_API_SECRET"),
			APISecretHash: os.Getenv("ADMIN_API_SECRET_HASH"),
			DisplayName:   getEnv("ADMIN_DISPLAY_NAME", "Support Team"),
		},
		Notification: NotificationConfig{
			BrevoAPIURL:    getEnv("BREVO_API_URL", "https://api.brevo.com"),
			BrevoAPIKey:    os.Getenv("BREVO_API_KEY"),
			EmailFrom:      getEnv("NOTIFY_EMAIL_FROM", "support@example.com"),
			EmailFromName:  getEnv("NOTIFY_EMAIL_FROM_NAME", "Support"),
			TimeoutSeconds: getEnvAsInt("NOTIFY_TIMEOUT_SECONDS", 10),
		},
		Events: EventsConfig{
			Stream:       getEnv("EVENTS_STREAM", "support:ticket-events"),
			Group:        getEnv("EVENTS_GROUP", "notifications"),
			Consumer:     getEnv("EVENTS_CONSUMER", hostname),
			StreamMaxLen: int64(getEnvAsInt("EVENTS_STREAM_MAXLEN", 10000)),
			BlockSeconds: getEnvAsInt("EVENTS_BLOCK_SECONDS", 5),
		},
		Tickets: TicketsConfig{
			ResolvedAtPolicy: policy,
		},
		I18n: I18nConfig{
			DefaultLanguage: getEnv("I18N_DEFAULT_LANGUAGE", "en"),
		},
	}

	return cfg, nil
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

// Timeout bounds a single outbound email call.
func (n NotificationConfig) Timeout() time.Duration {
	if n.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(n.TimeoutSeconds) * time.Second
}

// Block returns how long a stream read waits for new events.
func (e EventsConfig) Block() time.Duration {
	if e.BlockSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(e.BlockSeconds) * time.Second
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
