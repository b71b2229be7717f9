package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort  string
	Environment string
	LogLevel    string
	FrontendURL string

	JWTSecret string
	JWTExpiry time.Duration

	RedisURL      string
	CacheTTL      time.Duration
	EventsChannel string

	RateLimitWindow      time.Duration
	RateLimitMaxRequests int

	InProgressLimit  int
	MaxBoardsPerUser int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using system environment variables")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "jobtracker"),
		DBPassword: getEnv("DB_PASSWORD", "jobtracker"),
		DBName:     getEnv("DB_NAME", "jobtracker"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		JWTSecret: getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpiry: getEnvAsDuration("JWT_EXPIRY", 24*time.Hour),

		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),
		CacheTTL:      getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		EventsChannel: getEnv("EVENTS_CHANNEL", "board-events"),

		RateLimitWindow:      getEnvAsDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		RateLimitMaxRequests: getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 1000),

		InProgressLimit:  getEnvAsInt("IN_PROGRESS_LIMIT", 3),
		MaxBoardsPerUser: getEnvAsInt("MAX_BOARDS_PER_USER", 5),
	}
}

// DSN returns the postgres connection string for gorm.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// MigrateURL returns the postgres URL golang-migrate expects.
func (c *Config) MigrateURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultVal
}

// getEnvAsDuration accepts Go durations ("15m") or plain seconds ("900").
func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultVal
}
