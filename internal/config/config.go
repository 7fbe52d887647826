package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the service configuration
type Config struct {
	Port          string
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret       string
	AnalystUsername string
	AnalystPassword string
	CORSOrigin      string

	LogLevel    string
	InsightsTTL time.Duration
	ProgressTTL time.Duration

	AI *AIConfig
}

// Load reads a .env file when present, then the environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file, using process environment")
	}

	return &Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		MongoURI:        getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnvOrDefault("MONGO_DB", "conceptlab"),
		RedisAddr:       strings.TrimPrefix(getEnvOrDefault("REDIS_URI", "localhost:6379"), "redis://"),
		RedisPassword:   getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		JWTSecret:       getEnvOrDefault("JWT_SECRET", "dev-secret-change-in-production"),
		AnalystUsername: getEnvOrDefault("ANALYST_USERNAME", "analyst"),
		AnalystPassword: getEnvOrDefault("ANALYST_PASSWORD", "analyst123"),
		CORSOrigin:      getEnvOrDefault("CORS_ORIGIN", "*"),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		InsightsTTL:     time.Duration(getEnvInt("INSIGHTS_TTL_MIN", 60)) * time.Minute,
		ProgressTTL:     time.Duration(getEnvInt("PROGRESS_TTL_MIN", 120)) * time.Minute,
		AI:              DefaultAIConfig(),
	}
}
