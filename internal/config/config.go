// Package config loads runtime configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	LogLevel  slog.Level
	Database  *DatabaseConfig
	Redis     *RedisConfig
	WAAPI     *WAAPIConfig
	Scheduler *SchedulerConfig
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	schedulerConfig, err := LoadSchedulerConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:      port,
		LogLevel:  parseLogLevel(os.Getenv("LOG_LEVEL")),
		Database:  LoadDatabaseConfig(),
		Redis:     redisConfig,
		WAAPI:     LoadWAAPIConfig(),
		Scheduler: schedulerConfig,
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
