package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	DatabaseURL   string
	WorkerCount   int
	InputEncoding string
	LogLevel      string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		DatabaseURL:   getEnv("W3X_DATABASE_URL", "postgres://localhost:5432/w3xparser?sslmode=disable"),
		WorkerCount:   getEnvInt("W3X_WORKER_COUNT", 8),
		InputEncoding: getEnv("W3X_INPUT_ENCODING", "utf-8"),
		LogLevel:      getEnv("W3X_LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
